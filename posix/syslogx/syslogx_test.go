package syslogx

import (
	"log/syslog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"github.com/xcbridge/posix-runtime/bridge"
	"github.com/xcbridge/posix-runtime/outcome"
)

func newBridge(t *testing.T, h *Host) *bridge.Bridge {
	t.Helper()
	b := bridge.New()
	require.NoError(t, b.RegisterHost(h))
	return b
}

func TestOpenlog_DefersConnection(t *testing.T) {
	h := NewHost()
	defer h.Close()
	b := newBridge(t, h)

	o, err := b.Call("openlog", "mytag", "PID|CONS", "LOCAL0")
	require.NoError(t, err)
	require.True(t, o.OK(), o.String())

	// Without NDELAY nothing is dialed, so this works with no daemon.
	assert.Nil(t, h.w)
	assert.Equal(t, "mytag", h.tag)
	assert.Equal(t, syslog.LOG_LOCAL0, h.facility)
}

func TestOpenlog_BadOption(t *testing.T) {
	h := NewHost()
	defer h.Close()
	b := newBridge(t, h)

	o, err := b.Call("openlog", "tag", "PID|PERROR", "USER")
	require.NoError(t, err)
	assert.Equal(t, outcome.KindUnknownOption, o.Kind)
	assert.Equal(t, unix.EINVAL, o.Status)
	assert.Nil(t, h.w)
}

func TestOpenlog_BadFacility(t *testing.T) {
	h := NewHost()
	defer h.Close()
	b := newBridge(t, h)

	o, err := b.Call("openlog", "tag", "PID", "LOCAL9")
	require.NoError(t, err)
	assert.Equal(t, outcome.KindUnknownOption, o.Kind)
}

func TestSyslog_BadPriorityRejectedBeforeDialing(t *testing.T) {
	h := NewHost()
	defer h.Close()
	b := newBridge(t, h)

	o, err := b.Call("syslog", "VERBOSE", "hello")
	require.NoError(t, err)
	assert.Equal(t, outcome.KindUnknownOption, o.Kind)
	assert.Nil(t, h.w, "a bad priority must not open a connection")
}

func TestSyslog_Emit(t *testing.T) {
	h := NewHost()
	defer h.Close()
	b := newBridge(t, h)

	o, err := b.Call("syslog", "INFO", "hello from the test suite")
	require.NoError(t, err)
	if !o.OK() {
		t.Skipf("no syslog daemon reachable: %s", o)
	}
	assert.NotNil(t, h.w)
}

func TestTables(t *testing.T) {
	opts, err := Options.ResolveFlags("pid|ndelay|nowait|cons")
	require.NoError(t, err)
	assert.Equal(t, LogPID|LogNDelay|LogNoWait|LogCons, opts)

	fac, err := Facilities.Resolve("daemon")
	require.NoError(t, err)
	assert.Equal(t, int(syslog.LOG_DAEMON), fac)

	pri, err := Priorities.Resolve("WARNING")
	require.NoError(t, err)
	assert.Equal(t, int(syslog.LOG_WARNING), pri)
}
