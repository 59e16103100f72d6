package calendar

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"github.com/xcbridge/posix-runtime/bridge"
	"github.com/xcbridge/posix-runtime/outcome"
)

func newBridge(t *testing.T) *bridge.Bridge {
	t.Helper()
	b := bridge.New()
	require.NoError(t, b.RegisterHost(NewHost()))
	return b
}

type tm struct {
	sec, min, hour, mday, mon, year, wday, yday, isdst int64
}

func (v *tm) outs() []any {
	return []any{&v.sec, &v.min, &v.hour, &v.mday, &v.mon, &v.year, &v.wday, &v.yday, &v.isdst}
}

func (v *tm) ins() []any {
	return []any{v.sec, v.min, v.hour, v.mday, v.mon, v.year, v.wday, v.yday, v.isdst}
}

func TestGmtime(t *testing.T) {
	b := newBridge(t)

	// 2009-02-13T23:31:30Z, a Friday.
	var v tm
	o, err := b.Call("gmtime", append([]any{int64(1234567890)}, v.outs()...)...)
	require.NoError(t, err)
	require.True(t, o.OK(), o.String())

	assert.Equal(t, int64(30), v.sec)
	assert.Equal(t, int64(31), v.min)
	assert.Equal(t, int64(23), v.hour)
	assert.Equal(t, int64(13), v.mday)
	assert.Equal(t, int64(1), v.mon, "months count from zero")
	assert.Equal(t, int64(109), v.year, "years count from 1900")
	assert.Equal(t, int64(5), v.wday)
	assert.Equal(t, int64(43), v.yday, "day of year counts from zero")
	assert.Equal(t, int64(0), v.isdst)
}

func TestLocaltimeMktimeRoundtrip(t *testing.T) {
	b := newBridge(t)

	epoch := time.Now().Unix()
	var v tm
	o, err := b.Call("localtime", append([]any{epoch}, v.outs()...)...)
	require.NoError(t, err)
	require.True(t, o.OK(), o.String())

	o, err = b.Call("mktime", v.ins()...)
	require.NoError(t, err)
	require.True(t, o.OK(), o.String())
	assert.Equal(t, epoch, o.Value)
}

func TestMktime_NormalizesFields(t *testing.T) {
	b := newBridge(t)

	// Second 60 of 23:59 rolls into the next day, as mktime(3) does.
	before := tm{sec: 59, min: 59, hour: 23, mday: 31, mon: 11, year: 120}
	after := tm{sec: 60, min: 59, hour: 23, mday: 31, mon: 11, year: 120}

	o1, err := b.Call("mktime", before.ins()...)
	require.NoError(t, err)
	o2, err := b.Call("mktime", after.ins()...)
	require.NoError(t, err)
	assert.Equal(t, o1.Value+1, o2.Value)
}

func TestStrftime(t *testing.T) {
	b := newBridge(t)

	v := tm{sec: 5, min: 4, hour: 3, mday: 2, mon: 0, year: 123}
	buf := bridge.NewBuffer(StrftimeBufSize)
	args := append(append([]any{"%Y-%m-%d %H:%M:%S"}, v.ins()...), buf)
	o, err := b.Call("strftime", args...)
	require.NoError(t, err)
	require.True(t, o.OK(), o.String())
	assert.Equal(t, "2023-01-02 03:04:05", buf.String())
}

func TestStrftime_Overflow(t *testing.T) {
	b := newBridge(t)

	v := tm{mday: 1, year: 123}
	buf := bridge.NewBuffer(StrftimeBufSize)
	format := strings.Repeat("%Y-%m-%d ", 30)
	args := append(append([]any{format}, v.ins()...), buf)
	o, err := b.Call("strftime", args...)
	require.NoError(t, err)

	assert.Equal(t, outcome.KindBufferTooSmall, o.Kind)
	assert.Equal(t, unix.ERANGE, o.Status)
	assert.Equal(t, StrftimeBufSize-1, buf.Len(), "the stored prefix fills the buffer")
	assert.True(t, strings.HasPrefix(buf.String(), "2023-01-01 "))
}

func TestStrftime_BadDirective(t *testing.T) {
	b := newBridge(t)

	var v tm
	buf := bridge.NewBuffer(StrftimeBufSize)
	args := append(append([]any{"%Q"}, v.ins()...), buf)
	o, err := b.Call("strftime", args...)
	require.NoError(t, err)
	assert.Equal(t, outcome.KindUnknownOption, o.Kind)
}
