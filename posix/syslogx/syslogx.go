package syslogx

import (
	"log/syslog"
	"sync"

	"github.com/xcbridge/posix-runtime/bridge"
	"github.com/xcbridge/posix-runtime/outcome"
	"github.com/xcbridge/posix-runtime/param"
)

// openlog option bits, libc values. The Go syslog transport has no direct
// equivalent for most of them: NDELAY is honored (connect immediately),
// PID is always on (the transport stamps the pid unconditionally), CONS
// and NOWAIT resolve but change nothing.
const (
	LogPID    = 0x01
	LogCons   = 0x02
	LogNDelay = 0x08
	LogNoWait = 0x10
)

// Options is the openlog option table.
var Options = param.MustNew(
	param.Entry{Name: "CONS", Value: LogCons},
	param.Entry{Name: "NDELAY", Value: LogNDelay},
	param.Entry{Name: "NOWAIT", Value: LogNoWait},
	param.Entry{Name: "PID", Value: LogPID},
)

// Facilities is the openlog facility table.
var Facilities = param.MustNew(
	param.Entry{Name: "AUTH", Value: int(syslog.LOG_AUTH)},
	param.Entry{Name: "AUTHPRIV", Value: int(syslog.LOG_AUTHPRIV)},
	param.Entry{Name: "CRON", Value: int(syslog.LOG_CRON)},
	param.Entry{Name: "DAEMON", Value: int(syslog.LOG_DAEMON)},
	param.Entry{Name: "FTP", Value: int(syslog.LOG_FTP)},
	param.Entry{Name: "KERN", Value: int(syslog.LOG_KERN)},
	param.Entry{Name: "LOCAL0", Value: int(syslog.LOG_LOCAL0)},
	param.Entry{Name: "LOCAL1", Value: int(syslog.LOG_LOCAL1)},
	param.Entry{Name: "LOCAL2", Value: int(syslog.LOG_LOCAL2)},
	param.Entry{Name: "LOCAL3", Value: int(syslog.LOG_LOCAL3)},
	param.Entry{Name: "LOCAL4", Value: int(syslog.LOG_LOCAL4)},
	param.Entry{Name: "LOCAL5", Value: int(syslog.LOG_LOCAL5)},
	param.Entry{Name: "LOCAL6", Value: int(syslog.LOG_LOCAL6)},
	param.Entry{Name: "LOCAL7", Value: int(syslog.LOG_LOCAL7)},
	param.Entry{Name: "LPR", Value: int(syslog.LOG_LPR)},
	param.Entry{Name: "MAIL", Value: int(syslog.LOG_MAIL)},
	param.Entry{Name: "NEWS", Value: int(syslog.LOG_NEWS)},
	param.Entry{Name: "SYSLOG", Value: int(syslog.LOG_SYSLOG)},
	param.Entry{Name: "USER", Value: int(syslog.LOG_USER)},
	param.Entry{Name: "UUCP", Value: int(syslog.LOG_UUCP)},
)

// Priorities is the syslog severity table.
var Priorities = param.MustNew(
	param.Entry{Name: "EMERG", Value: int(syslog.LOG_EMERG)},
	param.Entry{Name: "ALERT", Value: int(syslog.LOG_ALERT)},
	param.Entry{Name: "CRIT", Value: int(syslog.LOG_CRIT)},
	param.Entry{Name: "ERR", Value: int(syslog.LOG_ERR)},
	param.Entry{Name: "WARNING", Value: int(syslog.LOG_WARNING)},
	param.Entry{Name: "NOTICE", Value: int(syslog.LOG_NOTICE)},
	param.Entry{Name: "INFO", Value: int(syslog.LOG_INFO)},
	param.Entry{Name: "DEBUG", Value: int(syslog.LOG_DEBUG)},
)

// Host bridges openlog and syslog. The native openlog defers connecting
// until the first message unless NDELAY is given; this host does the same.
type Host struct {
	mu       sync.Mutex
	w        *syslog.Writer
	tag      string
	facility syslog.Priority
}

func NewHost() *Host {
	return &Host{facility: syslog.LOG_USER}
}

func (h *Host) Namespace() string {
	return "posix/syslog"
}

func (h *Host) Attach(b *bridge.Bridge) error {
	ops := []bridge.Op{
		{
			Name:  "openlog",
			Doc:   "set syslog identity, options, and facility",
			Shape: outcome.ShapeIndicator,
			Params: []bridge.Param{
				bridge.In("ident"),
				bridge.Opt("option", Options),
				bridge.Opt("facility", Facilities),
			},
			Func: h.openlog,
		},
		{
			Name:  "syslog",
			Doc:   "submit one message",
			Shape: outcome.ShapeIndicator,
			Params: []bridge.Param{
				bridge.Opt("priority", Priorities),
				bridge.In("message"),
			},
			Func: h.syslog,
		},
	}
	for _, op := range ops {
		if err := b.Register(op); err != nil {
			return err
		}
	}
	return nil
}

func (h *Host) openlog(c *bridge.Call) outcome.Outcome {
	opts, err := Options.ResolveFlags(c.String(1))
	if err != nil {
		return outcome.FromError(err)
	}
	facility, err := Facilities.ResolveFlags(c.String(2))
	if err != nil {
		return outcome.FromError(err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.w != nil {
		h.w.Close()
		h.w = nil
	}
	h.tag = c.String(0)
	h.facility = syslog.Priority(facility)

	if opts&LogNDelay != 0 {
		w, err := syslog.New(h.facility, h.tag)
		if err != nil {
			return outcome.Indicator(err)
		}
		h.w = w
	}
	return outcome.Success()
}

func (h *Host) syslog(c *bridge.Call) outcome.Outcome {
	severity, err := Priorities.Resolve(c.String(0))
	if err != nil {
		return outcome.FromError(err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.w == nil {
		w, dialErr := syslog.New(h.facility, h.tag)
		if dialErr != nil {
			return outcome.Indicator(dialErr)
		}
		h.w = w
	}

	msg := c.String(1)
	switch syslog.Priority(severity) {
	case syslog.LOG_EMERG:
		err = h.w.Emerg(msg)
	case syslog.LOG_ALERT:
		err = h.w.Alert(msg)
	case syslog.LOG_CRIT:
		err = h.w.Crit(msg)
	case syslog.LOG_ERR:
		err = h.w.Err(msg)
	case syslog.LOG_WARNING:
		err = h.w.Warning(msg)
	case syslog.LOG_NOTICE:
		err = h.w.Notice(msg)
	case syslog.LOG_INFO:
		err = h.w.Info(msg)
	default:
		err = h.w.Debug(msg)
	}
	return outcome.Indicator(err)
}

// Close releases the syslog connection, if one was opened.
func (h *Host) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.w == nil {
		return nil
	}
	err := h.w.Close()
	h.w = nil
	return err
}
