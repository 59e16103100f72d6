//go:build linux

package system

import (
	"bytes"
	"os"

	"golang.org/x/sys/unix"

	"github.com/xcbridge/posix-runtime/bridge"
	"github.com/xcbridge/posix-runtime/outcome"
)

// UtsBufSize is the destination capacity for each uname field.
const UtsBufSize = 128

// Host bridges the system-level queries and environment operations.
type Host struct{}

func NewHost() *Host {
	return &Host{}
}

func (h *Host) Namespace() string {
	return "posix/system"
}

func (h *Host) Attach(b *bridge.Bridge) error {
	ops := []bridge.Op{
		{
			Name:  "uname",
			Doc:   "kernel and machine identification",
			Shape: outcome.ShapeSentinel,
			Params: []bridge.Param{
				bridge.OutBuf("sysname", UtsBufSize),
				bridge.OutBuf("nodename", UtsBufSize),
				bridge.OutBuf("release", UtsBufSize),
				bridge.OutBuf("version", UtsBufSize),
				bridge.OutBuf("machine", UtsBufSize),
			},
			Func: h.uname,
		},
		{
			Name:  "times",
			Doc:   "process and child CPU times in clock ticks",
			Shape: outcome.ShapeIndicator,
			Params: []bridge.Param{
				bridge.OutInt("tms_utime"),
				bridge.OutInt("tms_stime"),
				bridge.OutInt("tms_cutime"),
				bridge.OutInt("tms_cstime"),
			},
			Func: h.times,
		},
		{
			Name:  "sysinfo",
			Doc:   "memory, swap, load, and uptime statistics",
			Shape: outcome.ShapeSentinel,
			Params: []bridge.Param{
				bridge.OutInt("uptime"),
				bridge.OutUint("load1"),
				bridge.OutUint("load5"),
				bridge.OutUint("load15"),
				bridge.OutUint("totalram"),
				bridge.OutUint("freeram"),
				bridge.OutUint("sharedram"),
				bridge.OutUint("bufferram"),
				bridge.OutUint("totalswap"),
				bridge.OutUint("freeswap"),
				bridge.OutUint("procs"),
				bridge.OutUint("totalhigh"),
				bridge.OutUint("freehigh"),
				bridge.OutUint("mem_unit"),
			},
			Func: h.sysinfo,
		},
		{
			Name:   "umask",
			Doc:    "set the file creation mask, returning the old one",
			Shape:  outcome.ShapePassthrough,
			Params: []bridge.Param{bridge.UintIn("mask")},
			Func:   h.umask,
		},
		{
			Name:  "setenv",
			Doc:   "set an environment variable",
			Shape: outcome.ShapeIndicator,
			Params: []bridge.Param{
				bridge.In("name"),
				bridge.In("value"),
				bridge.IntIn("overwrite"),
			},
			Func: h.setenv,
		},
		{
			Name:   "unsetenv",
			Doc:    "remove an environment variable",
			Shape:  outcome.ShapeIndicator,
			Params: []bridge.Param{bridge.In("name")},
			Func:   h.unsetenv,
		},
	}
	for _, op := range ops {
		if err := b.Register(op); err != nil {
			return err
		}
	}
	return nil
}

func (h *Host) uname(c *bridge.Call) outcome.Outcome {
	var u unix.Utsname
	if o := outcome.Sentinel(unix.Uname(&u)); !o.OK() {
		return o
	}
	fields := []string{
		utsField(u.Sysname[:]),
		utsField(u.Nodename[:]),
		utsField(u.Release[:]),
		utsField(u.Version[:]),
		utsField(u.Machine[:]),
	}
	for i, f := range fields {
		if err := c.Buffer(i).SetString(f); err != nil {
			return outcome.FromError(err)
		}
	}
	return outcome.Success()
}

func (h *Host) times(c *bridge.Call) outcome.Outcome {
	var t unix.Tms
	// The native return value (clock ticks since an arbitrary point) can
	// overflow and overlaps the error sentinel, so only the indicator is
	// reported.
	_, err := unix.Times(&t)
	o := outcome.Indicator(err)
	*c.OutInt(0) = t.Utime
	*c.OutInt(1) = t.Stime
	*c.OutInt(2) = t.Cutime
	*c.OutInt(3) = t.Cstime
	return o
}

func (h *Host) sysinfo(c *bridge.Call) outcome.Outcome {
	var si unix.Sysinfo_t
	if o := outcome.Sentinel(unix.Sysinfo(&si)); !o.OK() {
		return o
	}
	*c.OutInt(0) = si.Uptime
	*c.OutUint(1) = uint64(si.Loads[0])
	*c.OutUint(2) = uint64(si.Loads[1])
	*c.OutUint(3) = uint64(si.Loads[2])
	*c.OutUint(4) = uint64(si.Totalram)
	*c.OutUint(5) = uint64(si.Freeram)
	*c.OutUint(6) = uint64(si.Sharedram)
	*c.OutUint(7) = uint64(si.Bufferram)
	*c.OutUint(8) = uint64(si.Totalswap)
	*c.OutUint(9) = uint64(si.Freeswap)
	*c.OutUint(10) = uint64(si.Procs)
	*c.OutUint(11) = uint64(si.Totalhigh)
	*c.OutUint(12) = uint64(si.Freehigh)
	*c.OutUint(13) = uint64(si.Unit)
	return outcome.Success()
}

func (h *Host) umask(c *bridge.Call) outcome.Outcome {
	old := unix.Umask(int(c.Uint(0)))
	return outcome.Pass(int64(old))
}

func (h *Host) setenv(c *bridge.Call) outcome.Outcome {
	name, value := c.String(0), c.String(1)
	if c.Int(2) == 0 {
		if _, exists := os.LookupEnv(name); exists {
			return outcome.Success()
		}
	}
	return outcome.Indicator(os.Setenv(name, value))
}

func (h *Host) unsetenv(c *bridge.Call) outcome.Outcome {
	return outcome.Indicator(os.Unsetenv(c.String(0)))
}

func utsField(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b)
}
