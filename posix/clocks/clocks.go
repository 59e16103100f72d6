//go:build linux

package clocks

import (
	"time"

	"golang.org/x/sys/unix"

	"github.com/xcbridge/posix-runtime/bridge"
	"github.com/xcbridge/posix-runtime/outcome"
	"github.com/xcbridge/posix-runtime/param"
)

// ClockIDs maps stringified clock names (common CLOCK_ prefix stripped) to
// their native identifiers.
var ClockIDs = param.MustNew(
	param.Entry{Name: "REALTIME", Value: unix.CLOCK_REALTIME},
	param.Entry{Name: "MONOTONIC", Value: unix.CLOCK_MONOTONIC},
	param.Entry{Name: "MONOTONIC_RAW", Value: unix.CLOCK_MONOTONIC_RAW},
	param.Entry{Name: "PROCESS_CPUTIME_ID", Value: unix.CLOCK_PROCESS_CPUTIME_ID},
	param.Entry{Name: "THREAD_CPUTIME_ID", Value: unix.CLOCK_THREAD_CPUTIME_ID},
)

// Host bridges the time-query operations.
type Host struct{}

func NewHost() *Host {
	return &Host{}
}

func (h *Host) Namespace() string {
	return "posix/clocks"
}

func (h *Host) Attach(b *bridge.Bridge) error {
	ops := []bridge.Op{
		{
			Name:  "time",
			Doc:   "seconds since the epoch",
			Shape: outcome.ShapePassthrough,
			Func:  h.time,
		},
		{
			Name:   "clockgettime",
			Doc:    "read a clock",
			Shape:  outcome.ShapeIndicator,
			Params: clockParams,
			Func:   h.gettime,
		},
		{
			Name:   "clockgetres",
			Doc:    "resolution of a clock",
			Shape:  outcome.ShapeIndicator,
			Params: clockParams,
			Func:   h.getres,
		},
	}
	for _, op := range ops {
		if err := b.Register(op); err != nil {
			return err
		}
	}
	return nil
}

var clockParams = []bridge.Param{
	bridge.Opt("clk_id", ClockIDs),
	bridge.OutInt("tv_sec"),
	bridge.OutInt("tv_nsec"),
}

func (h *Host) time(_ *bridge.Call) outcome.Outcome {
	return outcome.Pass(time.Now().Unix())
}

func (h *Host) gettime(c *bridge.Call) outcome.Outcome {
	return h.clockGet(c, unix.ClockGettime)
}

func (h *Host) getres(c *bridge.Call) outcome.Outcome {
	return h.clockGet(c, unix.ClockGetres)
}

func (h *Host) clockGet(c *bridge.Call, get func(int32, *unix.Timespec) error) outcome.Outcome {
	clkID, err := ClockIDs.Resolve(c.String(0))
	if err != nil {
		return outcome.FromError(err)
	}
	var ts unix.Timespec
	o := outcome.Indicator(get(int32(clkID), &ts))
	*c.OutInt(1) = ts.Sec
	*c.OutInt(2) = ts.Nsec
	return o
}
