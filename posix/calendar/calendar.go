package calendar

import (
	"time"

	"github.com/lestrrat-go/strftime"

	"github.com/xcbridge/posix-runtime/bridge"
	"github.com/xcbridge/posix-runtime/outcome"
)

// StrftimeBufSize is the destination capacity for formatted timestamps,
// matching the original binding's 128-byte buffer.
const StrftimeBufSize = 128

// Host bridges broken-down time conversion and formatting.
type Host struct{}

func NewHost() *Host {
	return &Host{}
}

func (h *Host) Namespace() string {
	return "posix/calendar"
}

// tmOutParams mirrors struct tm: tm_year counts years since 1900 and
// tm_mon runs 0-11, exactly as the native convention defines them.
var tmOutParams = []bridge.Param{
	bridge.OutInt("tm_sec"),
	bridge.OutInt("tm_min"),
	bridge.OutInt("tm_hour"),
	bridge.OutInt("tm_mday"),
	bridge.OutInt("tm_mon"),
	bridge.OutInt("tm_year"),
	bridge.OutInt("tm_wday"),
	bridge.OutInt("tm_yday"),
	bridge.OutInt("tm_isdst"),
}

var tmInParams = []bridge.Param{
	bridge.IntIn("tm_sec"),
	bridge.IntIn("tm_min"),
	bridge.IntIn("tm_hour"),
	bridge.IntIn("tm_mday"),
	bridge.IntIn("tm_mon"),
	bridge.IntIn("tm_year"),
	bridge.IntIn("tm_wday"),
	bridge.IntIn("tm_yday"),
	bridge.IntIn("tm_isdst"),
}

func (h *Host) Attach(b *bridge.Bridge) error {
	ops := []bridge.Op{
		{
			Name:   "localtime",
			Doc:    "epoch seconds to broken-down local time",
			Shape:  outcome.ShapeLookup,
			Params: append([]bridge.Param{bridge.IntIn("t")}, tmOutParams...),
			Func:   func(c *bridge.Call) outcome.Outcome { return h.breakDown(c, time.Local) },
		},
		{
			Name:   "gmtime",
			Doc:    "epoch seconds to broken-down UTC time",
			Shape:  outcome.ShapeLookup,
			Params: append([]bridge.Param{bridge.IntIn("t")}, tmOutParams...),
			Func:   func(c *bridge.Call) outcome.Outcome { return h.breakDown(c, time.UTC) },
		},
		{
			Name:   "mktime",
			Doc:    "broken-down local time to epoch seconds",
			Shape:  outcome.ShapePassthrough,
			Params: tmInParams,
			Func:   h.mktime,
		},
		{
			Name:  "strftime",
			Doc:   "format broken-down time with % directives",
			Shape: outcome.ShapeIndicator,
			Params: append(append([]bridge.Param{bridge.In("format")}, tmInParams...),
				bridge.OutBuf("s", StrftimeBufSize)),
			Func: h.strftime,
		},
	}
	for _, op := range ops {
		if err := b.Register(op); err != nil {
			return err
		}
	}
	return nil
}

// breakDown carries the original's lookup classification: the native
// localtime/gmtime return NULL on failure, but the Go time package cannot
// fail here, so the negative branch is unreachable and every call reports
// Success with the fields populated.
func (h *Host) breakDown(c *bridge.Call, loc *time.Location) outcome.Outcome {
	t := time.Unix(c.Int(0), 0).In(loc)
	*c.OutInt(1) = int64(t.Second())
	*c.OutInt(2) = int64(t.Minute())
	*c.OutInt(3) = int64(t.Hour())
	*c.OutInt(4) = int64(t.Day())
	*c.OutInt(5) = int64(t.Month() - 1)
	*c.OutInt(6) = int64(t.Year() - 1900)
	*c.OutInt(7) = int64(t.Weekday())
	*c.OutInt(8) = int64(t.YearDay() - 1)
	*c.OutInt(9) = isdst(t, loc)
	return outcome.Success()
}

func (h *Host) mktime(c *bridge.Call) outcome.Outcome {
	t := fromTm(c, 0, time.Local)
	return outcome.Pass(t.Unix())
}

func (h *Host) strftime(c *bridge.Call) outcome.Outcome {
	f, err := strftime.New(c.String(0))
	if err != nil {
		return outcome.UnknownOption(c.String(0)).Outcome
	}
	t := fromTm(c, 1, time.Local)
	if err := c.Buffer(10).SetString(f.FormatString(t)); err != nil {
		return outcome.FromError(err)
	}
	return outcome.Success()
}

// fromTm assembles a time from nine tm_* arguments starting at index base.
// time.Date normalizes out-of-range fields the way mktime(3) does.
func fromTm(c *bridge.Call, base int, loc *time.Location) time.Time {
	return time.Date(
		int(c.Int(base+5))+1900,
		time.Month(c.Int(base+4)+1),
		int(c.Int(base+3)),
		int(c.Int(base+2)),
		int(c.Int(base+1)),
		int(c.Int(base+0)),
		0, loc)
}

func isdst(t time.Time, loc *time.Location) int64 {
	if loc == time.UTC {
		return 0
	}
	_, winter := time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, loc).Zone()
	_, summer := time.Date(t.Year(), time.July, 1, 0, 0, 0, 0, loc).Zone()
	if winter == summer {
		return 0
	}
	_, off := t.Zone()
	if off == max(winter, summer) {
		return 1
	}
	return 0
}
