package outcome

import (
	"errors"
	"syscall"

	"golang.org/x/sys/unix"
)

// Shape is the response shape statically assigned to a wrapped operation.
// Each operation is classified exactly once and never mixes shapes.
type Shape uint8

const (
	// ShapeIndicator: only the post-call error indicator matters; the
	// native return value is not reported (useless, overflow-prone, or
	// duplicating the error sentinel). In Go the indicator is the explicit
	// error return of the native call, so the POSIX precondition of
	// clearing errno before the call holds by construction.
	ShapeIndicator Shape = iota

	// ShapeSentinel: the native "0 success / -1 failure" convention; the
	// indicator is reported only when the sentinel was returned.
	ShapeSentinel

	// ShapeLookup: a pointer/handle-returning lookup where a negative
	// result leaves the indicator undefined; a fixed, policy-chosen code
	// is forced instead of leaking an accidental one.
	ShapeLookup

	// ShapePassthrough: the native return value is the caller-visible
	// result and there is no error channel (time, umask, mktime).
	ShapePassthrough
)

func (s Shape) String() string {
	switch s {
	case ShapeIndicator:
		return "indicator"
	case ShapeSentinel:
		return "sentinel"
	case ShapeLookup:
		return "lookup"
	case ShapePassthrough:
		return "passthrough"
	}
	return "unknown"
}

// Indicator classifies an errno-is-truth call.
func Indicator(err error) Outcome {
	return classifyNative(err)
}

// Sentinel classifies a 0/-1 call. x/sys/unix surfaces the sentinel as a
// non-nil error, so the mapping coincides with Indicator; the separate
// entry point keeps each operation's declared shape visible at the call
// site.
func Sentinel(err error) Outcome {
	return classifyNative(err)
}

// Lookup classifies a lookup-style call. A failed lookup with no OS-set
// indicator is forced to notFound rather than reporting an undefined code;
// an OS-set indicator still wins.
func Lookup(found bool, err error, notFound unix.Errno) Outcome {
	if err != nil {
		return classifyNative(err)
	}
	if !found {
		return Native(notFound)
	}
	return Success()
}

func classifyNative(err error) Outcome {
	if err == nil {
		return Success()
	}
	var errno unix.Errno
	if errors.As(err, &errno) {
		if errno == 0 {
			return Success()
		}
		return Native(errno)
	}
	// os.* and os/user failures carry the stdlib errno type.
	var serrno syscall.Errno
	if errors.As(err, &serrno) {
		if serrno == 0 {
			return Success()
		}
		return Native(unix.Errno(serrno))
	}
	return Outcome{Kind: KindNativeError, Status: unix.EIO, Cause: err}
}
