package outcome

import (
	"fmt"
	"syscall"
	"testing"

	"golang.org/x/sys/unix"
)

func TestIndicator(t *testing.T) {
	if o := Indicator(nil); !o.OK() {
		t.Fatal("nil indicator should be Success")
	}
	o := Indicator(unix.EPERM)
	if o.Kind != KindNativeError || o.Status != unix.EPERM {
		t.Fatalf("Expected native EPERM, got %s", o)
	}
}

func TestSentinel(t *testing.T) {
	if o := Sentinel(nil); !o.OK() {
		t.Fatal("No sentinel should be Success")
	}
	o := Sentinel(unix.ENOENT)
	if o.Status != unix.ENOENT {
		t.Fatalf("Expected ENOENT, got %s", o)
	}
}

func TestClassify_UnwrapsWrappedErrno(t *testing.T) {
	wrapped := fmt.Errorf("stat /nope: %w", unix.ENOENT)
	if o := Indicator(wrapped); o.Status != unix.ENOENT {
		t.Fatalf("Expected ENOENT through wrapping, got %s", o)
	}

	// os.* failures carry syscall.Errno, a different named type.
	stdlib := fmt.Errorf("setenv: %w", syscall.EINVAL)
	if o := Indicator(stdlib); o.Status != unix.EINVAL {
		t.Fatalf("Expected EINVAL from syscall.Errno, got %s", o)
	}
}

func TestLookup_ForcesNotFoundCode(t *testing.T) {
	// Negative lookup, indicator unset: the policy code must be forced
	// rather than leaking an accidental one.
	o := Lookup(false, nil, unix.ENOENT)
	if o.Kind != KindNativeError || o.Status != unix.ENOENT {
		t.Fatalf("Expected forced ENOENT, got %s", o)
	}

	// The code is policy, not a constant.
	o = Lookup(false, nil, unix.ESRCH)
	if o.Status != unix.ESRCH {
		t.Fatalf("Expected forced ESRCH, got %s", o)
	}
}

func TestLookup_OSIndicatorWins(t *testing.T) {
	o := Lookup(false, unix.EACCES, unix.ENOENT)
	if o.Status != unix.EACCES {
		t.Fatalf("OS-set indicator should win, got %s", o)
	}
}

func TestLookup_Found(t *testing.T) {
	if o := Lookup(true, nil, unix.ENOENT); !o.OK() {
		t.Fatalf("Positive lookup should be Success, got %s", o)
	}
}

func TestShapeString(t *testing.T) {
	shapes := map[Shape]string{
		ShapeIndicator:   "indicator",
		ShapeSentinel:    "sentinel",
		ShapeLookup:      "lookup",
		ShapePassthrough: "passthrough",
	}
	for s, want := range shapes {
		if s.String() != want {
			t.Fatalf("Expected %q, got %q", want, s.String())
		}
	}
}
