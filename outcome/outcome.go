package outcome

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sys/unix"
)

// Kind categorizes the classified result of one bridged operation.
type Kind string

const (
	KindSuccess        Kind = "success"
	KindNativeError    Kind = "native_error"
	KindArgumentCount  Kind = "argument_count_mismatch"
	KindUnknownOption  Kind = "unknown_option"
	KindBufferTooSmall Kind = "buffer_too_small"
	KindHandleInvalid  Kind = "handle_invalid"
	KindRegistryFull   Kind = "registry_full"
)

// Outcome is the uniform classified result of one bridged operation.
// Exactly one Outcome is produced per invocation; outcomes are terminal.
//
// Status is the errno-compatible code reported to the host caller:
//
//	Success                 -> 0
//	ArgumentCountMismatch   -> ENODATA
//	UnknownOption           -> EINVAL
//	BufferTooSmall          -> ERANGE
//	HandleInvalid           -> EINVAL
//	RegistryFull            -> EMFILE
//	NativeError             -> the OS code, verbatim
//
// Value carries the native return value of passthrough-shaped operations
// (e.g., the old mask from umask); it is zero for every other shape.
type Outcome struct {
	Cause  error
	Kind   Kind
	Detail string
	Status unix.Errno
	Value  int64
}

// Success returns the zero-status outcome.
func Success() Outcome {
	return Outcome{Kind: KindSuccess}
}

// Pass returns a successful outcome carrying a passthrough result value.
func Pass(value int64) Outcome {
	return Outcome{Kind: KindSuccess, Value: value}
}

// OK reports whether the outcome is Success.
func (o Outcome) OK() bool {
	return o.Kind == KindSuccess
}

// Err returns nil for Success and a *Error for every other kind.
func (o Outcome) Err() error {
	if o.OK() {
		return nil
	}
	return &Error{Outcome: o}
}

func (o Outcome) String() string {
	if o.OK() {
		if o.Value != 0 {
			return fmt.Sprintf("success (value %d)", o.Value)
		}
		return "success"
	}
	var b strings.Builder
	b.WriteString(string(o.Kind))
	if o.Status != 0 {
		fmt.Fprintf(&b, " [errno %d %s]", int(o.Status), unix.ErrnoName(o.Status))
	}
	if o.Detail != "" {
		b.WriteString(": ")
		b.WriteString(o.Detail)
	}
	if o.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(o.Cause.Error())
		b.WriteByte(')')
	}
	return b.String()
}

// Error is the failure half of an Outcome, usable as a Go error.
// Leaf components (param tables, the handle registry) return *Error;
// wrappers convert back with FromError.
type Error struct {
	Outcome
}

func (e *Error) Error() string {
	return e.Outcome.String()
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches on Kind so callers can test taxonomy membership with errors.Is.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Kind == t.Kind
	}
	return false
}

// Convenience constructors for the failure taxonomy.

// Native reports a domain-specific OS failure, propagated verbatim.
func Native(errno unix.Errno) Outcome {
	return Outcome{Kind: KindNativeError, Status: errno}
}

// ArgumentCount reports a call supplying the wrong number of arguments.
// This is a programming/binding error: it is reported before any native
// work occurs and is never retried.
func ArgumentCount(op string, want, got int) Outcome {
	return Outcome{
		Kind:   KindArgumentCount,
		Status: unix.ENODATA,
		Detail: fmt.Sprintf("%s: want %d arguments, got %d", op, want, got),
	}
}

// ArgumentType reports an argument bound with the wrong native type.
// It shares the ArgumentCountMismatch kind: both are binding errors
// detected before native work.
func ArgumentType(op string, index int, want, got string) Outcome {
	return Outcome{
		Kind:   KindArgumentCount,
		Status: unix.ENODATA,
		Detail: fmt.Sprintf("%s: argument %d: want %s, got %s", op, index, want, got),
	}
}

// UnknownOption reports a flag or option name absent from its table.
func UnknownOption(token string) *Error {
	detail := fmt.Sprintf("no option named %q", token)
	if token == "" {
		detail = "empty option token"
	}
	return &Error{Outcome{
		Kind:   KindUnknownOption,
		Status: unix.EINVAL,
		Detail: detail,
	}}
}

// BufferTooSmall reports a native result that does not fit its destination.
func BufferTooSmall(need, capacity int) *Error {
	return &Error{Outcome{
		Kind:   KindBufferTooSmall,
		Status: unix.ERANGE,
		Detail: fmt.Sprintf("need %d bytes, capacity %d", need, capacity),
	}}
}

// HandleInvalid reports a handle that was never issued or already revoked.
func HandleInvalid(handle uint64) *Error {
	return &Error{Outcome{
		Kind:   KindHandleInvalid,
		Status: unix.EINVAL,
		Detail: fmt.Sprintf("handle %d is not registered", handle),
	}}
}

// RegistryFull reports handle registry capacity exhaustion.
func RegistryFull(capacity int) *Error {
	return &Error{Outcome{
		Kind:   KindRegistryFull,
		Status: unix.EMFILE,
		Detail: fmt.Sprintf("registry holds %d handles", capacity),
	}}
}

// FromError converts an error produced by a core component into an Outcome.
// *Error values pass through unchanged, bare unix.Errno values become
// NativeError, nil becomes Success. Anything else is reported as a native
// EIO with the original error preserved as the cause.
func FromError(err error) Outcome {
	if err == nil {
		return Success()
	}
	var oe *Error
	if errors.As(err, &oe) {
		return oe.Outcome
	}
	var errno unix.Errno
	if errors.As(err, &errno) {
		return Native(errno)
	}
	return Outcome{Kind: KindNativeError, Status: unix.EIO, Cause: err}
}
