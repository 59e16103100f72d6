// Package outcome normalizes POSIX's inconsistent return conventions into a
// single uniform result set.
//
// POSIX expresses failure in at least four incompatible ways: calls whose
// return value is meaningless and only errno counts, calls following the
// 0/-1 sentinel convention, lookups that return NULL and may or may not set
// errno, and calls with no error channel at all. Each bridged operation is
// statically assigned one of the four Shape values and classified through
// the matching function (Indicator, Sentinel, Lookup) or reported directly
// with Pass.
//
// The classified result is an Outcome, one of:
//
//	Success                  the operation completed
//	NativeError(code)        the OS reported a failure, code verbatim
//	ArgumentCountMismatch    wrong arity or argument type (binding error)
//	UnknownOption            option name absent from its table
//	BufferTooSmall           native result does not fit the destination
//	HandleInvalid            handle never issued, forged, or revoked
//	RegistryFull             handle capacity exhausted
//
// Every kind maps to an errno-compatible status code so the host caller,
// which raises exceptions from non-zero codes, sees one consistent channel.
// All failures are reported synchronously from the call that detected them;
// nothing is deferred, swallowed, or retried.
package outcome
