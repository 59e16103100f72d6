// Package param resolves human-readable option names to the integer
// constants the native calling convention expects.
//
// Instead of making the host caller dig integer values out of C headers,
// each operation exposes a fixed Table of stringified option names with the
// common prefix stripped ("REALTIME" for CLOCK_REALTIME, "PID" for LOG_PID).
// Multiple flags are passed as one string joined with "|":
//
//	mask, err := table.ResolveFlags("NDELAY|PID")
//
// Resolution failures are *outcome.Error values with the UnknownOption kind,
// so wrappers classify them uniformly.
package param
