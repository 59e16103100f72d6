// Package posixruntime bridges an exception-oriented host language to the
// POSIX/libc calling convention of return codes plus a side-channel error
// code.
//
// The host caller invokes operations by name with a fixed argument count;
// each call yields exactly one classified Outcome whose errno-compatible
// status code the host turns back into an exception. Integer option
// constants never cross the boundary: operations taking flags accept
// stringified option names, optionally joined with "|".
//
// # Architecture
//
// The library is organized into small packages with one concern each:
//
//	posixruntime/       Root package wiring every host onto one bridge
//	├── bridge/         Operation dispatch, arity/type validation, buffers
//	├── outcome/        Uniform result taxonomy and response-shape policy
//	├── param/          Stringified option name -> value/bitmask resolution
//	├── registry/       Bounded opaque-handle table for native resources
//	└── posix/          The wrapped operations, grouped per concern
//	    ├── clocks/     time, clock_gettime, clock_getres
//	    ├── calendar/   localtime, gmtime, mktime, strftime
//	    ├── system/     uname, times, sysinfo, umask, setenv, unsetenv
//	    ├── syslogx/    openlog, syslog
//	    ├── fs/         stat family, links, directories, modes, ownership
//	    ├── ident/      user/group database lookups
//	    └── dirstream/  opendir, readdir, closedir over the registry
//
// # Quick Start
//
//	b, err := posixruntime.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer b.Close()
//
//	var sec, nsec int64
//	o, err := b.Call("clockgettime", "MONOTONIC", &sec, &nsec)
//	if err != nil {
//	    log.Fatal(err) // unknown operation: a binding error
//	}
//	if !o.OK() {
//	    log.Fatalf("errno %d: %s", int(o.Status), o)
//	}
//
// # Concurrency
//
// Calls are synchronous and run to completion; there is no cancellation.
// The bridge, its operation table, and the handle registry are safe for
// concurrent callers. Host structs holding connection state (syslog) are
// internally locked.
package posixruntime
