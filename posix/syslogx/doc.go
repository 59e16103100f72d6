// Package syslogx bridges openlog and syslog, resolving stringified
// option, facility, and priority names against their native tables.
package syslogx
