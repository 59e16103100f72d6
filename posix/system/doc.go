// Package system bridges uname, times, sysinfo, umask, and the
// environment operations. Linux only: sysinfo(2) and times(2) have no
// portable equivalent.
package system
