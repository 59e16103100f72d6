// Package clocks bridges time(2), clock_gettime(3), and clock_getres(3).
package clocks
