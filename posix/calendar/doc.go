// Package calendar bridges the broken-down time operations: localtime,
// gmtime, mktime, and strftime.
//
// Field conventions follow struct tm verbatim (tm_year since 1900, tm_mon
// 0-11) so host code written against the native convention ports directly.
package calendar
