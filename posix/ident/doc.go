// Package ident bridges the user and group database lookups: getpwnam,
// getpwuid, getgrnam, getgrgid, and getgrouplist.
package ident
