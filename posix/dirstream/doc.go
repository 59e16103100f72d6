// Package dirstream bridges opendir, readdir, and closedir over the
// bounded handle registry.
package dirstream
