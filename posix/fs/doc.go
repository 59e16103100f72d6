// Package fs bridges filesystem metadata and namespace operations: stat,
// lstat, readlink, link, symlink, unlink, mkdir, rmdir, chmod, chown, and
// lchown.
package fs
