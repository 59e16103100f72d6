//go:build linux

package fs

import (
	"golang.org/x/sys/unix"

	"github.com/xcbridge/posix-runtime/bridge"
	"github.com/xcbridge/posix-runtime/outcome"
)

// ReadlinkBufSize is the destination capacity for link targets.
const ReadlinkBufSize = 1024

// Host bridges the filesystem metadata and namespace operations.
//
// File modes cross the boundary as plain numeric values already in the
// native permission-bit encoding; converting from octal notation is the
// caller's responsibility.
type Host struct{}

func NewHost() *Host {
	return &Host{}
}

func (h *Host) Namespace() string {
	return "posix/fs"
}

var statOuts = []bridge.Param{
	bridge.OutUint("st_dev"),
	bridge.OutUint("st_ino"),
	bridge.OutUint("st_mode"),
	bridge.OutUint("st_nlink"),
	bridge.OutUint("st_uid"),
	bridge.OutUint("st_gid"),
	bridge.OutUint("st_rdev"),
	bridge.OutUint("st_size"),
	bridge.OutUint("st_blksize"),
	bridge.OutUint("st_blocks"),
	bridge.OutUint("st_atime"),
	bridge.OutUint("st_mtime"),
	bridge.OutUint("st_ctime"),
}

func (h *Host) Attach(b *bridge.Bridge) error {
	pathOnly := func(name string) []bridge.Param {
		return []bridge.Param{bridge.In(name)}
	}
	pathMode := []bridge.Param{bridge.In("path"), bridge.UintIn("mode")}
	pathOwner := []bridge.Param{bridge.In("path"), bridge.UintIn("uid"), bridge.UintIn("gid")}
	twoPaths := []bridge.Param{bridge.In("oldpath"), bridge.In("newpath")}

	ops := []bridge.Op{
		{
			Name:   "stat",
			Doc:    "file metadata, following symlinks",
			Shape:  outcome.ShapeSentinel,
			Params: append(pathOnly("path"), statOuts...),
			Func:   func(c *bridge.Call) outcome.Outcome { return h.stat(c, unix.Stat) },
		},
		{
			Name:   "lstat",
			Doc:    "file metadata, not following symlinks",
			Shape:  outcome.ShapeSentinel,
			Params: append(pathOnly("path"), statOuts...),
			Func:   func(c *bridge.Call) outcome.Outcome { return h.stat(c, unix.Lstat) },
		},
		{
			Name:  "readlink",
			Doc:   "target of a symbolic link",
			Shape: outcome.ShapeIndicator,
			Params: []bridge.Param{
				bridge.In("path"),
				bridge.OutBuf("name", ReadlinkBufSize),
			},
			Func: h.readlink,
		},
		{
			Name:   "link",
			Doc:    "create a hard link",
			Shape:  outcome.ShapeSentinel,
			Params: twoPaths,
			Func: func(c *bridge.Call) outcome.Outcome {
				return outcome.Sentinel(unix.Link(c.String(0), c.String(1)))
			},
		},
		{
			Name:   "symlink",
			Doc:    "create a symbolic link",
			Shape:  outcome.ShapeSentinel,
			Params: twoPaths,
			Func: func(c *bridge.Call) outcome.Outcome {
				return outcome.Sentinel(unix.Symlink(c.String(0), c.String(1)))
			},
		},
		{
			Name:   "unlink",
			Doc:    "remove a directory entry",
			Shape:  outcome.ShapeSentinel,
			Params: pathOnly("path"),
			Func: func(c *bridge.Call) outcome.Outcome {
				return outcome.Sentinel(unix.Unlink(c.String(0)))
			},
		},
		{
			Name:   "mkdir",
			Doc:    "create a directory with a numeric mode",
			Shape:  outcome.ShapeSentinel,
			Params: pathMode,
			Func: func(c *bridge.Call) outcome.Outcome {
				return outcome.Sentinel(unix.Mkdir(c.String(0), uint32(c.Uint(1))))
			},
		},
		{
			Name:   "rmdir",
			Doc:    "remove an empty directory",
			Shape:  outcome.ShapeSentinel,
			Params: pathOnly("path"),
			Func: func(c *bridge.Call) outcome.Outcome {
				return outcome.Sentinel(unix.Rmdir(c.String(0)))
			},
		},
		{
			Name:   "chmod",
			Doc:    "change file permission bits",
			Shape:  outcome.ShapeSentinel,
			Params: pathMode,
			Func: func(c *bridge.Call) outcome.Outcome {
				return outcome.Sentinel(unix.Chmod(c.String(0), uint32(c.Uint(1))))
			},
		},
		{
			Name:   "chown",
			Doc:    "change file ownership, following symlinks",
			Shape:  outcome.ShapeSentinel,
			Params: pathOwner,
			Func: func(c *bridge.Call) outcome.Outcome {
				return outcome.Sentinel(unix.Chown(c.String(0), int(c.Uint(1)), int(c.Uint(2))))
			},
		},
		{
			Name:   "lchown",
			Doc:    "change file ownership, not following symlinks",
			Shape:  outcome.ShapeSentinel,
			Params: pathOwner,
			Func: func(c *bridge.Call) outcome.Outcome {
				return outcome.Sentinel(unix.Lchown(c.String(0), int(c.Uint(1)), int(c.Uint(2))))
			},
		},
	}
	for _, op := range ops {
		if err := b.Register(op); err != nil {
			return err
		}
	}
	return nil
}

func (h *Host) stat(c *bridge.Call, statFn func(string, *unix.Stat_t) error) outcome.Outcome {
	var st unix.Stat_t
	o := outcome.Sentinel(statFn(c.String(0), &st))
	if !o.OK() {
		return o
	}
	*c.OutUint(1) = st.Dev
	*c.OutUint(2) = st.Ino
	*c.OutUint(3) = uint64(st.Mode)
	*c.OutUint(4) = st.Nlink
	*c.OutUint(5) = uint64(st.Uid)
	*c.OutUint(6) = uint64(st.Gid)
	*c.OutUint(7) = st.Rdev
	*c.OutUint(8) = uint64(st.Size)
	*c.OutUint(9) = uint64(st.Blksize)
	*c.OutUint(10) = uint64(st.Blocks)
	*c.OutUint(11) = uint64(st.Atim.Sec)
	*c.OutUint(12) = uint64(st.Mtim.Sec)
	*c.OutUint(13) = uint64(st.Ctim.Sec)
	return o
}

func (h *Host) readlink(c *bridge.Call) outcome.Outcome {
	buf := make([]byte, ReadlinkBufSize)
	n, err := unix.Readlink(c.String(0), buf)
	if o := outcome.Indicator(err); !o.OK() {
		return o
	}
	if setErr := c.Buffer(1).SetString(string(buf[:n])); setErr != nil {
		return outcome.FromError(setErr)
	}
	return outcome.Success()
}
