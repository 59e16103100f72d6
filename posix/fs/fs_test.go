//go:build linux

package fs

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"github.com/xcbridge/posix-runtime/bridge"
	"github.com/xcbridge/posix-runtime/outcome"
)

func newBridge(t *testing.T) *bridge.Bridge {
	t.Helper()
	b := bridge.New()
	require.NoError(t, b.RegisterHost(NewHost()))
	return b
}

func callStat(t *testing.T, b *bridge.Bridge, op, path string) (outcome.Outcome, []uint64) {
	t.Helper()
	vals := make([]uint64, 13)
	args := make([]any, 0, 14)
	args = append(args, path)
	for i := range vals {
		args = append(args, &vals[i])
	}
	o, err := b.Call(op, args...)
	require.NoError(t, err)
	return o, vals
}

func TestStat(t *testing.T) {
	b := newBridge(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(path, []byte("twelve bytes"), 0o644))

	o, vals := callStat(t, b, "stat", path)
	require.True(t, o.OK(), o.String())
	assert.Equal(t, uint64(unix.S_IFREG), vals[2]&unix.S_IFMT, "st_mode file type")
	assert.Equal(t, uint64(0o644), vals[2]&0o777, "st_mode permissions")
	assert.Equal(t, uint64(12), vals[7], "st_size")
	assert.Positive(t, vals[11], "st_mtime")
}

func TestStat_Missing(t *testing.T) {
	b := newBridge(t)
	o, _ := callStat(t, b, "stat", filepath.Join(t.TempDir(), "absent"))
	assert.Equal(t, outcome.KindNativeError, o.Kind)
	assert.Equal(t, unix.ENOENT, o.Status)
}

func TestLstatFollowsNothing(t *testing.T) {
	b := newBridge(t)
	dir := t.TempDir()
	target := filepath.Join(dir, "target")
	link := filepath.Join(dir, "link")
	require.NoError(t, os.WriteFile(target, nil, 0o644))
	require.NoError(t, os.Symlink(target, link))

	o, vals := callStat(t, b, "lstat", link)
	require.True(t, o.OK(), o.String())
	assert.Equal(t, uint64(unix.S_IFLNK), vals[2]&unix.S_IFMT)

	o, vals = callStat(t, b, "stat", link)
	require.True(t, o.OK(), o.String())
	assert.Equal(t, uint64(unix.S_IFREG), vals[2]&unix.S_IFMT)
}

func TestSymlinkReadlink(t *testing.T) {
	b := newBridge(t)
	dir := t.TempDir()
	link := filepath.Join(dir, "link")

	o, err := b.Call("symlink", "/etc/hostname", link)
	require.NoError(t, err)
	require.True(t, o.OK(), o.String())

	buf := bridge.NewBuffer(ReadlinkBufSize)
	o, err = b.Call("readlink", link, buf)
	require.NoError(t, err)
	require.True(t, o.OK(), o.String())
	assert.Equal(t, "/etc/hostname", buf.String())
}

func TestReadlink_Overflow(t *testing.T) {
	b := newBridge(t)
	link := filepath.Join(t.TempDir(), "link")
	target := "/" + strings.Repeat("x", 2000)
	require.NoError(t, os.Symlink(target, link))

	buf := bridge.NewBuffer(ReadlinkBufSize)
	o, err := b.Call("readlink", link, buf)
	require.NoError(t, err)

	assert.Equal(t, outcome.KindBufferTooSmall, o.Kind)
	assert.Equal(t, unix.ERANGE, o.Status)
	assert.Equal(t, target[:ReadlinkBufSize-1], buf.String(), "the stored prefix fills the buffer")
}

func TestReadlink_NotALink(t *testing.T) {
	b := newBridge(t)
	o, err := b.Call("readlink", t.TempDir(), bridge.NewBuffer(ReadlinkBufSize))
	require.NoError(t, err)
	assert.Equal(t, outcome.KindNativeError, o.Kind)
	assert.Equal(t, unix.EINVAL, o.Status)
}

func TestLink(t *testing.T) {
	b := newBridge(t)
	dir := t.TempDir()
	orig := filepath.Join(dir, "orig")
	hard := filepath.Join(dir, "hard")
	require.NoError(t, os.WriteFile(orig, []byte("x"), 0o644))

	o, err := b.Call("link", orig, hard)
	require.NoError(t, err)
	require.True(t, o.OK(), o.String())

	_, vals := callStat(t, b, "stat", hard)
	assert.Equal(t, uint64(2), vals[3], "st_nlink")
}

func TestMkdirRmdir(t *testing.T) {
	b := newBridge(t)
	path := filepath.Join(t.TempDir(), "sub")

	o, err := b.Call("mkdir", path, uint64(0o750))
	require.NoError(t, err)
	require.True(t, o.OK(), o.String())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	o, err = b.Call("rmdir", path)
	require.NoError(t, err)
	require.True(t, o.OK(), o.String())
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestUnlink(t *testing.T) {
	b := newBridge(t)
	path := filepath.Join(t.TempDir(), "gone")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	o, err := b.Call("unlink", path)
	require.NoError(t, err)
	require.True(t, o.OK(), o.String())

	o, err = b.Call("unlink", path)
	require.NoError(t, err)
	assert.Equal(t, unix.ENOENT, o.Status, "second unlink reports the native code")
}

func TestChmod(t *testing.T) {
	b := newBridge(t)
	path := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	o, err := b.Call("chmod", path, uint64(0o600))
	require.NoError(t, err)
	require.True(t, o.OK(), o.String())

	_, vals := callStat(t, b, "stat", path)
	assert.Equal(t, uint64(0o600), vals[2]&0o777)
}

func TestChown_SelfIsNoop(t *testing.T) {
	b := newBridge(t)
	path := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(path, nil, 0o644))
	uid, gid := uint64(os.Getuid()), uint64(os.Getgid())

	for _, op := range []string{"chown", "lchown"} {
		o, err := b.Call(op, path, uid, gid)
		require.NoError(t, err)
		assert.True(t, o.OK(), "%s: %s", op, o)
	}
}
