package dirstream

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"github.com/xcbridge/posix-runtime/bridge"
	"github.com/xcbridge/posix-runtime/outcome"
	"github.com/xcbridge/posix-runtime/registry"
)

func newBridge(t *testing.T, opts ...bridge.Option) *bridge.Bridge {
	t.Helper()
	b := bridge.New(opts...)
	require.NoError(t, b.RegisterHost(NewHost()))
	return b
}

func opendir(t *testing.T, b *bridge.Bridge, path string) registry.Handle {
	t.Helper()
	var h uint64
	o, err := b.Call("opendir", path, &h)
	require.NoError(t, err)
	require.True(t, o.OK(), o.String())
	return registry.Handle(h)
}

func TestWalkDirectory(t *testing.T) {
	dir := t.TempDir()
	want := []string{"alpha", "beta", "gamma"}
	for _, name := range want {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}

	b := newBridge(t)
	h := opendir(t, b, dir)

	var got []string
	for {
		buf := bridge.NewBuffer(NameBufSize)
		o, err := b.Call("readdir", h, buf)
		require.NoError(t, err)
		require.True(t, o.OK(), o.String())
		if buf.Len() == 0 {
			break
		}
		got = append(got, buf.String())
	}
	sort.Strings(got)
	assert.Equal(t, want, got)

	o, err := b.Call("closedir", h)
	require.NoError(t, err)
	assert.True(t, o.OK(), o.String())
	assert.Zero(t, b.Handles().Len())
}

func TestReaddir_ExhaustedStreamStaysEmpty(t *testing.T) {
	b := newBridge(t)
	h := opendir(t, b, t.TempDir())

	for i := 0; i < 3; i++ {
		buf := bridge.NewBuffer(NameBufSize)
		o, err := b.Call("readdir", h, buf)
		require.NoError(t, err)
		require.True(t, o.OK(), o.String())
		assert.Zero(t, buf.Len())
	}
}

func TestOpendir_Missing(t *testing.T) {
	b := newBridge(t)
	var h uint64
	o, err := b.Call("opendir", filepath.Join(t.TempDir(), "absent"), &h)
	require.NoError(t, err)
	assert.Equal(t, outcome.KindNativeError, o.Kind)
	assert.Equal(t, unix.ENOENT, o.Status)
}

func TestOpendir_NotADirectory(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	b := newBridge(t)
	var h uint64
	o, err := b.Call("opendir", path, &h)
	require.NoError(t, err)
	assert.Equal(t, unix.ENOTDIR, o.Status)
	assert.Zero(t, b.Handles().Len(), "nothing registered on failure")
}

func TestReaddir_BogusHandle(t *testing.T) {
	b := newBridge(t)
	buf := bridge.NewBuffer(NameBufSize)
	o, err := b.Call("readdir", registry.Handle(42), buf)
	require.NoError(t, err)
	assert.Equal(t, outcome.KindHandleInvalid, o.Kind)
	assert.Equal(t, unix.EINVAL, o.Status)
}

func TestReaddir_AfterClose(t *testing.T) {
	b := newBridge(t)
	h := opendir(t, b, t.TempDir())

	o, err := b.Call("closedir", h)
	require.NoError(t, err)
	require.True(t, o.OK(), o.String())

	buf := bridge.NewBuffer(NameBufSize)
	o, err = b.Call("readdir", h, buf)
	require.NoError(t, err)
	assert.Equal(t, outcome.KindHandleInvalid, o.Kind)

	o, err = b.Call("closedir", h)
	require.NoError(t, err)
	assert.Equal(t, outcome.KindHandleInvalid, o.Kind, "revocation is permanent")
}

func TestOpendir_RegistryFull(t *testing.T) {
	b := newBridge(t, bridge.WithCapacity(2))
	dir := t.TempDir()
	h1 := opendir(t, b, dir)
	opendir(t, b, dir)

	var h uint64
	o, err := b.Call("opendir", dir, &h)
	require.NoError(t, err)
	assert.Equal(t, outcome.KindRegistryFull, o.Kind)
	assert.Equal(t, unix.EMFILE, o.Status)

	// Closing one stream frees a slot.
	o, err = b.Call("closedir", h1)
	require.NoError(t, err)
	require.True(t, o.OK(), o.String())
	opendir(t, b, dir)
}
