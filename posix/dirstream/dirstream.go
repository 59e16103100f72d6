package dirstream

import (
	"io"
	"os"

	"golang.org/x/sys/unix"

	"github.com/xcbridge/posix-runtime/bridge"
	"github.com/xcbridge/posix-runtime/outcome"
)

// NameBufSize is the destination capacity for one directory entry name.
const NameBufSize = 256

// Host bridges directory streams. An open stream lives in the bridge's
// handle registry; the caller sees only the opaque handle and must present
// it to readdir and closedir, which reject anything the registry does not
// vouch for.
type Host struct{}

func NewHost() *Host {
	return &Host{}
}

func (h *Host) Namespace() string {
	return "posix/dirstream"
}

// stream is one registered directory stream.
type stream struct {
	f *os.File
}

// Drop releases the stream when the registry is torn down with handles
// still live.
func (s *stream) Drop() {
	s.f.Close()
}

func (h *Host) Attach(b *bridge.Bridge) error {
	ops := []bridge.Op{
		{
			Name:  "opendir",
			Doc:   "open a directory stream, returning its handle",
			Shape: outcome.ShapeLookup,
			Params: []bridge.Param{
				bridge.In("path"),
				bridge.OutUint("dir"),
			},
			Func: h.opendir,
		},
		{
			Name:  "readdir",
			Doc:   "next entry name from a directory stream, empty at the end",
			Shape: outcome.ShapeLookup,
			Params: []bridge.Param{
				bridge.HandleIn("dir"),
				bridge.OutBuf("name", NameBufSize),
			},
			Func: h.readdir,
		},
		{
			Name:   "closedir",
			Doc:    "close a directory stream and revoke its handle",
			Shape:  outcome.ShapeSentinel,
			Params: []bridge.Param{bridge.HandleIn("dir")},
			Func:   h.closedir,
		},
	}
	for _, op := range ops {
		if err := b.Register(op); err != nil {
			return err
		}
	}
	return nil
}

func (h *Host) opendir(c *bridge.Call) outcome.Outcome {
	reg := c.Handles()

	// Capacity is checked before touching the filesystem, so exhaustion
	// never leaks a freshly opened stream.
	if reg.Len() >= reg.Cap() {
		return outcome.RegistryFull(reg.Cap()).Outcome
	}

	f, err := os.Open(c.String(0))
	if o := outcome.Indicator(err); !o.OK() {
		return o
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return outcome.Indicator(err)
	}
	if !info.IsDir() {
		f.Close()
		return outcome.Native(unix.ENOTDIR)
	}

	handle, err := reg.Register(&stream{f: f})
	if err != nil {
		f.Close()
		return outcome.FromError(err)
	}
	*c.OutUint(1) = uint64(handle)
	return outcome.Success()
}

func (h *Host) readdir(c *bridge.Call) outcome.Outcome {
	buf := c.Buffer(1)
	buf.Reset()

	v, ok := c.Handles().Get(c.Handle(0))
	if !ok {
		return outcome.HandleInvalid(uint64(c.Handle(0))).Outcome
	}
	s := v.(*stream)

	names, err := s.f.Readdirnames(1)
	if err == io.EOF || (err == nil && len(names) == 0) {
		// End of stream: empty name, Success (the original reported
		// errno 0 with an untouched buffer).
		return outcome.Success()
	}
	if o := outcome.Indicator(err); !o.OK() {
		return o
	}
	if setErr := buf.SetString(names[0]); setErr != nil {
		return outcome.FromError(setErr)
	}
	return outcome.Success()
}

func (h *Host) closedir(c *bridge.Call) outcome.Outcome {
	v, err := c.Handles().Revoke(c.Handle(0))
	if err != nil {
		return outcome.FromError(err)
	}
	return outcome.Sentinel(v.(*stream).f.Close())
}
