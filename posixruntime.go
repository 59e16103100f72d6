//go:build linux

package posixruntime

import (
	"github.com/xcbridge/posix-runtime/bridge"
	"github.com/xcbridge/posix-runtime/posix/calendar"
	"github.com/xcbridge/posix-runtime/posix/clocks"
	"github.com/xcbridge/posix-runtime/posix/dirstream"
	"github.com/xcbridge/posix-runtime/posix/fs"
	"github.com/xcbridge/posix-runtime/posix/ident"
	"github.com/xcbridge/posix-runtime/posix/syslogx"
	"github.com/xcbridge/posix-runtime/posix/system"
)

// New builds a bridge with every standard host attached.
func New(opts ...bridge.Option) (*bridge.Bridge, error) {
	b := bridge.New(opts...)
	hosts := []bridge.Host{
		clocks.NewHost(),
		calendar.NewHost(),
		system.NewHost(),
		syslogx.NewHost(),
		fs.NewHost(),
		ident.NewHost(),
		dirstream.NewHost(),
	}
	for _, h := range hosts {
		if err := b.RegisterHost(h); err != nil {
			b.Close()
			return nil, err
		}
	}
	return b, nil
}
