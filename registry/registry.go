package registry

import (
	"errors"
	"sync"

	"github.com/xcbridge/posix-runtime/outcome"
)

// ErrClosed is returned by Register after the registry has been closed.
var ErrClosed = errors.New("registry closed")

// Handle is an opaque reference to a registered native resource. The host
// caller must pass it back verbatim, never interpret or manipulate it.
// Handle 0 is reserved and always invalid.
//
// A handle packs a slot index in its low 32 bits and that slot's generation
// in its high 32 bits. The generation increments every time a slot is
// revoked, so a stale handle kept across a revoke-then-reuse cycle can
// never be mistaken for the live one.
type Handle uint64

// DefaultCapacity bounds a registry unless overridden at construction.
const DefaultCapacity = 256

// Dropper is optionally implemented by registered values that need cleanup
// when the registry is closed.
type Dropper interface {
	Drop()
}

type entry struct {
	value any
	gen   uint32
	valid bool
}

// Registry is a bounded table of opaque handles for native resources.
// It owns handle validity exclusively; the underlying OS resources are
// merely referenced. All operations are guarded by a single mutex as a
// unit, so scan-then-mutate sequences cannot interleave: registration past
// capacity and use-after-revoke are impossible under concurrent callers.
type Registry struct {
	mu       sync.Mutex
	entries  []entry
	freeList []uint32
	count    int
	capacity int
	closed   bool
}

// New creates a registry holding at most capacity handles. A capacity
// below 1 means DefaultCapacity.
func New(capacity int) *Registry {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	return &Registry{
		entries:  make([]entry, 0, min(capacity, 64)),
		freeList: make([]uint32, 0, 16),
		capacity: capacity,
	}
}

// Register stores a value and issues its handle. At capacity it reports
// RegistryFull: a reportable condition for the caller, never a crash.
func (r *Registry) Register(value any) (Handle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return 0, ErrClosed
	}
	if r.count >= r.capacity {
		return 0, outcome.RegistryFull(r.capacity)
	}

	var slot uint32
	if n := len(r.freeList); n > 0 {
		slot = r.freeList[n-1]
		r.freeList = r.freeList[:n-1]
		r.entries[slot].value = value
		r.entries[slot].valid = true
	} else {
		slot = uint32(len(r.entries))
		r.entries = append(r.entries, entry{value: value, valid: true})
	}
	r.count++
	return pack(slot, r.entries[slot].gen), nil
}

// Get returns the value for a live handle.
func (r *Registry) Get(h Handle) (any, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e := r.lookup(h)
	if e == nil {
		return nil, false
	}
	return e.value, true
}

// IsRegistered reports whether h was issued by this registry and has not
// been revoked since. This is the sole defense against stale, forged, or
// already-revoked handles: every operation accepting a caller-supplied
// handle must consult it (or Get/Revoke, which apply the same check).
func (r *Registry) IsRegistered(h Handle) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lookup(h) != nil
}

// Revoke invalidates a handle and returns the value it referenced, so the
// caller can release the underlying resource. Revoking an unknown or
// already-revoked handle reports HandleInvalid.
func (r *Registry) Revoke(h Handle) (any, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e := r.lookup(h)
	if e == nil {
		return nil, outcome.HandleInvalid(uint64(h))
	}

	value := e.value
	e.value = nil
	e.valid = false
	e.gen++
	r.freeList = append(r.freeList, slotOf(h))
	r.count--
	return value, nil
}

// Len returns the number of live handles.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

// Cap returns the fixed capacity.
func (r *Registry) Cap() int {
	return r.capacity
}

// Close revokes everything, invoking Drop on values that implement
// Dropper, and rejects further registrations.
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true

	for i := range r.entries {
		if r.entries[i].valid {
			if d, ok := r.entries[i].value.(Dropper); ok {
				d.Drop()
			}
			r.entries[i].valid = false
			r.entries[i].value = nil
		}
	}
	r.entries = nil
	r.freeList = nil
	r.count = 0
	return nil
}

// lookup resolves a handle to its entry, or nil when the handle was never
// issued, was revoked, or carries a stale generation. Callers hold r.mu.
func (r *Registry) lookup(h Handle) *entry {
	if h == 0 {
		return nil
	}
	slot := slotOf(h)
	if int(slot) >= len(r.entries) {
		return nil
	}
	e := &r.entries[slot]
	if !e.valid || e.gen != genOf(h) {
		return nil
	}
	return e
}

func pack(slot, gen uint32) Handle {
	return Handle(uint64(gen)<<32 | uint64(slot+1))
}

func slotOf(h Handle) uint32 {
	return uint32(h) - 1
}

func genOf(h Handle) uint32 {
	return uint32(h >> 32)
}
