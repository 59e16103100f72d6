package bridge

import (
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sys/unix"

	"github.com/xcbridge/posix-runtime/outcome"
	"github.com/xcbridge/posix-runtime/registry"
)

// Host is a group of related operations that registers itself on a bridge.
type Host interface {
	// Namespace returns the host's name for logging and inspection.
	Namespace() string

	// Attach registers the host's operations.
	Attach(b *Bridge) error
}

// Bridge is the process-wide runtime adapter: it owns the operation table,
// the handle registry, and the lookup policy. State that the original
// convention kept in bare globals (the directory-stream list, the forced
// not-found code) lives here instead, explicitly passed and lock-guarded.
type Bridge struct {
	mu       sync.RWMutex
	ops      map[string]*Op
	handles  *registry.Registry
	log      *zap.Logger
	notFound unix.Errno
	capacity int
}

// Option configures a Bridge.
type Option func(*Bridge)

// WithCapacity bounds the handle registry (default registry.DefaultCapacity).
func WithCapacity(n int) Option {
	return func(b *Bridge) { b.capacity = n }
}

// WithNotFoundCode sets the code forced on negative lookups that leave the
// native error indicator unset. The forcing behavior is fixed; the precise
// code is policy (default ENOENT).
func WithNotFoundCode(code unix.Errno) Option {
	return func(b *Bridge) { b.notFound = code }
}

// WithLogger sets the bridge logger. A no-op logger is used by default.
func WithLogger(l *zap.Logger) Option {
	return func(b *Bridge) { b.log = l }
}

// New creates an empty bridge. Hosts are attached afterwards with
// RegisterHost or individually with Register.
func New(opts ...Option) *Bridge {
	b := &Bridge{
		ops:      make(map[string]*Op),
		notFound: unix.ENOENT,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.log == nil {
		b.log = zap.NewNop()
	}
	b.handles = registry.New(b.capacity)
	return b
}

// Register adds one operation. Registration failures are programming
// errors surfaced at wiring time, never through the Outcome channel.
func (b *Bridge) Register(op Op) error {
	if op.Name == "" {
		return fmt.Errorf("bridge: operation name cannot be empty")
	}
	if op.Func == nil {
		return fmt.Errorf("bridge: operation %q has no handler", op.Name)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.ops[op.Name]; exists {
		return fmt.Errorf("bridge: operation %q already registered", op.Name)
	}
	b.ops[op.Name] = &op
	return nil
}

// RegisterHost attaches every operation of h.
func (b *Bridge) RegisterHost(h Host) error {
	if err := h.Attach(b); err != nil {
		return fmt.Errorf("bridge: attach %s: %w", h.Namespace(), err)
	}
	b.log.Debug("host attached", zap.String("namespace", h.Namespace()))
	return nil
}

// Call invokes an operation by name. The returned error is non-nil only
// for a name that was never registered (a binding error, analogous to a
// missing import). Everything the invocation itself can report travels in
// the Outcome: the argument count and every argument type are validated
// against the operation's declaration before any native work occurs.
func (b *Bridge) Call(name string, args ...any) (outcome.Outcome, error) {
	b.mu.RLock()
	op := b.ops[name]
	b.mu.RUnlock()
	if op == nil {
		return outcome.Outcome{}, fmt.Errorf("bridge: unknown operation %q", name)
	}

	if len(args) != op.Arity() {
		o := outcome.ArgumentCount(name, op.Arity(), len(args))
		b.log.Debug("call rejected", zap.String("op", name), zap.String("outcome", o.String()))
		return o, nil
	}
	for i, p := range op.Params {
		if got, ok := checkArg(p, args[i]); !ok {
			o := outcome.ArgumentType(name, i, p.Kind.String(), got)
			b.log.Debug("call rejected", zap.String("op", name), zap.String("outcome", o.String()))
			return o, nil
		}
	}

	o := op.Func(&Call{bridge: b, op: op, args: args})
	if !o.OK() {
		b.log.Debug("call failed",
			zap.String("op", name),
			zap.String("shape", op.Shape.String()),
			zap.String("outcome", o.String()))
	}
	return o, nil
}

// Lookup returns the declaration of a registered operation.
func (b *Bridge) Lookup(name string) (*Op, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	op, ok := b.ops[name]
	return op, ok
}

// Ops returns all registered operations sorted by name.
func (b *Bridge) Ops() []*Op {
	b.mu.RLock()
	defer b.mu.RUnlock()

	ops := make([]*Op, 0, len(b.ops))
	for _, op := range b.ops {
		ops = append(ops, op)
	}
	sort.Slice(ops, func(i, j int) bool { return ops[i].Name < ops[j].Name })
	return ops
}

// Handles returns the bridge-owned handle registry.
func (b *Bridge) Handles() *registry.Registry {
	return b.handles
}

// NotFoundCode returns the configured negative-lookup policy code.
func (b *Bridge) NotFoundCode() unix.Errno {
	return b.notFound
}

// Logger returns the bridge logger.
func (b *Bridge) Logger() *zap.Logger {
	return b.log
}

// Close releases the handle registry and every resource it still tracks.
func (b *Bridge) Close() error {
	return b.handles.Close()
}
