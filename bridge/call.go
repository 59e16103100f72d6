package bridge

import (
	"github.com/xcbridge/posix-runtime/registry"

	"golang.org/x/sys/unix"
)

// Call gives a handler type-checked access to one invocation's arguments.
// The dispatcher validates count and types against the operation's declared
// parameters before the handler runs, so the accessors cannot fail.
type Call struct {
	bridge *Bridge
	op     *Op
	args   []any
}

// Op returns the invoked operation's declaration.
func (c *Call) Op() *Op {
	return c.op
}

// String returns argument i, declared ParamString.
func (c *Call) String(i int) string {
	return c.args[i].(string)
}

// Int returns argument i, declared ParamInt.
func (c *Call) Int(i int) int64 {
	return c.args[i].(int64)
}

// Uint returns argument i, declared ParamUint.
func (c *Call) Uint(i int) uint64 {
	return c.args[i].(uint64)
}

// Handle returns argument i, declared ParamHandle.
func (c *Call) Handle(i int) registry.Handle {
	return c.args[i].(registry.Handle)
}

// OutInt returns out-parameter i, declared ParamOutInt.
func (c *Call) OutInt(i int) *int64 {
	return c.args[i].(*int64)
}

// OutUint returns out-parameter i, declared ParamOutUint.
func (c *Call) OutUint(i int) *uint64 {
	return c.args[i].(*uint64)
}

// Buffer returns out-parameter i, declared ParamOutBuf.
func (c *Call) Buffer(i int) *Buffer {
	return c.args[i].(*Buffer)
}

// Handles returns the bridge's handle registry.
func (c *Call) Handles() *registry.Registry {
	return c.bridge.Handles()
}

// NotFoundCode returns the policy code forced on negative lookups.
func (c *Call) NotFoundCode() unix.Errno {
	return c.bridge.NotFoundCode()
}

// checkArg reports whether args[i] matches the declared kind and, for
// buffers, carries at least the declared capacity.
func checkArg(p Param, arg any) (got string, ok bool) {
	switch p.Kind {
	case ParamString:
		_, ok = arg.(string)
	case ParamInt:
		_, ok = arg.(int64)
	case ParamUint:
		_, ok = arg.(uint64)
	case ParamHandle:
		_, ok = arg.(registry.Handle)
	case ParamOutInt:
		_, ok = arg.(*int64)
	case ParamOutUint:
		_, ok = arg.(*uint64)
	case ParamOutBuf:
		var b *Buffer
		if b, ok = arg.(*Buffer); ok && b.Cap() < p.Size {
			return "undersized buffer", false
		}
	}
	if !ok {
		return typeName(arg), false
	}
	return "", true
}

func typeName(arg any) string {
	switch arg.(type) {
	case string:
		return "string"
	case int64:
		return "int"
	case uint64:
		return "uint"
	case registry.Handle:
		return "handle"
	case *int64:
		return "*int"
	case *uint64:
		return "*uint"
	case *Buffer:
		return "*buffer"
	case nil:
		return "nil"
	}
	return "unsupported"
}
