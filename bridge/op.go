package bridge

import (
	"strings"

	"github.com/xcbridge/posix-runtime/outcome"
	"github.com/xcbridge/posix-runtime/param"
)

// ParamKind declares the native type of one operation argument.
type ParamKind uint8

const (
	// Inputs.
	ParamString ParamKind = iota // string
	ParamInt                     // int64
	ParamUint                    // uint64
	ParamHandle                  // registry.Handle, passed back verbatim

	// Out-parameters.
	ParamOutInt  // *int64
	ParamOutUint // *uint64
	ParamOutBuf  // *Buffer, fixed capacity, never left unterminated
)

func (k ParamKind) String() string {
	switch k {
	case ParamString:
		return "string"
	case ParamInt:
		return "int"
	case ParamUint:
		return "uint"
	case ParamHandle:
		return "handle"
	case ParamOutInt:
		return "*int"
	case ParamOutUint:
		return "*uint"
	case ParamOutBuf:
		return "*buffer"
	}
	return "unknown"
}

// Param describes one declared argument of an operation.
type Param struct {
	// Table is non-nil when the argument is a stringified option (a single
	// name or a delimiter-joined flag expression drawn from this table).
	Table *param.Table
	Name  string
	Kind  ParamKind
	// Size is the capacity a ParamOutBuf argument must provide.
	Size int
}

// Hint describes what the argument accepts: the valid option names for a
// table-backed parameter, the kind otherwise.
func (p Param) Hint() string {
	if p.Table != nil {
		return strings.Join(p.Table.Names(), param.Delimiter)
	}
	return p.Kind.String()
}

// Handler implements one operation against a type-checked Call.
type Handler func(c *Call) outcome.Outcome

// Op declares a bridged operation: its name, its fixed parameter list
// (which determines the required argument count), the response shape its
// native call was classified under, and the handler.
type Op struct {
	Func   Handler
	Name   string
	Doc    string
	Params []Param
	Shape  outcome.Shape
}

// Arity returns the declared required argument count.
func (op *Op) Arity() int {
	return len(op.Params)
}

// In declares a string input.
func In(name string) Param { return Param{Name: name, Kind: ParamString} }

// Opt declares a stringified option input resolved against t.
func Opt(name string, t *param.Table) Param {
	return Param{Name: name, Kind: ParamString, Table: t}
}

// IntIn declares an integer input.
func IntIn(name string) Param { return Param{Name: name, Kind: ParamInt} }

// UintIn declares an unsigned integer input.
func UintIn(name string) Param { return Param{Name: name, Kind: ParamUint} }

// HandleIn declares an opaque handle input.
func HandleIn(name string) Param { return Param{Name: name, Kind: ParamHandle} }

// OutInt declares an integer out-parameter.
func OutInt(name string) Param { return Param{Name: name, Kind: ParamOutInt} }

// OutUint declares an unsigned integer out-parameter.
func OutUint(name string) Param { return Param{Name: name, Kind: ParamOutUint} }

// OutBuf declares a fixed-capacity string out-parameter.
func OutBuf(name string, size int) Param {
	return Param{Name: name, Kind: ParamOutBuf, Size: size}
}
