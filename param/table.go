package param

import (
	"fmt"
	"strings"

	"github.com/xcbridge/posix-runtime/outcome"
)

// Delimiter joins option names in a flag expression. It is reserved: no
// option name may contain it.
const Delimiter = "|"

// Entry is one (name, value) pair of a parameter table.
type Entry struct {
	Name  string
	Value int
}

// Table is an ordered sequence of named integer parameters, fixed per
// operation. Names are unique under case-insensitive comparison; lookup is
// linear and the first match wins, which is fine for tables of at most a
// couple dozen entries.
type Table struct {
	entries []Entry
}

// New builds a table, rejecting duplicate names (case-insensitive) and
// names containing the delimiter.
func New(entries ...Entry) (*Table, error) {
	for i, e := range entries {
		if e.Name == "" {
			return nil, fmt.Errorf("param: entry %d has an empty name", i)
		}
		if strings.Contains(e.Name, Delimiter) {
			return nil, fmt.Errorf("param: name %q contains the delimiter %q", e.Name, Delimiter)
		}
		for _, prev := range entries[:i] {
			if strings.EqualFold(prev.Name, e.Name) {
				return nil, fmt.Errorf("param: duplicate name %q", e.Name)
			}
		}
	}
	return &Table{entries: entries}, nil
}

// MustNew is New, panicking on error. For package-level operation tables.
func MustNew(entries ...Entry) *Table {
	t, err := New(entries...)
	if err != nil {
		panic(err)
	}
	return t
}

// Resolve maps a single option name to its value. Matching is
// case-insensitive and exact; no prefix or fuzzy matching.
func (t *Table) Resolve(name string) (int, error) {
	for _, e := range t.entries {
		if strings.EqualFold(e.Name, name) {
			return e.Value, nil
		}
	}
	return 0, outcome.UnknownOption(name)
}

// ResolveFlags resolves a delimiter-joined flag expression to the bitwise
// OR of the named values. The empty expression is a valid zero mask. An
// empty token (leading, trailing, or doubled delimiter) or an unresolvable
// token fails the whole expression; no partial mask is returned. When
// several tokens are invalid, the first one in left-to-right order is
// blamed. The expression is scanned without mutation.
func (t *Table) ResolveFlags(expr string) (int, error) {
	if expr == "" {
		return 0, nil
	}
	flags := 0
	for _, token := range strings.Split(expr, Delimiter) {
		if token == "" {
			return 0, outcome.UnknownOption(token)
		}
		v, err := t.Resolve(token)
		if err != nil {
			return 0, err
		}
		flags |= v
	}
	return flags, nil
}

// Len returns the number of entries.
func (t *Table) Len() int {
	return len(t.entries)
}

// Entries returns a copy of the table contents, in declaration order.
func (t *Table) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Names returns the option names in declaration order.
func (t *Table) Names() []string {
	names := make([]string, len(t.entries))
	for i, e := range t.entries {
		names[i] = e.Name
	}
	return names
}
