package bridge

import (
	"github.com/xcbridge/posix-runtime/outcome"
	"github.com/xcbridge/posix-runtime/param"
)

// Buffer is a fixed-capacity character out-parameter. Capacity is counted
// the way the native convention counts it: one byte is always reserved for
// the terminator, so a Buffer of capacity n holds at most n-1 characters.
//
// A write that does not fit stores the longest prefix that does and reports
// BufferTooSmall; the buffer is never left overflowed or unterminated, and
// silent truncation is never reported as success.
type Buffer struct {
	data []byte
	cap  int
}

// NewBuffer creates a buffer of the given capacity (minimum 1).
func NewBuffer(capacity int) *Buffer {
	if capacity < 1 {
		capacity = 1
	}
	return &Buffer{data: make([]byte, 0, capacity), cap: capacity}
}

// SetString replaces the contents with s. If s does not fit, the stored
// prefix is capacity-1 bytes and the error is BufferTooSmall.
func (b *Buffer) SetString(s string) error {
	b.data = b.data[:0]
	if len(s) > b.cap-1 {
		b.data = append(b.data, s[:b.cap-1]...)
		return outcome.BufferTooSmall(len(s)+1, b.cap)
	}
	b.data = append(b.data, s...)
	return nil
}

// AppendItem appends s to a delimiter-joined list, writing the delimiter
// first unless the buffer is empty. On overflow the contents remain a
// well-formed prefix and the error is BufferTooSmall.
func (b *Buffer) AppendItem(s string) error {
	need := len(s)
	if len(b.data) > 0 {
		need += len(param.Delimiter)
	}
	if len(b.data)+need > b.cap-1 {
		return outcome.BufferTooSmall(len(b.data)+need+1, b.cap)
	}
	if len(b.data) > 0 {
		b.data = append(b.data, param.Delimiter...)
	}
	b.data = append(b.data, s...)
	return nil
}

// Reset empties the buffer.
func (b *Buffer) Reset() {
	b.data = b.data[:0]
}

// String returns the current contents.
func (b *Buffer) String() string {
	return string(b.data)
}

// Len returns the current content length in bytes.
func (b *Buffer) Len() int {
	return len(b.data)
}

// Cap returns the fixed capacity, terminator included.
func (b *Buffer) Cap() int {
	return b.cap
}
