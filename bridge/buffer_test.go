package bridge

import (
	"errors"
	"strings"
	"testing"

	"github.com/xcbridge/posix-runtime/outcome"
)

func TestBuffer_SetString(t *testing.T) {
	b := NewBuffer(8)
	if err := b.SetString("short"); err != nil {
		t.Fatalf("SetString failed: %v", err)
	}
	if b.String() != "short" {
		t.Fatalf("Expected %q, got %q", "short", b.String())
	}

	// Exactly capacity-1 characters fit.
	if err := b.SetString("sevench"); err != nil {
		t.Fatalf("SetString at capacity failed: %v", err)
	}
	if b.Len() != 7 {
		t.Fatalf("Expected 7 bytes, got %d", b.Len())
	}
}

func TestBuffer_SetStringOverflow(t *testing.T) {
	b := NewBuffer(8)
	err := b.SetString("too long for this")
	if err == nil {
		t.Fatal("Overflow should be reported")
	}
	if !errors.Is(err, outcome.BufferTooSmall(0, 0)) {
		t.Fatalf("Expected buffer_too_small, got %v", err)
	}
	if b.String() != "too lon" {
		t.Fatalf("Expected the capacity-1 prefix, got %q", b.String())
	}
}

func TestBuffer_AppendItem(t *testing.T) {
	b := NewBuffer(16)
	for _, m := range []string{"alice", "bob"} {
		if err := b.AppendItem(m); err != nil {
			t.Fatalf("AppendItem(%q) failed: %v", m, err)
		}
	}
	if b.String() != "alice|bob" {
		t.Fatalf("Expected %q, got %q", "alice|bob", b.String())
	}

	err := b.AppendItem("charlie")
	if !errors.Is(err, outcome.BufferTooSmall(0, 0)) {
		t.Fatalf("Expected buffer_too_small, got %v", err)
	}
	if b.String() != "alice|bob" {
		t.Fatalf("Failed append must not disturb the list, got %q", b.String())
	}
}

func TestBuffer_Reset(t *testing.T) {
	b := NewBuffer(16)
	if err := b.SetString("data"); err != nil {
		t.Fatalf("SetString failed: %v", err)
	}
	b.Reset()
	if b.Len() != 0 {
		t.Fatalf("Expected empty buffer, got %q", b.String())
	}
	if err := b.AppendItem("first"); err != nil {
		t.Fatalf("AppendItem failed: %v", err)
	}
	if strings.HasPrefix(b.String(), "|") {
		t.Fatal("First item after reset must not carry a delimiter")
	}
}

func TestBuffer_MinimumCapacity(t *testing.T) {
	b := NewBuffer(0)
	if b.Cap() != 1 {
		t.Fatalf("Expected minimum capacity 1, got %d", b.Cap())
	}
	if err := b.SetString("x"); err == nil {
		t.Fatal("Capacity 1 holds no characters")
	}
	if err := b.SetString(""); err != nil {
		t.Fatalf("Empty string should always fit: %v", err)
	}
}
