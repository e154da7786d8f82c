// Package memory keeps a bounded, in-process history of prompt/response
// exchanges. Entries are not persisted.
package memory

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultSize is the number of exchanges kept when no size is configured.
const DefaultSize = 50

// Entry is one remembered exchange.
type Entry struct {
	ID        string
	Prompt    string
	Response  string
	Timestamp time.Time
}

// Buffer is a FIFO of at most size entries; the oldest entry is dropped when
// a new one would exceed the bound. Safe for concurrent use.
type Buffer struct {
	mu      sync.Mutex
	size    int
	entries []Entry
	now     func() time.Time
}

// New returns an empty Buffer holding at most size entries.
func New(size int) *Buffer {
	if size <= 0 {
		size = DefaultSize
	}
	return &Buffer{size: size, now: time.Now}
}

// Add appends an exchange and returns the stored entry.
func (b *Buffer) Add(prompt, response string) Entry {
	e := Entry{ID: uuid.NewString(), Prompt: prompt, Response: response, Timestamp: b.now()}
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.entries) >= b.size {
		n := copy(b.entries, b.entries[len(b.entries)-b.size+1:])
		b.entries = b.entries[:n]
	}
	b.entries = append(b.entries, e)
	return e
}

// Entries returns a copy of the buffer, oldest first.
func (b *Buffer) Entries() []Entry {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Entry, len(b.entries))
	copy(out, b.entries)
	return out
}

// Clear drops every entry and reports how many were removed.
func (b *Buffer) Clear() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := len(b.entries)
	b.entries = nil
	return n
}

// Len returns the number of stored entries.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.entries)
}

// Cap returns the maximum number of entries.
func (b *Buffer) Cap() int { return b.size }
