package urlsync

import (
	"strings"
	"sync"
)

// MemoryLocation is an in-process Location that records its history.
type MemoryLocation struct {
	mu       sync.Mutex
	query    string
	history  []string
	replaces int
}

// NewMemoryLocation starts at rawQuery.
func NewMemoryLocation(rawQuery string) *MemoryLocation {
	q := strings.TrimPrefix(rawQuery, "?")
	return &MemoryLocation{query: q, history: []string{q}}
}

func (l *MemoryLocation) Query() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.query
}

// Replace swaps the current entry in place.
func (l *MemoryLocation) Replace(rawQuery string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.query = strings.TrimPrefix(rawQuery, "?")
	l.history[len(l.history)-1] = l.query
	l.replaces++
}

// Push adds a history entry, as user navigation does.
func (l *MemoryLocation) Push(rawQuery string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.query = strings.TrimPrefix(rawQuery, "?")
	l.history = append(l.history, l.query)
}

// Back moves to the previous history entry and reports whether one existed.
func (l *MemoryLocation) Back() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.history) < 2 {
		return false
	}
	l.history = l.history[:len(l.history)-1]
	l.query = l.history[len(l.history)-1]
	return true
}

// Len returns the number of history entries.
func (l *MemoryLocation) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.history)
}

// Replaces counts calls to Replace.
func (l *MemoryLocation) Replaces() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.replaces
}

// URL joins base and the current query.
func (l *MemoryLocation) URL(base string) string {
	q := l.Query()
	if q == "" {
		return base
	}
	return base + "?" + q
}
