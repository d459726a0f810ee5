// Package history keeps the bounded, most-recent-first list of completed
// translations for a session. Nothing here is persisted.
package history

import (
	"errors"
	"sync"
	"time"
)

// DefaultCapacity is the number of translations a session remembers
const DefaultCapacity = 5

// ErrIncompleteRecord is returned when a record is missing one of its four required fields
var ErrIncompleteRecord = errors.New("translation record requires source text, target text and both languages")

// Record is an immutable snapshot of one completed translation
type Record struct {
	SourceText     string    `json:"source_text"`
	TargetText     string    `json:"target_text"`
	SourceLanguage string    `json:"source_language"`
	TargetLanguage string    `json:"target_language"`
	CreatedAt      time.Time `json:"created_at"`
}

// Valid reports whether every required field is non-empty
func (r Record) Valid() bool {
	return r.SourceText != "" && r.TargetText != "" && r.SourceLanguage != "" && r.TargetLanguage != ""
}

// Cache is a fixed-capacity list ordered newest first
type Cache struct {
	mu       sync.RWMutex
	entries  []Record
	capacity int
}

// NewCache creates a cache holding at most capacity records
func NewCache(capacity int) *Cache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Cache{
		entries:  make([]Record, 0, capacity),
		capacity: capacity,
	}
}

// Add prepends r, evicting the oldest record when the cache is full
func (c *Cache) Add(r Record) error {
	if !r.Valid() {
		return ErrIncompleteRecord
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	keep := len(c.entries)
	if keep >= c.capacity {
		keep = c.capacity - 1
	}
	next := make([]Record, 0, c.capacity)
	next = append(next, r)
	next = append(next, c.entries[:keep]...)
	c.entries = next
	return nil
}

// Entries returns a copy of the records, most recent first
func (c *Cache) Entries() []Record {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Record, len(c.entries))
	copy(out, c.entries)
	return out
}

// Len returns the number of stored records
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Capacity returns the maximum number of records kept
func (c *Cache) Capacity() int {
	return c.capacity
}

// Clear drops every record
func (c *Cache) Clear() {
	c.mu.Lock()
	c.entries = make([]Record, 0, c.capacity)
	c.mu.Unlock()
}
