// Package memstore keeps entity collections in memory with copy-on-write
// semantics. Every write builds a fresh slice and swaps it in, so a reader
// holding a snapshot never observes a partial update.
package memstore

import (
	"errors"
	"slices"
	"sync"
	"sync/atomic"
)

// ErrVersionConflict is returned by UpdateIf when the collection changed
// since the caller read it.
var ErrVersionConflict = errors.New("collection version conflict")

type snapshot[T any] struct {
	items   []T
	version int
}

// Collection is an ordered, versioned collection of T.
type Collection[T any] struct {
	mu   sync.Mutex // serialises writers
	snap atomic.Pointer[snapshot[T]]
}

// New returns a collection seeded with a copy of items at version 0.
func New[T any](items []T) *Collection[T] {
	c := &Collection[T]{}
	c.snap.Store(&snapshot[T]{items: slices.Clone(items)})
	return c
}

// Snapshot returns a copy of the current items and the version they belong to.
func (c *Collection[T]) Snapshot() ([]T, int) {
	s := c.snap.Load()
	return slices.Clone(s.items), s.version
}

// Len returns the number of items in the current snapshot.
func (c *Collection[T]) Len() int {
	return len(c.snap.Load().items)
}

// Version returns the current version.
func (c *Collection[T]) Version() int {
	return c.snap.Load().version
}

// Find returns the first item matching pred.
func (c *Collection[T]) Find(pred func(T) bool) (T, bool) {
	for _, it := range c.snap.Load().items {
		if pred(it) {
			return it, true
		}
	}
	var zero T
	return zero, false
}

// Update hands fn a private copy of the items. If fn returns an error the
// collection is left untouched; otherwise the returned slice becomes the new
// snapshot.
func (c *Collection[T]) Update(fn func(items []T) ([]T, error)) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.apply(c.snap.Load(), fn)
}

// UpdateIf behaves like Update but only when the collection is still at
// version expected.
func (c *Collection[T]) UpdateIf(expected int, fn func(items []T) ([]T, error)) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	cur := c.snap.Load()
	if cur.version != expected {
		return ErrVersionConflict
	}
	return c.apply(cur, fn)
}

func (c *Collection[T]) apply(cur *snapshot[T], fn func([]T) ([]T, error)) error {
	next, err := fn(slices.Clone(cur.items))
	if err != nil {
		return err
	}
	c.snap.Store(&snapshot[T]{items: next, version: cur.version + 1})
	return nil
}
