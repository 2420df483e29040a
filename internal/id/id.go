// Package id provides unique identifier generation utilities.
// This is the canonical source for ID generation across the codebase.
package id

import "sync/atomic"

// Sequence hands out strictly increasing int64 identifiers.
// The zero value is ready to use; the first ID is 1.
//
// A Sequence is never reset. Clearing a registry that draws from it must
// not rewind the counter, so IDs stay unique for the life of the process.
type Sequence struct {
	last atomic.Int64
}

// Next returns the next identifier.
func (s *Sequence) Next() int64 {
	return s.last.Add(1)
}

// Last returns the most recently issued identifier, or 0 if none.
func (s *Sequence) Last() int64 {
	return s.last.Load()
}
