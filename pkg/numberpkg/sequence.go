// Package numberpkg provides account number generators.
package numberpkg

import (
	"context"
	"strconv"
	"sync/atomic"
)

// DefaultStart is the value right before the first generated number.
const DefaultStart = 1_000_000

// Sequence generates increasing account numbers unique for the process lifetime.
type Sequence struct {
	last atomic.Int64
}

// NewSequence returns a Sequence whose first number is start+1.
func NewSequence(start int64) *Sequence {
	s := &Sequence{}
	s.last.Store(start)

	return s
}

// Generate returns the next account number.
func (s *Sequence) Generate(ctx context.Context) (string, error) {
	return strconv.FormatInt(s.last.Add(1), 10), nil
}
