package testutil

import (
	"fmt"
	"sync"
)

// SequenceIDGenerator returns predictable game ids for tests.
//
// The ids passed to NewSequenceIDGenerator are returned first, in order.
// After that it falls back to "game-<n>", counting from 1.
//
// Thread-safety: SequenceIDGenerator is safe for concurrent use via internal mutex.
type SequenceIDGenerator struct {
	mu   sync.Mutex
	ids  []string
	next int
}

// NewSequenceIDGenerator creates a generator that hands out ids in order.
func NewSequenceIDGenerator(ids ...string) *SequenceIDGenerator {
	return &SequenceIDGenerator{ids: ids}
}

// Generate returns the next id.
//
// Implements session.IDGenerator.
func (g *SequenceIDGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.next++
	if g.next <= len(g.ids) {
		return g.ids[g.next-1]
	}
	return fmt.Sprintf("game-%d", g.next-len(g.ids))
}
