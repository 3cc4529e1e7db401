package engine

import (
	"github.com/IshaanNene/HeadlineGoat/internal/types"
)

// Deduplicator collapses candidates that share a DedupKey.
type Deduplicator struct {
	seen map[string]struct{}
}

// NewDeduplicator creates a new Deduplicator with the given estimated capacity.
func NewDeduplicator(estimatedCapacity int) *Deduplicator {
	return &Deduplicator{
		seen: make(map[string]struct{}, estimatedCapacity),
	}
}

// Add records c and reports whether it is the first candidate with its key.
func (d *Deduplicator) Add(c *types.Candidate) bool {
	key := c.DedupKey()
	if _, ok := d.seen[key]; ok {
		return false
	}
	d.seen[key] = struct{}{}
	return true
}

// Dedup returns cands with later duplicates removed. Discovery order is
// preserved, so earlier selectors win collisions.
func Dedup(cands []*types.Candidate) []*types.Candidate {
	d := NewDeduplicator(len(cands))
	out := make([]*types.Candidate, 0, len(cands))
	for _, c := range cands {
		if d.Add(c) {
			out = append(out, c)
		}
	}
	return out
}
