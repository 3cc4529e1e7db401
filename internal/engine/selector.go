package engine

import (
	"math/rand"
	"sync"
	"time"

	"github.com/IshaanNene/HeadlineGoat/internal/config"
	"github.com/IshaanNene/HeadlineGoat/internal/types"
)

// Selector makes the random choices of a scrape: which concrete category
// "random" means, and which candidate from the pool is returned.
type Selector struct {
	mu   sync.Mutex
	rng  *rand.Rand
	topN int
}

// NewSelector creates a selector drawing from the first topN candidates. A
// zero seed seeds from the clock.
func NewSelector(topN int, seed int64) *Selector {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return NewSelectorWithRand(topN, rand.New(rand.NewSource(seed)))
}

// NewSelectorWithRand creates a selector over an injected random source.
func NewSelectorWithRand(topN int, rng *rand.Rand) *Selector {
	if topN < 1 {
		topN = 1
	}
	return &Selector{rng: rng, topN: topN}
}

func (s *Selector) intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Intn(n)
}

// ResolveCategory maps random onto a uniformly chosen concrete category.
// Any other category is returned unchanged.
func (s *Selector) ResolveCategory(c config.Category) config.Category {
	if c != config.CategoryRandom {
		return c
	}
	return config.ConcreteCategories[s.intn(len(config.ConcreteCategories))]
}

// Select picks one candidate from a deduplicated pool. Image-bearing
// candidates are preferred; when none exist, metaImage (if any) is attached
// to the pick. Select returns nil for an empty pool. The returned candidate
// is a copy.
func (s *Selector) Select(pool []*types.Candidate, metaImage string) *types.Candidate {
	if len(pool) == 0 {
		return nil
	}

	withImage := make([]*types.Candidate, 0, len(pool))
	for _, c := range pool {
		if c.HasImage() {
			withImage = append(withImage, c)
		}
	}

	if len(withImage) > 0 {
		picked := *s.pick(withImage)
		return &picked
	}

	picked := *s.pick(pool)
	if metaImage != "" {
		picked.ImageURL = metaImage
	}
	return &picked
}

func (s *Selector) pick(cands []*types.Candidate) *types.Candidate {
	if len(cands) > s.topN {
		cands = cands[:s.topN]
	}
	return cands[s.intn(len(cands))]
}
