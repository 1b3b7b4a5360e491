package game

import (
	"math/rand/v2"
	"sync"
)

// Drawer picks cards uniformly at random. A fixed seed makes draws
// reproducible.
type Drawer struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewDrawer seeds the generator with seed, or randomly when seed is 0.
func NewDrawer(seed uint64) *Drawer {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return &Drawer{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (d *Drawer) index(n int) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.rng.IntN(n)
}

func drawCard[T any](d *Drawer, cards []T) (T, bool) {
	var zero T
	if len(cards) == 0 {
		return zero, false
	}
	return cards[d.index(len(cards))], true
}
