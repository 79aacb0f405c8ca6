package service

import "sync"

// Generations tracks a monotonically increasing counter per principal. Each
// search bumps the counter before running; by the time a slow search
// finishes, a newer one may have started, and the older result is marked
// stale so clients can discard it instead of rendering it over fresher data.
type Generations struct {
	mu   sync.Mutex
	gens map[int64]uint64
}

func NewGenerations() *Generations {
	return &Generations{gens: make(map[int64]uint64)}
}

// Begin starts a new generation for the principal and returns its number.
func (g *Generations) Begin(principal int64) uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.gens[principal]++
	return g.gens[principal]
}

// IsCurrent reports whether gen is still the newest generation started for
// the principal.
func (g *Generations) IsCurrent(principal int64, gen uint64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.gens[principal] == gen
}
