package report

import "sync"

// Gate serializes remote calls against report handles. One Gate is shared
// by every run in the process; runs interleave only while sleeping between
// polls, outside the gate.
type Gate struct {
	mu sync.Mutex
}

// NewGate returns an unlocked gate.
func NewGate() *Gate { return &Gate{} }

// Do runs fn while holding the gate.
func (g *Gate) Do(fn func() error) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return fn()
}
