package service

import "sync"

// Gate is a single-flight guard over the point-of-sale pipeline.
// Position updates can arrive faster than a provider round-trip
// completes; overlapping pipelines would race on the ledger dedup
// check, so concurrent callers no-op rather than queue.
type Gate struct {
	mu   sync.Mutex
	busy bool
}

func NewGate() *Gate {
	return &Gate{}
}

// TryEnter claims the gate. It returns false if a pipeline is already
// in flight; the caller must then drop the update entirely.
func (g *Gate) TryEnter() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.busy {
		return false
	}
	g.busy = true
	return true
}

// Exit releases the gate. Callers defer it immediately after a
// successful TryEnter so every exit path releases.
func (g *Gate) Exit() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.busy = false
}
