package scraper

import (
	"context"
	"sync"
)

// Gate suspends workers at their navigation checkpoints without
// releasing their browser sessions. Stop is a separate concern handled
// by context cancellation.
type Gate struct {
	mu     sync.Mutex
	open   chan struct{}
	paused bool
}

// NewGate returns an open gate.
func NewGate() *Gate {
	open := make(chan struct{})
	close(open)
	return &Gate{open: open}
}

// Pause closes the gate; workers block at their next Wait call.
func (g *Gate) Pause() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.paused {
		return
	}
	g.paused = true
	g.open = make(chan struct{})
}

// Resume reopens the gate and releases blocked workers.
func (g *Gate) Resume() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.paused {
		return
	}
	g.paused = false
	close(g.open)
}

// Paused reports whether the gate is currently closed.
func (g *Gate) Paused() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.paused
}

// Wait blocks while the gate is paused. Cancellation wins over pause so
// a paused run can still shut down promptly.
func (g *Gate) Wait(ctx context.Context) error {
	g.mu.Lock()
	open := g.open
	g.mu.Unlock()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-open:
		return nil
	}
}
