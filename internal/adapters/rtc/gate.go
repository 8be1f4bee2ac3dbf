package rtc

import (
	"sync"

	"github.com/dkeye/mirror/internal/domain"
)

// candidateGate holds local candidates until gathering is requested, then
// hands them to the listener in discovery order.
type candidateGate struct {
	mu      sync.Mutex
	open    bool
	fn      func(domain.IceCandidate)
	pending []domain.IceCandidate
}

func (g *candidateGate) listen(fn func(domain.IceCandidate)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.fn = fn
	g.flushLocked()
}

func (g *candidateGate) push(c domain.IceCandidate) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.pending = append(g.pending, c)
	g.flushLocked()
}

func (g *candidateGate) release() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.open = true
	g.flushLocked()
}

func (g *candidateGate) flushLocked() {
	if !g.open || g.fn == nil {
		return
	}
	for _, c := range g.pending {
		g.fn(c)
	}
	g.pending = nil
}
