package core

import (
	"context"
	"sync"

	"github.com/omerlefaruk/CasareRPA-sub001/internal/domain"
)

// gate is the single-slot suspension primitive behind pause/resume. It is
// either open (waiters pass straight through) or closed (waiters block until
// it reopens, the run is stopped, or the context ends).
type gate struct {
	mu sync.Mutex
	ch chan struct{} // closed channel means the gate is open
}

func newGate() *gate {
	ch := make(chan struct{})
	close(ch)
	return &gate{ch: ch}
}

func (g *gate) pause() {
	g.mu.Lock()
	defer g.mu.Unlock()
	select {
	case <-g.ch:
		g.ch = make(chan struct{})
	default:
		// already closed
	}
}

func (g *gate) resume() {
	g.mu.Lock()
	defer g.mu.Unlock()
	select {
	case <-g.ch:
		// already open
	default:
		close(g.ch)
	}
}

// wait blocks while the gate is closed. A stop signal wins over remaining
// paused: it returns domain.ErrStopped so the run can reach a terminal state
// promptly.
func (g *gate) wait(ctx context.Context, stop <-chan struct{}) error {
	g.mu.Lock()
	ch := g.ch
	g.mu.Unlock()

	select {
	case <-ch:
		return nil
	case <-stop:
		return domain.ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}
