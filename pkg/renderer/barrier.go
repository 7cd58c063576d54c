package renderer

import (
	"errors"
	"sync"
)

// ErrGateBusy is returned when arming a gate that still has pending work
var ErrGateBusy = errors.New("completion gate still has pending work")

// CompletionGate is a reusable fan-out/fan-in barrier. The dispatcher arms
// it with the number of outstanding jobs, each worker calls Done once, and
// Wait blocks until the count reaches zero.
type CompletionGate struct {
	mu      sync.Mutex
	cond    *sync.Cond
	pending int
}

// NewCompletionGate creates an idle gate
func NewCompletionGate() *CompletionGate {
	g := &CompletionGate{}
	g.cond = sync.NewCond(&g.mu)
	return g
}

// Arm sets the number of completions to wait for. The gate must be idle.
func (g *CompletionGate) Arm(n int) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.pending != 0 {
		return ErrGateBusy
	}
	g.pending = n
	return nil
}

// Done records one completion and wakes waiters when the last one arrives.
// Calling Done more times than the gate was armed for panics.
func (g *CompletionGate) Done() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.pending <= 0 {
		panic("renderer: CompletionGate.Done called without pending work")
	}
	g.pending--
	if g.pending == 0 {
		g.cond.Broadcast()
	}
}

// Wait blocks until every armed completion has been recorded
func (g *CompletionGate) Wait() {
	g.mu.Lock()
	defer g.mu.Unlock()
	for g.pending > 0 {
		g.cond.Wait()
	}
}

// Pending returns the number of completions still outstanding
func (g *CompletionGate) Pending() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.pending
}
