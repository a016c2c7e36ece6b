package core

// gate.go serializes load and compare operations.
//
// The gate is a one-slot semaphore. A caller that cannot take the slot
// within maxWait gets ErrOperationBusy. Once taken, the slot is held until
// the operation finishes; work is never interrupted midway.

import (
	"context"
	"sync"
	"time"
)

// DefaultOperationWait is how long to wait for the gate before rejecting.
const DefaultOperationWait = 30 * time.Second

// Gate lets at most one operation run at a time.
type Gate struct {
	slot    chan struct{}
	maxWait time.Duration

	mu      sync.RWMutex
	holder  string
	since   time.Time
	waiting int
}

// NewGate creates a gate; maxWait <= 0 uses DefaultOperationWait.
func NewGate(maxWait time.Duration) *Gate {
	if maxWait <= 0 {
		maxWait = DefaultOperationWait
	}
	return &Gate{
		slot:    make(chan struct{}, 1),
		maxWait: maxWait,
	}
}

// Acquire takes the gate for the named operation.
// Returns nil on success, ErrOperationBusy if maxWait expires, or the
// context's error if ctx ends first.
// The caller MUST call Release() when the operation completes (use defer).
func (g *Gate) Acquire(ctx context.Context, op string) error {
	g.mu.Lock()
	g.waiting++
	g.mu.Unlock()
	defer func() {
		g.mu.Lock()
		g.waiting--
		g.mu.Unlock()
	}()

	waitCtx, cancel := context.WithTimeout(ctx, g.maxWait)
	defer cancel()

	select {
	case g.slot <- struct{}{}:
		g.mu.Lock()
		g.holder = op
		g.since = time.Now()
		g.mu.Unlock()
		return nil

	case <-waitCtx.Done():
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return ErrOperationBusy
	}
}

// Release frees the gate.
// Must be called exactly once for each successful Acquire.
func (g *Gate) Release() {
	g.mu.Lock()
	g.holder = ""
	g.since = time.Time{}
	g.mu.Unlock()

	<-g.slot
}

// WaitForDrain blocks until the running operation finishes or ctx ends.
// Used during shutdown so an in-flight load is not cut off.
func (g *Gate) WaitForDrain(ctx context.Context) error {
	select {
	case g.slot <- struct{}{}:
		<-g.slot
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// GateStatus is a snapshot of the gate's state.
type GateStatus struct {
	Busy      bool      `json:"busy"`
	Operation string    `json:"operation,omitempty"`
	Since     time.Time `json:"since,omitzero"`
	Waiting   int       `json:"waiting"`
}

// Status returns the current gate state for monitoring/debugging.
func (g *Gate) Status() GateStatus {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return GateStatus{
		Busy:      len(g.slot) > 0,
		Operation: g.holder,
		Since:     g.since,
		Waiting:   g.waiting,
	}
}
