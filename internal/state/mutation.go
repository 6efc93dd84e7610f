package state

import (
	"context"
	"sync"
)

// MutationStatus tracks a remote write behind an optimistic local update.
type MutationStatus int

const (
	// MutationPending means the local update is applied and the remote write
	// is still in flight.
	MutationPending MutationStatus = iota
	// MutationConfirmed means the remote store accepted the write.
	MutationConfirmed
	// MutationFailed means the remote write failed. Local state is kept as
	// the last word for the session; callers may offer a retry affordance.
	MutationFailed
)

func (s MutationStatus) String() string {
	switch s {
	case MutationConfirmed:
		return "confirmed"
	case MutationFailed:
		return "failed"
	default:
		return "pending"
	}
}

// Mutation is the handle returned by every store mutation. The local effect
// is already visible when the handle is returned; the handle only reports
// the fate of the remote write.
type Mutation struct {
	mu     sync.Mutex
	status MutationStatus
	err    error
	done   chan struct{}
}

func newMutation() *Mutation {
	return &Mutation{done: make(chan struct{})}
}

func (m *Mutation) resolve(err error) {
	m.mu.Lock()
	if err != nil {
		m.status = MutationFailed
		m.err = err
	} else {
		m.status = MutationConfirmed
	}
	m.mu.Unlock()
	close(m.done)
}

// Status returns the current remote-write status.
func (m *Mutation) Status() MutationStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

// Err returns the remote failure, if any.
func (m *Mutation) Err() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.err
}

// Wait blocks until the remote write resolves or ctx ends. It returns the
// remote error, if any. Callers that prefer fire-and-forget simply drop the
// handle.
func (m *Mutation) Wait(ctx context.Context) error {
	select {
	case <-m.done:
		return m.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// resolved builds an already-settled handle for local-only mutations.
func resolved() *Mutation {
	m := newMutation()
	m.resolve(nil)
	return m
}
