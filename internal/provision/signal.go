package provision

import (
	"context"
	"sync"
)

// Signal is a one-shot, multi-waiter completion notification. It resolves
// exactly once, with nil for success or the first failure of the provisioning
// flow; later resolves are no-ops. Any number of goroutines may wait.
type Signal struct {
	done chan struct{}
	once sync.Once
	err  error
}

// NewSignal returns an unresolved signal.
func NewSignal() *Signal {
	return &Signal{done: make(chan struct{})}
}

// ResolvedSignal returns a signal that already carries the given result.
// Used for pre-existing servers that are not mid-provisioning.
func ResolvedSignal(err error) *Signal {
	s := NewSignal()
	s.Resolve(err)
	return s
}

// Resolve sets the signal's result. Only the first call has any effect.
func (s *Signal) Resolve(err error) {
	s.once.Do(func() {
		s.err = err
		close(s.done)
	})
}

// Done returns a channel closed when the signal has resolved.
func (s *Signal) Done() <-chan struct{} {
	return s.done
}

// Resolved reports whether the signal has resolved, without blocking.
func (s *Signal) Resolved() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

// Err returns the result. Valid only after Done is closed.
func (s *Signal) Err() error {
	return s.err
}

// Wait blocks until the signal resolves or the context is canceled.
func (s *Signal) Wait(ctx context.Context) error {
	select {
	case <-s.done:
		return s.err
	case <-ctx.Done():
		return ctx.Err()
	}
}
