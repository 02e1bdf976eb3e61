package engine

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/convoke-ai/convoke/core"
	"github.com/convoke-ai/convoke/result"
)

// Handle tracks one asynchronous orchestration run. It exposes the terminal
// result, cooperative cancellation and the owning session.
type Handle struct {
	session *core.Session
	cancel  context.CancelFunc

	cancelled atomic.Bool
	done      chan struct{}
	finishMu  sync.Once

	value result.Value
	err   error
}

func newHandle(sess *core.Session, cancel context.CancelFunc) *Handle {
	return &Handle{session: sess, cancel: cancel, done: make(chan struct{})}
}

// Get blocks until the session reaches a terminal state and returns the
// cached result. The result is computed exactly once: repeated calls return
// the identical value without recomputation. If the session is still
// running when the timeout elapses, Get fails with a TimeoutError while the
// run continues in the background.
func (h *Handle) Get(timeout time.Duration) (result.Value, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-h.done:
		return h.value, h.err
	case <-timer.C:
		return result.Value{}, &TimeoutError{Timeout: timeout}
	}
}

// Cancel requests cooperative termination. It is idempotent. The engine
// observes the request at its next checkpoint, after any in-flight agent
// call returns, never preemptively. Get subsequently fails with
// ErrCancelled.
func (h *Handle) Cancel() {
	if h.cancelled.CompareAndSwap(false, true) {
		h.cancel()
	}
}

// CancelRequested reports whether Cancel has been called.
func (h *Handle) CancelRequested() bool { return h.cancelled.Load() }

// Session returns the session owning the message log, which remains
// available for inspection after the run ends.
func (h *Handle) Session() *core.Session { return h.session }

// Done returns a channel closed when the run reaches a terminal state.
func (h *Handle) Done() <-chan struct{} { return h.done }

// finish records the terminal outcome exactly once.
func (h *Handle) finish(value result.Value, err error) {
	h.finishMu.Do(func() {
		h.value = value
		h.err = err
		close(h.done)
	})
}
