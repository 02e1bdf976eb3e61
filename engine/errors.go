package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/convoke-ai/convoke/core"
)

// ErrCancelled is returned by Handle.Get after a cooperative cancellation
// took effect. No partial result is returned.
var ErrCancelled = errors.New("orchestration cancelled")

// TimeoutError reports that Get exceeded its timeout before the session
// reached a terminal state. The session keeps running in the background
// unless separately cancelled.
type TimeoutError struct {
	Timeout time.Duration
}

// Error implements the error interface.
func (e *TimeoutError) Error() string {
	return fmt.Sprintf("orchestration result not available within %s", e.Timeout)
}

// IterationLimitError reports a breach of the engine's safety bound on turn
// count or elapsed time. It is always fatal and surfaced, never a silent
// stop.
type IterationLimitError struct {
	Turns   int
	Elapsed time.Duration
}

// Error implements the error interface.
func (e *IterationLimitError) Error() string {
	return fmt.Sprintf("safety bound exceeded after %d turns (%s elapsed)", e.Turns, e.Elapsed)
}

// ParticipantError reports an agent call that failed, identifying the
// participant and the turn index at which it failed.
type ParticipantError struct {
	Agent core.AgentID
	Turn  int
	Err   error
}

// Error implements the error interface.
func (e *ParticipantError) Error() string {
	return fmt.Sprintf("participant %s failed at turn %d: %v", e.Agent, e.Turn, e.Err)
}

// Unwrap returns the underlying agent error.
func (e *ParticipantError) Unwrap() error { return e.Err }
