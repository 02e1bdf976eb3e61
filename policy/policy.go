package policy

import (
	"context"
	"fmt"

	"github.com/convoke-ai/convoke/core"
)

// Kind tags a selection decision. The set is closed: the engine switches
// over it exhaustively.
type Kind int

const (
	// KindAgent means a specific agent acts next.
	KindAgent Kind = iota
	// KindHumanInput means the loop suspends for external human input.
	KindHumanInput
	// KindTerminate means the policy has no further turns to schedule.
	KindTerminate
)

// Decision is the outcome of one selection step.
type Decision struct {
	Kind   Kind
	Agent  core.AgentID
	Reason string
}

// NextAgent builds an agent decision.
func NextAgent(id core.AgentID) Decision { return Decision{Kind: KindAgent, Agent: id} }

// RequestHumanInput builds a human-input decision.
func RequestHumanInput(reason string) Decision {
	return Decision{Kind: KindHumanInput, Reason: reason}
}

// Terminate builds a terminate decision.
func Terminate(reason string) Decision { return Decision{Kind: KindTerminate, Reason: reason} }

// Policy decides which agent (or the human) acts next given the full log.
// Implementations are driven by the engine's single-threaded turn loop and
// need not be safe for concurrent use.
type Policy interface {
	Select(ctx context.Context, history []core.Message) (Decision, error)
}

// SelectionError reports a selection that proposed a participant unknown to
// the session. The model-driven policy retries once with a corrective
// prompt before returning it; the engine treats it as fatal.
type SelectionError struct {
	Proposed string
}

// Error implements the error interface.
func (e *SelectionError) Error() string {
	return fmt.Sprintf("selection proposed unknown participant %q", e.Proposed)
}
