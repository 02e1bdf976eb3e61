package core

import "context"

// Agent is the opaque capability the engine coordinates: given the
// conversation history, produce the next message. How the response is
// computed (completion API, tools, retrieval) is outside the engine's
// concern.
//
// Implementations must:
//   - Respect context cancellation
//   - Treat the history slice as read-only
//   - Return a message authored with their own ID
type Agent interface {
	ID() AgentID
	Description() string
	Respond(ctx context.Context, history []Message) (Message, error)
}

// StreamingAgent is an optional extension for agents that can deliver their
// response incrementally. The returned channel carries partial chunks and is
// terminated by a chunk with Final=true; the error channel carries at most
// one terminal error and both channels are closed when the turn completes.
type StreamingAgent interface {
	Agent
	RespondStream(ctx context.Context, history []Message) (<-chan Chunk, <-chan error)
}

// HumanInputProvider supplies external human input when a selection policy
// requests it. GetInput blocks the turn loop until it returns; it is the
// sole explicit suspension point besides agent-call latency.
type HumanInputProvider interface {
	GetInput(ctx context.Context) (Message, error)
}

// HumanInputFunc adapts a function to the HumanInputProvider interface.
type HumanInputFunc func(ctx context.Context) (Message, error)

// GetInput implements HumanInputProvider.
func (f HumanInputFunc) GetInput(ctx context.Context) (Message, error) { return f(ctx) }
