package agent

import (
	"context"

	"github.com/convoke-ai/convoke/core"
	"github.com/convoke-ai/convoke/handoff"
)

// RespondFunc computes a response text from the conversation history.
type RespondFunc func(ctx context.Context, history []core.Message) (string, error)

// FuncAgent adapts a plain function to the core.Agent interface. Transfer
// directives embedded in the returned text are extracted the same way the
// model-backed agent extracts them, so function agents participate fully in
// handoff orchestration. Useful for tests and deterministic pipeline steps.
type FuncAgent struct {
	id          core.AgentID
	description string
	fn          RespondFunc
}

// NewFuncAgent constructs a function-backed agent.
func NewFuncAgent(id core.AgentID, description string, fn RespondFunc) *FuncAgent {
	return &FuncAgent{id: id, description: description, fn: fn}
}

// ID implements core.Agent.
func (a *FuncAgent) ID() core.AgentID { return a.id }

// Description implements core.Agent.
func (a *FuncAgent) Description() string { return a.description }

// Respond implements core.Agent.
func (a *FuncAgent) Respond(ctx context.Context, history []core.Message) (core.Message, error) {
	text, err := a.fn(ctx, history)
	if err != nil {
		return core.Message{}, err
	}
	content, target := handoff.ExtractDirective(text)
	msg := core.NewAgentMessage(a.id, content)
	msg.Transfer = target
	return msg, nil
}
