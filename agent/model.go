package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/convoke-ai/convoke/core"
	"github.com/convoke-ai/convoke/handoff"
	"github.com/convoke-ai/convoke/model"
)

// ModelAgent is a core.Agent backed by a model.Model. It renders its
// instructions (plus any handoff targets it may transfer to) as the system
// prompt, feeds the full session history to the model and converts the
// completion back into a session message, extracting textual transfer
// declarations along the way.
type ModelAgent struct {
	id           core.AgentID
	description  string
	instructions string
	mdl          model.Model
	handoffs     *handoff.Table
}

// ModelAgentOption customizes a ModelAgent.
type ModelAgentOption func(*ModelAgent)

// WithDescription sets the agent description used in selection rosters.
func WithDescription(desc string) ModelAgentOption {
	return func(a *ModelAgent) { a.description = desc }
}

// WithInstructions sets the base system instructions.
func WithInstructions(instructions string) ModelAgentOption {
	return func(a *ModelAgent) { a.instructions = instructions }
}

// WithHandoffs attaches the handoff table so the agent can advertise its
// outgoing transfer targets and their conditions in its system prompt.
func WithHandoffs(table *handoff.Table) ModelAgentOption {
	return func(a *ModelAgent) { a.handoffs = table }
}

// NewModelAgent constructs a model-backed agent.
func NewModelAgent(id core.AgentID, mdl model.Model, optFns ...ModelAgentOption) *ModelAgent {
	a := &ModelAgent{
		id:          id,
		description: fmt.Sprintf("Agent %s", id),
		mdl:         mdl,
	}
	for _, fn := range optFns {
		fn(a)
	}
	return a
}

// ID implements core.Agent.
func (a *ModelAgent) ID() core.AgentID { return a.id }

// Description implements core.Agent.
func (a *ModelAgent) Description() string { return a.description }

// Respond implements core.Agent.
func (a *ModelAgent) Respond(ctx context.Context, history []core.Message) (core.Message, error) {
	text, err := model.Complete(ctx, a.mdl, model.Request{
		Instructions: a.systemPrompt(),
		Messages:     history,
	})
	if err != nil {
		return core.Message{}, fmt.Errorf("agent %s: %w", a.id, err)
	}
	content, target := handoff.ExtractDirective(text)
	msg := core.NewAgentMessage(a.id, content)
	msg.Transfer = target
	return msg, nil
}

// RespondStream implements core.StreamingAgent. Partial model output is
// forwarded as chunks; the final chunk carries any text not yet delivered
// incrementally, so concatenating all chunk deltas always yields the
// complete response.
func (a *ModelAgent) RespondStream(ctx context.Context, history []core.Message) (<-chan core.Chunk, <-chan error) {
	chunks := make(chan core.Chunk, 32)
	errCh := make(chan error, 1)

	go func() {
		defer close(chunks)
		defer close(errCh)

		respCh, modelErrCh := a.mdl.Generate(ctx, model.Request{
			Instructions: a.systemPrompt(),
			Messages:     history,
			Stream:       true,
		})

		var streamed strings.Builder
		var final string
		for resp := range respCh {
			if resp.Partial {
				streamed.WriteString(resp.Text)
				select {
				case <-ctx.Done():
					errCh <- ctx.Err()
					return
				case chunks <- core.Chunk{Author: string(a.id), Delta: resp.Text}:
				}
				continue
			}
			final = resp.Text
		}
		if err := <-modelErrCh; err != nil {
			errCh <- fmt.Errorf("agent %s: %w", a.id, err)
			return
		}
		remainder := strings.TrimPrefix(final, streamed.String())
		chunks <- core.Chunk{Author: string(a.id), Delta: remainder, Final: true}
	}()

	return chunks, errCh
}

// systemPrompt combines base instructions with the transfer protocol for
// this agent's outgoing handoff edges, if any.
func (a *ModelAgent) systemPrompt() string {
	var b strings.Builder
	b.WriteString(a.instructions)
	if a.handoffs == nil {
		return b.String()
	}
	edges := a.handoffs.TargetsFor(a.id)
	if len(edges) == 0 {
		return b.String()
	}
	b.WriteString("\n\nYou may hand the conversation to another agent. ")
	b.WriteString("To do so, end your reply with a line of the form \"")
	b.WriteString(handoff.Directive)
	b.WriteString(" <agent>\". Available targets:\n")
	for _, edge := range edges {
		fmt.Fprintf(&b, "- %s: %s\n", edge.Target, edge.Condition)
	}
	return b.String()
}
