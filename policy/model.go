package policy

import (
	"context"
	"fmt"
	"strings"

	"github.com/convoke-ai/convoke/core"
	"github.com/convoke-ai/convoke/model"
)

// Participant describes one roster entry shown to the selecting model.
type Participant struct {
	ID          core.AgentID
	Description string
}

// ModelDriven delegates the next-speaker decision to a completion call. The
// returned name is validated against the roster; an unrecognized name
// triggers exactly one corrective retry, after which the policy fails with
// a SelectionError rather than crashing the process.
type ModelDriven struct {
	mdl          model.Model
	participants []Participant
}

// NewModelDriven constructs a model-driven selection policy.
func NewModelDriven(mdl model.Model, participants []Participant) *ModelDriven {
	return &ModelDriven{mdl: mdl, participants: participants}
}

// Select implements Policy.
func (p *ModelDriven) Select(ctx context.Context, history []core.Message) (Decision, error) {
	reply, err := p.ask(ctx, history, "")
	if err != nil {
		return Decision{}, err
	}
	if id, ok := p.match(reply); ok {
		return NextAgent(id), nil
	}

	correction := fmt.Sprintf(
		"%q is not a participant. Answer with exactly one of the listed names and nothing else.", reply)
	reply, err = p.ask(ctx, history, correction)
	if err != nil {
		return Decision{}, err
	}
	if id, ok := p.match(reply); ok {
		return NextAgent(id), nil
	}
	return Decision{}, &SelectionError{Proposed: reply}
}

func (p *ModelDriven) ask(ctx context.Context, history []core.Message, correction string) (string, error) {
	var roster strings.Builder
	for _, part := range p.participants {
		fmt.Fprintf(&roster, "- %s: %s\n", part.ID, part.Description)
	}

	prompt := fmt.Sprintf(
		"You coordinate a conversation between these agents:\n%s\n"+
			"Transcript so far:\n%s\n"+
			"Reply with the name of the agent best suited to speak next. Reply with the name only.",
		roster.String(), model.RenderTranscript(history))
	if correction != "" {
		prompt += "\n" + correction
	}

	reply, err := model.Complete(ctx, p.mdl, model.Request{
		Messages: []core.Message{core.NewUserMessage(prompt)},
	})
	if err != nil {
		return "", fmt.Errorf("model-driven selection: %w", err)
	}
	return strings.TrimSpace(reply), nil
}

// match validates a model reply against the roster: exact case-insensitive
// name first, then a uniquely contained name.
func (p *ModelDriven) match(reply string) (core.AgentID, bool) {
	cleaned := strings.ToLower(strings.Trim(reply, " \t\r\n\"'.`"))
	var candidates []core.AgentID
	for _, part := range p.participants {
		name := strings.ToLower(string(part.ID))
		if name == cleaned {
			return part.ID, true
		}
		if strings.Contains(cleaned, name) {
			candidates = append(candidates, part.ID)
		}
	}
	if len(candidates) == 1 {
		return candidates[0], true
	}
	return "", false
}
