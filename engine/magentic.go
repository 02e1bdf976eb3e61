package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/convoke-ai/convoke/core"
	"github.com/convoke-ai/convoke/model"
)

// plan asks the manager model for a task ledger before the turn loop starts.
// The plan is appended to the log as a tool message so every participant and
// the manager's own selection calls can see it.
func (e *Engine) plan(ctx context.Context, h *Handle) error {
	history := h.session.History()
	task := ""
	if len(history) > 0 {
		task = history[0].Content
	}

	var roster strings.Builder
	for _, id := range e.order {
		fmt.Fprintf(&roster, "- %s: %s\n", id, e.agents[id].Description())
	}

	prompt := fmt.Sprintf(
		"You manage a team of agents working on a task.\n"+
			"Team:\n%s\nTask: %s\n\n"+
			"Produce a short plan: the facts known so far, the facts to look up "+
			"or derive, and a step-by-step assignment of work to team members.",
		roster.String(), task)

	text, err := model.Complete(ctx, e.opts.Manager, model.Request{
		Messages: []core.Message{core.NewUserMessage(prompt)},
	})
	if err != nil {
		return fmt.Errorf("manager planning: %w", err)
	}
	if h.CancelRequested() {
		return ErrCancelled
	}
	e.append(h.session, core.NewMessage(ManagerAuthor, core.RoleTool, text))
	return nil
}
