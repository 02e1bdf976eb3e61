package engine

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/convoke-ai/convoke/core"
)

// runConcurrent fans the seeded task out to every participant at once and
// joins on all of them. Each agent sees only the initial log; replies are
// appended in registration order after the join, so the log stays
// deterministic regardless of completion order.
func (e *Engine) runConcurrent(ctx context.Context, h *Handle) error {
	sess := h.session
	log := e.sessionLogger(sess.ID)
	seed := sess.History()

	replies := make([]core.Message, len(e.order))
	failures := make([]error, len(e.order))

	g, gctx := errgroup.WithContext(ctx)
	for i, id := range e.order {
		i, ag := i, e.agents[id]
		g.Go(func() error {
			msg, err := e.invokeAgent(gctx, ag, seed)
			if err != nil {
				perr := &ParticipantError{Agent: ag.ID(), Turn: i, Err: err}
				if e.opts.TolerateFailures {
					failures[i] = perr
					log.Warn("participant failed, continuing",
						"agent", string(ag.ID()), "error", err.Error())
					return nil
				}
				return perr
			}
			replies[i] = msg
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if h.CancelRequested() {
			return ErrCancelled
		}
		return err
	}
	if h.CancelRequested() {
		return ErrCancelled
	}

	// Join barrier passed: materialize replies in registration order.
	failed := 0
	for i, id := range e.order {
		if failures[i] != nil {
			failed++
			continue
		}
		msg := replies[i]
		if msg.Author == "" {
			msg = core.NewAgentMessage(id, msg.Content)
		}
		e.append(sess, msg)
	}
	if failed == len(e.order) {
		return failures[0]
	}
	return nil
}
