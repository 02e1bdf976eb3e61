package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/convoke-ai/convoke/core"
	"github.com/convoke-ai/convoke/logging"
	"github.com/convoke-ai/convoke/policy"
	"github.com/convoke-ai/convoke/termination"
)

// sessionLogger narrows the logger to the session when a SessionLogger was
// supplied; any other Logger is used as-is.
func (e *Engine) sessionLogger(sessionID string) logging.Logger {
	if sl, ok := e.logger.(*logging.SessionLogger); ok {
		return sl.WithSession(sessionID)
	}
	return e.logger
}

func logTurn(log logging.Logger, turn int, agent core.AgentID, dur time.Duration, err error) {
	if sl, ok := log.(*logging.SessionLogger); ok {
		sl.LogTurn(turn, string(agent), dur, err)
		return
	}
	if err != nil {
		log.Error("turn failed", "turn", turn, "agent", string(agent), "duration", dur, "error", err.Error())
		return
	}
	log.Info("turn completed", "turn", turn, "agent", string(agent), "duration", dur)
}

func logHandoffFallback(log logging.Logger, source core.AgentID, declared string) {
	if sl, ok := log.(*logging.SessionLogger); ok {
		sl.LogHandoffFallback(string(source), declared)
		return
	}
	log.Warn("handoff target not resolvable, falling back to selection policy",
		"source", string(source), "declared_target", declared)
}

// runTurnLoop drives every non-concurrent mode: one actor per iteration,
// decided by the selection policy (or handoff stickiness), with a
// cancellation checkpoint before each turn and termination evaluated after
// every appended message.
func (e *Engine) runTurnLoop(ctx context.Context, h *Handle) error {
	sess := h.session
	log := e.sessionLogger(sess.ID)

	sel := e.opts.Selection
	term := e.opts.Termination
	switch e.mode {
	case ModeSequential:
		if sel == nil {
			sel = policy.NewFixedOrder(e.order)
		}
	case ModeGroupChat:
		if sel == nil {
			sel = policy.NewFixedOrder(e.order, policy.WithWrap())
		}
	case ModeMagentic:
		if err := e.plan(ctx, h); err != nil {
			return err
		}
		if sel == nil {
			sel = policy.NewModelDriven(e.opts.Manager, e.roster())
		}
		if term == nil {
			term = termination.NewModelDriven(e.opts.Manager, "")
		}
	}

	// Handoff mode is sticky: the current agent keeps the floor until it
	// declares a transfer. The first registered participant starts.
	current := e.order[0]

	// forced carries a resolved handoff target into the next iteration,
	// bypassing the selection policy for exactly one turn.
	var forced core.AgentID

	// terminated evaluates the stop condition against the current log. It
	// runs strictly after each append.
	terminated := func() (bool, error) {
		if term == nil {
			return false, nil
		}
		return term.ShouldTerminate(ctx, sess.History())
	}

	start := time.Now()
	for turn := 0; ; turn++ {
		if turn >= e.opts.MaxTurns {
			return &IterationLimitError{Turns: turn, Elapsed: time.Since(start)}
		}
		if e.opts.MaxDuration > 0 && time.Since(start) >= e.opts.MaxDuration {
			return &IterationLimitError{Turns: turn, Elapsed: time.Since(start)}
		}
		if h.CancelRequested() || ctx.Err() != nil {
			return ErrCancelled
		}

		var decision policy.Decision
		switch {
		case forced != "":
			decision = policy.NextAgent(forced)
			forced = ""
		case e.mode == ModeHandoff && sel == nil:
			decision = policy.NextAgent(current)
		default:
			var err error
			decision, err = sel.Select(ctx, sess.History())
			if err != nil {
				return err
			}
		}

		switch decision.Kind {
		case policy.KindTerminate:
			log.Debug("selection terminated session", "reason", decision.Reason)
			return nil

		case policy.KindHumanInput:
			if err := e.humanTurn(ctx, h, log); err != nil {
				return err
			}
			if done, err := terminated(); err != nil || done {
				return err
			}

		case policy.KindAgent:
			ag, ok := e.agents[decision.Agent]
			if !ok {
				return &policy.SelectionError{Proposed: string(decision.Agent)}
			}

			turnStart := time.Now()
			msg, err := e.invokeAgent(ctx, ag, sess.History())
			logTurn(log, turn, ag.ID(), time.Since(turnStart), err)
			if err != nil {
				if h.CancelRequested() {
					return ErrCancelled
				}
				return &ParticipantError{Agent: ag.ID(), Turn: turn, Err: err}
			}
			// Cancellation observed after the in-flight call returned: the
			// reply is discarded, nothing is appended past the checkpoint.
			if h.CancelRequested() {
				return ErrCancelled
			}
			e.append(sess, msg)
			current = ag.ID()
			if done, err := terminated(); err != nil || done {
				return err
			}

			if msg.DeclaresTransfer() && e.opts.Handoffs != nil {
				if target, resolved := e.opts.Handoffs.Resolve(ag.ID(), msg.Transfer); resolved {
					forced = target
					log.Debug("handoff resolved", "source", string(ag.ID()), "target", string(target))
				} else {
					logHandoffFallback(log, ag.ID(), msg.Transfer)
				}
			}

			// A handoff conversation quiesces when the agent replies without
			// transferring: hand the floor to the human if one is attached,
			// otherwise the session is complete.
			if e.mode == ModeHandoff && forced == "" {
				if e.opts.HumanInput == nil {
					return nil
				}
				if err := e.humanTurn(ctx, h, log); err != nil {
					return err
				}
				if done, err := terminated(); err != nil || done {
					return err
				}
			}

		default:
			return fmt.Errorf("unknown selection decision %d", decision.Kind)
		}
	}
}

// humanTurn suspends the loop for external input and appends the resulting
// user message. Cancellation observed while waiting discards the input.
func (e *Engine) humanTurn(ctx context.Context, h *Handle, log logging.Logger) error {
	if e.opts.HumanInput == nil {
		return fmt.Errorf("human input requested but no provider configured")
	}
	log.Debug("suspending for human input")
	msg, err := e.opts.HumanInput.GetInput(ctx)
	if err != nil {
		if h.CancelRequested() {
			return ErrCancelled
		}
		return fmt.Errorf("human input: %w", err)
	}
	if h.CancelRequested() {
		return ErrCancelled
	}
	if msg.Role == "" {
		msg = core.NewUserMessage(msg.Content)
	}
	e.append(h.session, msg)
	return nil
}

// roster exposes the participant set to model-driven policies.
func (e *Engine) roster() []policy.Participant {
	out := make([]policy.Participant, 0, len(e.order))
	for _, id := range e.order {
		out = append(out, policy.Participant{ID: id, Description: e.agents[id].Description()})
	}
	return out
}
