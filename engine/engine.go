package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/convoke-ai/convoke/core"
	"github.com/convoke-ai/convoke/handoff"
	"github.com/convoke-ai/convoke/logging"
	"github.com/convoke-ai/convoke/model"
	"github.com/convoke-ai/convoke/policy"
	"github.com/convoke-ai/convoke/result"
	"github.com/convoke-ai/convoke/session"
	"github.com/convoke-ai/convoke/termination"
)

// Mode enumerates the orchestration patterns the engine drives.
type Mode int

const (
	// ModeSequential runs each participant exactly once, in registration
	// order, each seeing the accumulated log.
	ModeSequential Mode = iota
	// ModeConcurrent dispatches the task to every participant
	// simultaneously and joins on all of them.
	ModeConcurrent
	// ModeGroupChat alternates speakers under a selection policy
	// (round-robin by default) until a termination condition holds.
	ModeGroupChat
	// ModeHandoff keeps the conversation with one agent at a time,
	// transferring control along the edges of a handoff table.
	ModeHandoff
	// ModeMagentic delegates planning, speaker selection and termination
	// to a manager model.
	ModeMagentic
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeSequential:
		return "sequential"
	case ModeConcurrent:
		return "concurrent"
	case ModeGroupChat:
		return "group-chat"
	case ModeHandoff:
		return "handoff"
	case ModeMagentic:
		return "magentic"
	default:
		return "unknown"
	}
}

// ManagerAuthor is the author recorded on messages produced by the magentic
// manager (plan ledgers).
const ManagerAuthor = "manager"

// DefaultMaxTurns is the safety bound on loop iterations when none is
// configured. Exceeding it is a fatal IterationLimitError, never a silent
// stop.
const DefaultMaxTurns = 48

// Options configures an Engine via the functional options pattern.
type Options struct {
	// Selection decides the next actor for group-chat style modes. When
	// nil a mode-appropriate default is built per invocation. Stateful
	// policies supplied here carry their position across invocations;
	// supply a fresh policy per run when that is not desired.
	Selection policy.Policy

	// Termination ends the session; evaluated after every appended
	// message. Multiple conditions compose with termination.Any.
	Termination termination.Condition

	// Handoffs is the static transfer table for ModeHandoff.
	Handoffs *handoff.Table

	// Aggregator overrides the mode's default result aggregation, e.g. a
	// result.Schema for structured outputs.
	Aggregator result.Aggregator

	// Manager is the model driving planning, selection and termination in
	// ModeMagentic.
	Manager model.Model

	// MaxTurns caps loop iterations (safety bound). Defaults to
	// DefaultMaxTurns.
	MaxTurns int

	// MaxDuration caps elapsed wall-clock time for the turn loop. Zero
	// means no time bound. Exceeding it is a fatal IterationLimitError,
	// like exceeding MaxTurns.
	MaxDuration time.Duration

	// TolerateFailures lets concurrent mode return the surviving results
	// when some participants fail. Off by default: one failure fails the
	// whole fan-out.
	TolerateFailures bool

	// HumanInput supplies external user turns when a policy requests them
	// (and, in handoff mode, after each non-transferring agent reply).
	HumanInput core.HumanInputProvider

	// OnMessage is invoked once per finalized appended message.
	OnMessage func(msg core.Message)

	// OnChunk is invoked per streaming fragment. In concurrent mode it may
	// be called from multiple goroutines and must be reentrant-safe.
	OnChunk func(chunk core.Chunk)

	// Store retains sessions for inspection. Defaults to an in-memory
	// store.
	Store core.SessionStore

	// Logger defaults to a no-op logger.
	Logger logging.Logger
}

// Engine drives the turn loop for one orchestration mode over a fixed set
// of participants, applying selection, termination and handoff policies.
type Engine struct {
	mode   Mode
	opts   Options
	agents map[core.AgentID]core.Agent
	order  []core.AgentID
	logger logging.Logger
	store  core.SessionStore
}

// New validates the participant set and builds an engine.
func New(mode Mode, participants []core.Agent, optFns ...func(o *Options)) (*Engine, error) {
	opts := Options{
		MaxTurns: DefaultMaxTurns,
		Store:    session.NewInMemoryStore(),
		Logger:   logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.MaxTurns <= 0 {
		opts.MaxTurns = DefaultMaxTurns
	}

	if len(participants) == 0 {
		return nil, fmt.Errorf("at least one participant is required")
	}
	agents := make(map[core.AgentID]core.Agent, len(participants))
	order := make([]core.AgentID, 0, len(participants))
	for _, ag := range participants {
		if _, dup := agents[ag.ID()]; dup {
			return nil, fmt.Errorf("duplicate participant %q", ag.ID())
		}
		agents[ag.ID()] = ag
		order = append(order, ag.ID())
	}

	if opts.Handoffs != nil {
		if err := opts.Handoffs.Validate(order); err != nil {
			return nil, err
		}
	}
	if mode == ModeHandoff && opts.Handoffs == nil {
		return nil, fmt.Errorf("handoff mode requires a handoff table")
	}
	if mode == ModeMagentic && opts.Manager == nil {
		return nil, fmt.Errorf("magentic mode requires a manager model")
	}
	if mode == ModeGroupChat && opts.Selection == nil && opts.Termination == nil {
		return nil, fmt.Errorf("group-chat mode requires a selection policy or termination condition")
	}

	return &Engine{
		mode:   mode,
		opts:   opts,
		agents: agents,
		order:  order,
		logger: opts.Logger,
		store:  opts.Store,
	}, nil
}

// Mode returns the configured orchestration mode.
func (e *Engine) Mode() Mode { return e.mode }

// GetSession retrieves a retained session by ID.
func (e *Engine) GetSession(id string) (*core.Session, error) { return e.store.Get(id) }

// Invoke starts an asynchronous orchestration run seeded with the task. The
// returned handle resolves to the terminal result, fails with the run's
// terminal error, and supports cooperative cancellation.
func (e *Engine) Invoke(ctx context.Context, task string) (*Handle, error) {
	sess := core.NewSession(core.NewID())
	if err := e.store.Put(sess); err != nil {
		return nil, fmt.Errorf("register session: %w", err)
	}
	runCtx, cancel := context.WithCancel(ctx)
	h := newHandle(sess, cancel)

	if err := sess.Transition(core.StatusRunning); err != nil {
		cancel()
		return nil, err
	}
	e.append(sess, core.NewUserMessage(task))

	go e.run(runCtx, h)
	return h, nil
}

// run executes the mode-specific body and records the terminal outcome.
func (e *Engine) run(ctx context.Context, h *Handle) {
	log := e.logger
	log.Debug("orchestration started", "session_id", h.session.ID, "mode", e.mode.String())

	var err error
	if e.mode == ModeConcurrent {
		err = e.runConcurrent(ctx, h)
	} else {
		err = e.runTurnLoop(ctx, h)
	}

	var value result.Value
	if err == nil {
		value, err = e.aggregate(h.session.History())
	}

	status := core.StatusCompleted
	switch {
	case errors.Is(err, ErrCancelled):
		status = core.StatusCancelled
	case err != nil:
		status = core.StatusFailed
	}
	if terr := h.session.Transition(status); terr != nil {
		log.Warn("terminal transition rejected", "session_id", h.session.ID, "error", terr.Error())
	}
	log.Info("orchestration finished",
		"session_id", h.session.ID, "status", status.String(), "messages", h.session.Len())
	h.finish(value, err)
}

// aggregate applies the configured (or mode-default) result aggregator.
func (e *Engine) aggregate(history []core.Message) (result.Value, error) {
	agg := e.opts.Aggregator
	if agg == nil {
		if e.mode == ModeConcurrent {
			agg = result.ParticipantList{Order: e.order}
		} else {
			agg = result.FinalMessage{}
		}
	}
	return agg.Aggregate(history)
}

// append records a finalized message and notifies the observer.
func (e *Engine) append(sess *core.Session, msg core.Message) {
	sess.Append(msg)
	if e.opts.OnMessage != nil {
		e.opts.OnMessage(msg)
	}
}

// invokeAgent runs one agent turn, streaming when the agent supports it and
// an OnChunk observer is installed. The finalized message is rebuilt from
// the accumulated chunks so streamed and plain turns append identically.
func (e *Engine) invokeAgent(ctx context.Context, ag core.Agent, history []core.Message) (core.Message, error) {
	sa, streaming := ag.(core.StreamingAgent)
	if !streaming || e.opts.OnChunk == nil {
		return ag.Respond(ctx, history)
	}

	chunks, errCh := sa.RespondStream(ctx, history)
	var full strings.Builder
	for chunk := range chunks {
		e.opts.OnChunk(chunk)
		full.WriteString(chunk.Delta)
	}
	if err := <-errCh; err != nil {
		return core.Message{}, err
	}
	content, target := handoff.ExtractDirective(full.String())
	msg := core.NewAgentMessage(ag.ID(), content)
	msg.Transfer = target
	return msg, nil
}
