// Package convoke coordinates conversations between multiple agents. It
// offers five orchestration patterns over a shared engine: sequential
// pipelines, concurrent fan-out, policy-driven group chat, handoff routing
// along a static transfer table, and manager-planned (magentic) runs.
//
// A minimal group chat:
//
//	orch, err := convoke.GroupChat([]core.Agent{writer, reviewer},
//		convoke.WithSelection(policy.NewRoundRobin(ids, 5)),
//	)
//	handle, err := orch.Invoke(ctx, "Draft a slogan for an electric SUV.")
//	value, err := handle.Get(30 * time.Second)
package convoke

import (
	"time"

	"github.com/convoke-ai/convoke/core"
	"github.com/convoke-ai/convoke/engine"
	"github.com/convoke-ai/convoke/handoff"
	"github.com/convoke-ai/convoke/logging"
	"github.com/convoke-ai/convoke/model"
	"github.com/convoke-ai/convoke/policy"
	"github.com/convoke-ai/convoke/result"
	"github.com/convoke-ai/convoke/termination"
)

// Option configures an orchestration.
type Option = func(o *engine.Options)

// WithSelection sets the next-speaker policy.
func WithSelection(p policy.Policy) Option {
	return func(o *engine.Options) { o.Selection = p }
}

// WithTermination sets the stop condition; multiple conditions compose with
// termination.Any.
func WithTermination(c termination.Condition) Option {
	return func(o *engine.Options) { o.Termination = c }
}

// WithAggregator overrides the default result aggregation, e.g. a
// result.Schema for structured output.
func WithAggregator(a result.Aggregator) Option {
	return func(o *engine.Options) { o.Aggregator = a }
}

// WithMaxTurns caps total loop iterations. Exceeding the cap fails the run
// with an IterationLimitError.
func WithMaxTurns(n int) Option {
	return func(o *engine.Options) { o.MaxTurns = n }
}

// WithMaxDuration caps elapsed wall-clock time for the turn loop. Exceeding
// it fails the run with an IterationLimitError.
func WithMaxDuration(d time.Duration) Option {
	return func(o *engine.Options) { o.MaxDuration = d }
}

// WithTolerateFailures lets concurrent runs return the surviving results
// when some participants fail.
func WithTolerateFailures() Option {
	return func(o *engine.Options) { o.TolerateFailures = true }
}

// WithHumanInput attaches an external input provider for human-in-the-loop
// turns.
func WithHumanInput(p core.HumanInputProvider) Option {
	return func(o *engine.Options) { o.HumanInput = p }
}

// WithMessageCallback observes every finalized message as it is appended.
func WithMessageCallback(fn func(msg core.Message)) Option {
	return func(o *engine.Options) { o.OnMessage = fn }
}

// WithStreamCallback observes incremental response fragments from streaming
// agents.
func WithStreamCallback(fn func(chunk core.Chunk)) Option {
	return func(o *engine.Options) { o.OnChunk = fn }
}

// WithSessionStore replaces the default in-memory session store.
func WithSessionStore(s core.SessionStore) Option {
	return func(o *engine.Options) { o.Store = s }
}

// WithLogger sets the logger. Defaults to no-op.
func WithLogger(l logging.Logger) Option {
	return func(o *engine.Options) { o.Logger = l }
}

// Sequential builds a pipeline: each participant acts exactly once, in
// order, seeing all prior output.
func Sequential(participants []core.Agent, optFns ...Option) (*engine.Engine, error) {
	return engine.New(engine.ModeSequential, participants, optFns...)
}

// Concurrent builds a fan-out: every participant receives the task
// simultaneously and the results are collected in registration order.
func Concurrent(participants []core.Agent, optFns ...Option) (*engine.Engine, error) {
	return engine.New(engine.ModeConcurrent, participants, optFns...)
}

// GroupChat builds a policy-driven conversation. Without an explicit
// selection policy participants take turns round-robin until a termination
// condition ends the session.
func GroupChat(participants []core.Agent, optFns ...Option) (*engine.Engine, error) {
	return engine.New(engine.ModeGroupChat, participants, optFns...)
}

// Handoff builds a routed conversation: one agent holds the floor at a time
// and control transfers along the edges of the table.
func Handoff(participants []core.Agent, table *handoff.Table, optFns ...Option) (*engine.Engine, error) {
	optFns = append(optFns, func(o *engine.Options) { o.Handoffs = table })
	return engine.New(engine.ModeHandoff, participants, optFns...)
}

// Magentic builds a manager-planned run: the manager model drafts a plan,
// picks each speaker and decides when the task is done.
func Magentic(participants []core.Agent, manager model.Model, optFns ...Option) (*engine.Engine, error) {
	optFns = append(optFns, func(o *engine.Options) { o.Manager = manager })
	return engine.New(engine.ModeMagentic, participants, optFns...)
}
