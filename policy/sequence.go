package policy

import (
	"context"

	"github.com/convoke-ai/convoke/core"
)

// FixedOrder cycles through a static participant list, advancing by one on
// each call. By default the list is consumed exactly once and the policy
// then terminates; configure wrapping to cycle indefinitely.
type FixedOrder struct {
	order []core.AgentID
	wrap  bool
	taken int
}

// FixedOrderOption customizes a FixedOrder policy.
type FixedOrderOption func(*FixedOrder)

// WithWrap makes the order restart from the beginning once exhausted
// instead of terminating.
func WithWrap() FixedOrderOption {
	return func(p *FixedOrder) { p.wrap = true }
}

// NewFixedOrder constructs a fixed-order policy over the given participants.
func NewFixedOrder(order []core.AgentID, optFns ...FixedOrderOption) *FixedOrder {
	p := &FixedOrder{order: order}
	for _, fn := range optFns {
		fn(p)
	}
	return p
}

// Select implements Policy.
func (p *FixedOrder) Select(_ context.Context, _ []core.Message) (Decision, error) {
	if len(p.order) == 0 {
		return Terminate("no participants configured"), nil
	}
	if !p.wrap && p.taken >= len(p.order) {
		return Terminate("participant list exhausted"), nil
	}
	next := p.order[p.taken%len(p.order)]
	p.taken++
	return NextAgent(next), nil
}

// RoundRobin cycles through participants with a hard cap on total agent
// turns. Once the cap is reached the policy terminates the session; the cap
// is also exposed for termination conditions that want to consult it.
type RoundRobin struct {
	order     []core.AgentID
	maxRounds int
	taken     int

	// requestInput, when set, is consulted before each selection; a true
	// result suspends the loop for human input unless the human already
	// spoke last.
	requestInput func(history []core.Message) bool
}

// RoundRobinOption customizes a RoundRobin policy.
type RoundRobinOption func(*RoundRobin)

// WithInputRequest installs a predicate that can interject a human-input
// turn between agent turns, e.g. after a particular reviewer has spoken.
func WithInputRequest(fn func(history []core.Message) bool) RoundRobinOption {
	return func(p *RoundRobin) { p.requestInput = fn }
}

// NewRoundRobin constructs a round-robin policy capped at maxRounds total
// agent turns.
func NewRoundRobin(order []core.AgentID, maxRounds int, optFns ...RoundRobinOption) *RoundRobin {
	p := &RoundRobin{order: order, maxRounds: maxRounds}
	for _, fn := range optFns {
		fn(p)
	}
	return p
}

// MaxRounds returns the configured turn cap.
func (p *RoundRobin) MaxRounds() int { return p.maxRounds }

// TurnsTaken returns the number of agent turns scheduled so far.
func (p *RoundRobin) TurnsTaken() int { return p.taken }

// Select implements Policy. Human-input turns do not count against the
// round cap.
func (p *RoundRobin) Select(_ context.Context, history []core.Message) (Decision, error) {
	if len(p.order) == 0 {
		return Terminate("no participants configured"), nil
	}
	if p.requestInput != nil && len(history) > 0 {
		// Only interject after an agent reply so the human is not asked
		// twice in a row.
		if last := history[len(history)-1]; last.Role != core.RoleUser && p.requestInput(history) {
			return RequestHumanInput("input check requested user turn"), nil
		}
	}
	if p.taken >= p.maxRounds {
		return Terminate("round cap reached"), nil
	}
	next := p.order[p.taken%len(p.order)]
	p.taken++
	return NextAgent(next), nil
}
