package policy

import (
	"context"

	"github.com/convoke-ai/convoke/core"
)

// Rule pairs a predicate over the most recent message with the decision to
// make when it holds.
type Rule struct {
	When func(last core.Message) bool
	Then Decision
}

// RuleBased evaluates a small decision table against the last message's
// metadata: first matching rule wins, the fallback applies otherwise.
type RuleBased struct {
	rules    []Rule
	fallback Decision
}

// NewRuleBased constructs a rule-table policy.
func NewRuleBased(fallback Decision, rules ...Rule) *RuleBased {
	return &RuleBased{rules: rules, fallback: fallback}
}

// Select implements Policy.
func (p *RuleBased) Select(_ context.Context, history []core.Message) (Decision, error) {
	if len(history) == 0 {
		return p.fallback, nil
	}
	last := history[len(history)-1]
	for _, rule := range p.rules {
		if rule.When(last) {
			return rule.Then, nil
		}
	}
	return p.fallback, nil
}
