// Package termination implements the conditions that end a session. A
// condition is evaluated strictly after each new message is appended.
// Conditions compose by logical OR via Any; AND composition is deliberately
// not provided to avoid ambiguity between conflicting policies.
package termination

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/convoke-ai/convoke/core"
)

// Condition decides, after each appended message, whether the session ends.
type Condition interface {
	ShouldTerminate(ctx context.Context, history []core.Message) (bool, error)
}

// Func adapts a function to the Condition interface.
type Func func(ctx context.Context, history []core.Message) (bool, error)

// ShouldTerminate implements Condition.
func (f Func) ShouldTerminate(ctx context.Context, history []core.Message) (bool, error) {
	return f(ctx, history)
}

// Any composes conditions by logical OR: the first condition reporting true
// ends the session. Errors short-circuit.
func Any(conds ...Condition) Condition {
	return Func(func(ctx context.Context, history []core.Message) (bool, error) {
		for _, cond := range conds {
			done, err := cond.ShouldTerminate(ctx, history)
			if err != nil {
				return false, err
			}
			if done {
				return true, nil
			}
		}
		return false, nil
	})
}

// MaxTurns terminates once the given number of agent turns has been reached.
type MaxTurns struct {
	limit int
}

// NewMaxTurns constructs a turn-count condition.
func NewMaxTurns(limit int) *MaxTurns { return &MaxTurns{limit: limit} }

// ShouldTerminate implements Condition.
func (c *MaxTurns) ShouldTerminate(_ context.Context, history []core.Message) (bool, error) {
	turns := 0
	for _, msg := range history {
		if msg.Role == core.RoleAssistant {
			turns++
		}
	}
	return turns >= c.limit, nil
}

// KeywordThreshold terminates once a minimum number of distinct designated
// keywords appear across a trailing window of recent messages. Matching is
// case-insensitive substring search over natural text and therefore
// inherently approximate: false positives (a keyword quoted in passing) and
// false negatives (paraphrases) are possible by construction. A keyword
// counts at most once no matter how often or where in the window it occurs.
type KeywordThreshold struct {
	keywords    []string
	minDistinct int
	window      int
}

// NewKeywordThreshold constructs a keyword condition requiring minDistinct
// of the given keywords within the last window messages.
func NewKeywordThreshold(keywords []string, minDistinct, window int) *KeywordThreshold {
	return &KeywordThreshold{keywords: keywords, minDistinct: minDistinct, window: window}
}

// ShouldTerminate implements Condition.
func (c *KeywordThreshold) ShouldTerminate(_ context.Context, history []core.Message) (bool, error) {
	start := len(history) - c.window
	if start < 0 {
		start = 0
	}
	seen := 0
	for _, kw := range c.keywords {
		lowered := strings.ToLower(kw)
		for _, msg := range history[start:] {
			if strings.Contains(strings.ToLower(msg.Content), lowered) {
				seen++
				break
			}
		}
	}
	return seen >= c.minDistinct, nil
}

// ScoreThreshold parses the last message as a structured score object and
// terminates once the score reaches a configured bound. A last message that
// does not parse simply does not terminate; it is not an error.
type ScoreThreshold struct {
	field string
	bound float64
}

// NewScoreThreshold constructs a score condition on the given JSON field.
func NewScoreThreshold(field string, bound float64) *ScoreThreshold {
	if field == "" {
		field = "score"
	}
	return &ScoreThreshold{field: field, bound: bound}
}

// ShouldTerminate implements Condition.
func (c *ScoreThreshold) ShouldTerminate(_ context.Context, history []core.Message) (bool, error) {
	if len(history) == 0 {
		return false, nil
	}
	var payload map[string]json.RawMessage
	if err := json.Unmarshal([]byte(history[len(history)-1].Content), &payload); err != nil {
		return false, nil
	}
	raw, ok := payload[c.field]
	if !ok {
		return false, nil
	}
	var score float64
	if err := json.Unmarshal(raw, &score); err != nil {
		return false, nil
	}
	return score >= c.bound, nil
}
