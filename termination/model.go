package termination

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/convoke-ai/convoke/core"
	"github.com/convoke-ai/convoke/model"
)

// booleanResult is the structured verdict requested from the model.
type booleanResult struct {
	Result bool   `json:"result"`
	Reason string `json:"reason"`
}

// ModelDriven delegates the stop decision to a completion call returning a
// boolean-like structured result.
type ModelDriven struct {
	mdl      model.Model
	question string
}

// NewModelDriven constructs a model-driven condition. The question defaults
// to asking whether the task has been completed.
func NewModelDriven(mdl model.Model, question string) *ModelDriven {
	if question == "" {
		question = "Has the task been fully completed by the conversation above?"
	}
	return &ModelDriven{mdl: mdl, question: question}
}

// ShouldTerminate implements Condition.
func (c *ModelDriven) ShouldTerminate(ctx context.Context, history []core.Message) (bool, error) {
	prompt := fmt.Sprintf(
		"Transcript:\n%s\n%s\nAnswer with JSON of the form {\"result\": true|false, \"reason\": \"...\"}.",
		model.RenderTranscript(history), c.question)

	reply, err := model.Complete(ctx, c.mdl, model.Request{
		Messages: []core.Message{core.NewUserMessage(prompt)},
	})
	if err != nil {
		return false, fmt.Errorf("model-driven termination: %w", err)
	}

	var verdict booleanResult
	if err := json.Unmarshal([]byte(extractJSON(reply)), &verdict); err == nil {
		return verdict.Result, nil
	}
	// Tolerate bare affirmatives from models that ignore the format.
	switch strings.ToLower(strings.TrimSpace(reply)) {
	case "true", "yes":
		return true, nil
	}
	return false, nil
}

// extractJSON trims prose around the first top-level JSON object, a common
// model formatting slip.
func extractJSON(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start >= 0 && end > start {
		return s[start : end+1]
	}
	return s
}
