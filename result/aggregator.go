// Package result transforms a terminal session log into the caller-visible
// orchestration result: the final message, a per-participant list, or a
// structured object validated against a JSON Schema.
package result

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/convoke-ai/convoke/core"
)

// Value is the terminal orchestration result. It is an independent copy
// derived from the session log; the session retains the log itself for
// inspection.
type Value struct {
	// Text is the content of the final message (non-concurrent modes).
	Text string
	// Messages holds one message per participant in registration order
	// (concurrent mode).
	Messages []core.Message
	// Structured is the schema-validated parse of Text, when configured.
	Structured any
}

// Aggregator computes the terminal Value from the session log. The engine
// invokes it exactly once, on completion.
type Aggregator interface {
	Aggregate(history []core.Message) (Value, error)
}

// FinalMessage returns the content of the final appended message. Default
// for sequential, group-chat, handoff and planner-driven modes.
type FinalMessage struct{}

// Aggregate implements Aggregator.
func (FinalMessage) Aggregate(history []core.Message) (Value, error) {
	if len(history) == 0 {
		return Value{}, fmt.Errorf("empty session log")
	}
	return Value{Text: history[len(history)-1].Content}, nil
}

// ParticipantList collects each participant's final message in registration
// order, independent of completion order. Default for concurrent mode.
type ParticipantList struct {
	Order []core.AgentID
}

// Aggregate implements Aggregator. Participants without a message in the
// log (possible only under tolerated partial failure) are skipped.
func (p ParticipantList) Aggregate(history []core.Message) (Value, error) {
	var out []core.Message
	for _, id := range p.Order {
		for i := len(history) - 1; i >= 0; i-- {
			if history[i].Author == string(id) {
				out = append(out, history[i])
				break
			}
		}
	}
	return Value{Messages: out}, nil
}

// SchemaValidationError reports a final message that failed to parse or
// validate against the caller-supplied schema. It is surfaced to the caller
// rather than silently retried.
type SchemaValidationError struct {
	Err error
}

// Error implements the error interface.
func (e *SchemaValidationError) Error() string {
	return fmt.Sprintf("final message failed schema validation: %v", e.Err)
}

// Unwrap returns the underlying cause.
func (e *SchemaValidationError) Unwrap() error { return e.Err }

// Schema validates the final message's raw text against a compiled JSON
// Schema and exposes the parsed object as the structured result.
type Schema struct {
	compiled *jsonschema.Schema
}

// NewSchema compiles a raw JSON Schema document.
func NewSchema(name string, raw []byte) (*Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("unmarshal schema: %w", err)
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(name, doc); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	compiled, err := c.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return &Schema{compiled: compiled}, nil
}

// Aggregate implements Aggregator.
func (s *Schema) Aggregate(history []core.Message) (Value, error) {
	if len(history) == 0 {
		return Value{}, fmt.Errorf("empty session log")
	}
	text := history[len(history)-1].Content

	var payload any
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		return Value{}, &SchemaValidationError{Err: err}
	}
	if err := s.compiled.Validate(payload); err != nil {
		return Value{}, &SchemaValidationError{Err: err}
	}
	return Value{Text: text, Structured: payload}, nil
}
