package model

import (
	"context"
	"fmt"
	"strings"

	"github.com/convoke-ai/convoke/core"
)

// Request captures the normalized model input produced by agents and
// model-driven policies.
type Request struct {
	Instructions string         `json:"instructions"` // system instructions
	Messages     []core.Message `json:"messages"`     // conversation history
	Stream       bool           `json:"stream,omitempty"`
}

// Response is a (partial or final) chunk emitted by a model.
type Response struct {
	Partial      bool   `json:"partial"`
	Text         string `json:"text"`
	FinishReason string `json:"finish_reason,omitempty"` // "stop", "length", etc.
}

// Info contains metadata about a model implementation.
type Info struct {
	Name     string `json:"name"`
	Provider string `json:"provider"` // "openai", "anthropic", "mock", etc.
}

// Model is the minimal interface required to drive text generation. Generate
// returns a response channel (partial chunks when Stream is set, always
// terminated by a final response) and an error channel carrying at most one
// terminal error; both are closed when generation completes.
type Model interface {
	Generate(ctx context.Context, req Request) (<-chan Response, <-chan error)
	Info() Info
}

// Complete drains a non-streaming Generate call and returns the final text.
// Convenience for callers that have no use for incremental delivery, such as
// model-driven selection and termination policies.
func Complete(ctx context.Context, m Model, req Request) (string, error) {
	req.Stream = false
	respCh, errCh := m.Generate(ctx, req)
	var final string
	for resp := range respCh {
		if !resp.Partial {
			final = resp.Text
		}
	}
	if err := <-errCh; err != nil {
		return "", err
	}
	return final, nil
}

// MockModel is a lightweight in-memory Model useful for tests and examples.
// Responses are keyed by the text of the last message in the request; a
// fallback function handles everything else.
type MockModel struct {
	info      Info
	responses map[string]string
	fallback  func(req Request) string
}

// NewMockModel constructs a MockModel.
func NewMockModel(name string) *MockModel {
	return &MockModel{
		info:      Info{Name: name, Provider: "mock"},
		responses: make(map[string]string),
	}
}

// AddResponse registers a deterministic canned completion for an input.
func (m *MockModel) AddResponse(input, response string) { m.responses[input] = response }

// SetFallback registers a function invoked when no canned response matches.
func (m *MockModel) SetFallback(fn func(req Request) string) { m.fallback = fn }

// Generate implements Model; emits optional streaming rune chunks then the
// final response.
func (m *MockModel) Generate(ctx context.Context, req Request) (<-chan Response, <-chan error) {
	respCh := make(chan Response, 16)
	errCh := make(chan error, 1)

	go func() {
		defer close(respCh)
		defer close(errCh)
		if len(req.Messages) == 0 {
			errCh <- fmt.Errorf("no messages provided")
			return
		}
		input := req.Messages[len(req.Messages)-1].Content
		full, ok := m.responses[input]
		if !ok {
			if m.fallback != nil {
				full = m.fallback(req)
			} else {
				full = fmt.Sprintf("Mock response to: %s", input)
			}
		}
		if req.Stream {
			for _, r := range full {
				select {
				case <-ctx.Done():
					errCh <- ctx.Err()
					return
				case respCh <- Response{Partial: true, Text: string(r)}:
				}
			}
		}
		respCh <- Response{Text: full, FinishReason: "stop"}
	}()
	return respCh, errCh
}

// Info implements Model.
func (m *MockModel) Info() Info { return m.info }

// RenderTranscript formats a history as a name-attributed transcript for
// prompts that need speaker identity (selection, planning, termination).
func RenderTranscript(history []core.Message) string {
	var b strings.Builder
	for _, msg := range history {
		b.WriteString(msg.Author)
		b.WriteString(": ")
		b.WriteString(msg.Content)
		b.WriteString("\n")
	}
	return b.String()
}
