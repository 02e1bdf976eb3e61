package model

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/convoke-ai/convoke/core"
)

func TestMockModelCannedResponse(t *testing.T) {
	mdl := NewMockModel("test")
	mdl.AddResponse("ping", "pong")

	text, err := Complete(context.Background(), mdl, Request{
		Messages: []core.Message{core.NewUserMessage("ping")},
	})
	require.NoError(t, err)
	assert.Equal(t, "pong", text)
}

func TestMockModelFallback(t *testing.T) {
	mdl := NewMockModel("test")
	mdl.SetFallback(func(req Request) string {
		return "fallback for " + req.Messages[len(req.Messages)-1].Content
	})

	text, err := Complete(context.Background(), mdl, Request{
		Messages: []core.Message{core.NewUserMessage("anything")},
	})
	require.NoError(t, err)
	assert.Equal(t, "fallback for anything", text)
}

func TestMockModelStreaming(t *testing.T) {
	mdl := NewMockModel("test")
	mdl.AddResponse("ping", "pong")

	respCh, errCh := mdl.Generate(context.Background(), Request{
		Messages: []core.Message{core.NewUserMessage("ping")},
		Stream:   true,
	})

	var partials strings.Builder
	var final string
	for resp := range respCh {
		if resp.Partial {
			partials.WriteString(resp.Text)
		} else {
			final = resp.Text
		}
	}
	require.NoError(t, <-errCh)
	assert.Equal(t, "pong", partials.String())
	assert.Equal(t, "pong", final)
}

func TestMockModelEmptyRequest(t *testing.T) {
	mdl := NewMockModel("test")
	_, err := Complete(context.Background(), mdl, Request{})
	assert.Error(t, err)
}

func TestRenderTranscript(t *testing.T) {
	history := []core.Message{
		core.NewUserMessage("task"),
		core.NewAgentMessage("writer", "draft"),
	}
	assert.Equal(t, "user: task\nwriter: draft\n", RenderTranscript(history))
}
