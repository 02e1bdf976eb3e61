package convoke_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	convoke "github.com/convoke-ai/convoke"
	"github.com/convoke-ai/convoke/agent"
	"github.com/convoke-ai/convoke/core"
	"github.com/convoke-ai/convoke/engine"
	"github.com/convoke-ai/convoke/handoff"
	"github.com/convoke-ai/convoke/model"
	"github.com/convoke-ai/convoke/result"
	"github.com/convoke-ai/convoke/termination"
)

func echoAgent(id core.AgentID, prefix string) core.Agent {
	return agent.NewFuncAgent(id, "echoes with a prefix",
		func(_ context.Context, history []core.Message) (string, error) {
			return prefix + ": " + history[len(history)-1].Content, nil
		})
}

func TestSequentialFacade(t *testing.T) {
	orch, err := convoke.Sequential([]core.Agent{
		echoAgent("first", "a"),
		echoAgent("second", "b"),
	})
	require.NoError(t, err)
	assert.Equal(t, engine.ModeSequential, orch.Mode())

	h, err := orch.Invoke(context.Background(), "go")
	require.NoError(t, err)
	value, err := h.Get(5 * time.Second)
	require.NoError(t, err)
	assert.Equal(t, "b: a: go", value.Text)
}

func TestGroupChatFacadeWithModelAgents(t *testing.T) {
	mdl := model.NewMockModel("chat")
	mdl.SetFallback(func(req model.Request) string {
		if strings.Contains(req.Instructions, "review") {
			return "approved"
		}
		return "a draft"
	})

	writer := agent.NewModelAgent("writer", mdl,
		agent.WithInstructions("You draft copy."))
	reviewer := agent.NewModelAgent("reviewer", mdl,
		agent.WithInstructions("You review drafts."))

	orch, err := convoke.GroupChat([]core.Agent{writer, reviewer},
		convoke.WithTermination(termination.NewKeywordThreshold([]string{"approved"}, 1, 1)),
	)
	require.NoError(t, err)

	h, err := orch.Invoke(context.Background(), "write a slogan")
	require.NoError(t, err)
	value, err := h.Get(5 * time.Second)
	require.NoError(t, err)
	assert.Equal(t, "approved", value.Text)
}

func TestHandoffFacade(t *testing.T) {
	tbl := handoff.NewTable().
		Add("triage", "support", "technical questions")

	triage := agent.NewFuncAgent("triage", "routes requests",
		func(context.Context, []core.Message) (string, error) {
			return "routing\nHANDOFF: support", nil
		})
	support := agent.NewFuncAgent("support", "answers questions",
		func(context.Context, []core.Message) (string, error) {
			return "here is the fix", nil
		})

	orch, err := convoke.Handoff([]core.Agent{triage, support}, tbl)
	require.NoError(t, err)

	h, err := orch.Invoke(context.Background(), "my app crashes")
	require.NoError(t, err)
	value, err := h.Get(5 * time.Second)
	require.NoError(t, err)
	assert.Equal(t, "here is the fix", value.Text)
}

func TestConcurrentFacadeWithSchema(t *testing.T) {
	schema, err := result.NewSchema("verdict.json", []byte(`{
		"type": "object",
		"required": ["verdict"],
		"properties": {"verdict": {"type": "string"}}
	}`))
	require.NoError(t, err)

	judge := agent.NewFuncAgent("judge", "returns a structured verdict",
		func(context.Context, []core.Message) (string, error) {
			return `{"verdict": "pass"}`, nil
		})

	orch, err := convoke.Concurrent([]core.Agent{judge},
		convoke.WithAggregator(schema))
	require.NoError(t, err)

	h, err := orch.Invoke(context.Background(), "evaluate")
	require.NoError(t, err)
	value, err := h.Get(5 * time.Second)
	require.NoError(t, err)

	structured, ok := value.Structured.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "pass", structured["verdict"])
}
