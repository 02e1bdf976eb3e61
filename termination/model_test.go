package termination

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/convoke-ai/convoke/core"
	"github.com/convoke-ai/convoke/model"
)

func TestModelDrivenTermination(t *testing.T) {
	ctx := context.Background()
	history := []core.Message{core.NewAgentMessage("writer", "final draft")}

	mdl := model.NewMockModel("judge")
	mdl.SetFallback(func(model.Request) string {
		return `{"result": true, "reason": "draft approved"}`
	})
	done, err := NewModelDriven(mdl, "").ShouldTerminate(ctx, history)
	require.NoError(t, err)
	assert.True(t, done)

	mdl.SetFallback(func(model.Request) string {
		return `Here is my verdict: {"result": false, "reason": "needs work"} hope that helps`
	})
	done, err = NewModelDriven(mdl, "").ShouldTerminate(ctx, history)
	require.NoError(t, err)
	assert.False(t, done, "JSON is extracted from surrounding prose")

	mdl.SetFallback(func(model.Request) string { return "yes" })
	done, err = NewModelDriven(mdl, "").ShouldTerminate(ctx, history)
	require.NoError(t, err)
	assert.True(t, done, "bare affirmatives are tolerated")
}
