package termination

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/convoke-ai/convoke/core"
)

func agentMsgs(contents ...string) []core.Message {
	out := make([]core.Message, 0, len(contents))
	for i, c := range contents {
		out = append(out, core.NewAgentMessage(core.AgentID(fmt.Sprintf("a%d", i)), c))
	}
	return out
}

func TestMaxTurns(t *testing.T) {
	cond := NewMaxTurns(3)
	ctx := context.Background()

	history := []core.Message{core.NewUserMessage("task")}
	history = append(history, agentMsgs("one", "two")...)
	done, err := cond.ShouldTerminate(ctx, history)
	require.NoError(t, err)
	assert.False(t, done, "user messages do not count as agent turns")

	history = append(history, agentMsgs("three")...)
	done, err = cond.ShouldTerminate(ctx, history)
	require.NoError(t, err)
	assert.True(t, done)
}

func TestKeywordThresholdDistinctInWindow(t *testing.T) {
	cond := NewKeywordThreshold([]string{"approved", "shippable"}, 2, 3)
	ctx := context.Background()

	// Same keyword repeated counts once.
	done, err := cond.ShouldTerminate(ctx, agentMsgs("approved", "approved", "approved"))
	require.NoError(t, err)
	assert.False(t, done)

	// Two distinct keywords anywhere in the window, any order.
	done, err = cond.ShouldTerminate(ctx, agentMsgs("looks shippable to me", "minor nit", "APPROVED!"))
	require.NoError(t, err)
	assert.True(t, done)

	// A keyword that scrolled out of the trailing window no longer counts.
	done, err = cond.ShouldTerminate(ctx, agentMsgs("shippable", "filler", "filler", "approved"))
	require.NoError(t, err)
	assert.False(t, done)
}

func TestKeywordThresholdSecondDistinctKeywordTriggers(t *testing.T) {
	// Distinct keywords anywhere in the window; repeats of one keyword,
	// even within a single message, never satisfy the threshold.
	cond := NewKeywordThreshold([]string{"alpha", "beta", "gamma"}, 2, 3)
	ctx := context.Background()

	history := agentMsgs("alpha alpha alpha", "still just alpha")
	done, err := cond.ShouldTerminate(ctx, history)
	require.NoError(t, err)
	assert.False(t, done)

	history = append(history, agentMsgs("and now beta")...)
	done, err = cond.ShouldTerminate(ctx, history)
	require.NoError(t, err)
	assert.True(t, done, "terminates on the turn the second distinct keyword first appears")
}

func TestScoreThreshold(t *testing.T) {
	cond := NewScoreThreshold("score", 8)
	ctx := context.Background()

	done, err := cond.ShouldTerminate(ctx, agentMsgs(`{"score": 9, "feedback": "great"}`))
	require.NoError(t, err)
	assert.True(t, done)

	done, err = cond.ShouldTerminate(ctx, agentMsgs(`{"score": 5}`))
	require.NoError(t, err)
	assert.False(t, done)

	// Unparseable last message is not an error, just not terminal.
	done, err = cond.ShouldTerminate(ctx, agentMsgs("plain prose"))
	require.NoError(t, err)
	assert.False(t, done)
}

func TestAnyComposesByOr(t *testing.T) {
	never := Func(func(context.Context, []core.Message) (bool, error) { return false, nil })
	always := Func(func(context.Context, []core.Message) (bool, error) { return true, nil })

	done, err := Any(never, always).ShouldTerminate(context.Background(), nil)
	require.NoError(t, err)
	assert.True(t, done)

	done, err = Any(never, never).ShouldTerminate(context.Background(), nil)
	require.NoError(t, err)
	assert.False(t, done)
}

func TestAnyShortCircuitsOnError(t *testing.T) {
	boom := Func(func(context.Context, []core.Message) (bool, error) {
		return false, fmt.Errorf("boom")
	})
	always := Func(func(context.Context, []core.Message) (bool, error) { return true, nil })

	_, err := Any(boom, always).ShouldTerminate(context.Background(), nil)
	assert.Error(t, err)
}
