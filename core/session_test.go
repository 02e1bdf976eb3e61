package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionLifecycle(t *testing.T) {
	sess := NewSession(NewID())
	assert.Equal(t, StatusCreated, sess.Status())

	require.NoError(t, sess.Transition(StatusRunning))
	assert.Equal(t, StatusRunning, sess.Status())

	require.NoError(t, sess.Transition(StatusCompleted))
	assert.True(t, sess.Status().Terminal())

	err := sess.Transition(StatusRunning)
	assert.Error(t, err, "terminal sessions cannot be resumed")
	assert.Equal(t, StatusCompleted, sess.Status())
}

func TestSessionLifecycleCancelled(t *testing.T) {
	sess := NewSession(NewID())
	require.NoError(t, sess.Transition(StatusRunning))
	require.NoError(t, sess.Transition(StatusCancelled))

	assert.Error(t, sess.Transition(StatusCompleted))
	assert.Equal(t, StatusCancelled, sess.Status())
}

func TestSessionAppendPreservesOrder(t *testing.T) {
	sess := NewSession(NewID())
	sess.Append(NewUserMessage("first"))
	sess.Append(NewAgentMessage("writer", "second"))
	sess.Append(NewAgentMessage("reviewer", "third"))

	history := sess.History()
	require.Len(t, history, 3)
	assert.Equal(t, "first", history[0].Content)
	assert.Equal(t, "second", history[1].Content)
	assert.Equal(t, "third", history[2].Content)

	last, ok := sess.Last()
	require.True(t, ok)
	assert.Equal(t, "third", last.Content)
}

func TestSessionHistoryIsACopy(t *testing.T) {
	sess := NewSession(NewID())
	sess.Append(NewUserMessage("original"))

	history := sess.History()
	history[0].Content = "mutated"

	fresh := sess.History()
	assert.Equal(t, "original", fresh[0].Content)
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "created", StatusCreated.String())
	assert.Equal(t, "running", StatusRunning.String())
	assert.Equal(t, "completed", StatusCompleted.String())
	assert.Equal(t, "cancelled", StatusCancelled.String())
	assert.Equal(t, "failed", StatusFailed.String())
}
