package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewUserMessage(t *testing.T) {
	msg := NewUserMessage("hello")
	assert.Equal(t, UserAuthor, msg.Author)
	assert.Equal(t, RoleUser, msg.Role)
	assert.Equal(t, "hello", msg.Content)
	assert.NotEmpty(t, msg.ID)
	assert.False(t, msg.Timestamp.IsZero())
}

func TestNewAgentMessage(t *testing.T) {
	msg := NewAgentMessage("triage", "how can I help?")
	assert.Equal(t, "triage", msg.Author)
	assert.Equal(t, RoleAssistant, msg.Role)
	assert.False(t, msg.DeclaresTransfer())

	msg.Transfer = "refunds"
	assert.True(t, msg.DeclaresTransfer())
}

func TestNewIDUnique(t *testing.T) {
	assert.NotEqual(t, NewID(), NewID())
}
