package core

import (
	"time"

	"github.com/google/uuid"
)

// Role classifies a message for conversation history purposes.
type Role string

const (
	// RoleUser marks messages originating from the caller or a human-input
	// collaborator.
	RoleUser Role = "user"
	// RoleAssistant marks messages produced by an agent.
	RoleAssistant Role = "assistant"
	// RoleTool marks auxiliary messages (tool output, manager plans).
	RoleTool Role = "tool"
)

// AgentID uniquely names an agent within a session. It is the key for
// handoff edges and selection decisions.
type AgentID string

// UserAuthor is the reserved author value for user-originated messages.
const UserAuthor = "user"

// Message is the immutable unit of exchange in a session. After it is
// appended to a session log it must never be mutated; insertion order is the
// sole ordering guarantee.
type Message struct {
	ID        string    `json:"id"`
	Author    string    `json:"author"` // AgentID or UserAuthor
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Transfer  string    `json:"transfer,omitempty"` // declared handoff target, verbatim
	Timestamp time.Time `json:"timestamp"`
}

// NewMessage constructs a message with a fresh ID and UTC timestamp.
func NewMessage(author string, role Role, content string) Message {
	return Message{
		ID:        NewID(),
		Author:    author,
		Role:      role,
		Content:   content,
		Timestamp: time.Now().UTC(),
	}
}

// NewUserMessage is a convenience wrapper for a user-authored text message.
func NewUserMessage(content string) Message {
	return NewMessage(UserAuthor, RoleUser, content)
}

// NewAgentMessage is a convenience wrapper for an agent-authored message.
func NewAgentMessage(author AgentID, content string) Message {
	return NewMessage(string(author), RoleAssistant, content)
}

// DeclaresTransfer reports whether the message carries a handoff declaration.
func (m Message) DeclaresTransfer() bool { return m.Transfer != "" }

// Chunk is an incremental fragment of an agent response delivered to a
// streaming observer. Final marks the fragment that completes the turn.
type Chunk struct {
	Author string `json:"author"`
	Delta  string `json:"delta"`
	Final  bool   `json:"final"`
}

// NewID generates a unique identifier for messages, sessions and handles.
func NewID() string { return uuid.NewString() }
