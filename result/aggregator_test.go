package result

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/convoke-ai/convoke/core"
)

func TestFinalMessage(t *testing.T) {
	history := []core.Message{
		core.NewUserMessage("task"),
		core.NewAgentMessage("writer", "draft"),
		core.NewAgentMessage("editor", "polished"),
	}
	value, err := FinalMessage{}.Aggregate(history)
	require.NoError(t, err)
	assert.Equal(t, "polished", value.Text)

	_, err = FinalMessage{}.Aggregate(nil)
	assert.Error(t, err)
}

func TestParticipantListRegistrationOrder(t *testing.T) {
	// Log order differs from registration order; the result must follow
	// registration order regardless.
	history := []core.Message{
		core.NewUserMessage("task"),
		core.NewAgentMessage("b", "from b"),
		core.NewAgentMessage("a", "from a"),
	}
	value, err := ParticipantList{Order: []core.AgentID{"a", "b"}}.Aggregate(history)
	require.NoError(t, err)
	require.Len(t, value.Messages, 2)
	assert.Equal(t, "from a", value.Messages[0].Content)
	assert.Equal(t, "from b", value.Messages[1].Content)
}

func TestParticipantListSkipsMissing(t *testing.T) {
	history := []core.Message{core.NewAgentMessage("a", "from a")}
	value, err := ParticipantList{Order: []core.AgentID{"a", "b"}}.Aggregate(history)
	require.NoError(t, err)
	require.Len(t, value.Messages, 1)
	assert.Equal(t, "from a", value.Messages[0].Content)
}

const sentimentSchema = `{
	"type": "object",
	"required": ["sentiment", "score"],
	"properties": {
		"sentiment": {"type": "string", "enum": ["positive", "neutral", "negative"]},
		"score": {"type": "number", "minimum": 0, "maximum": 1}
	}
}`

func TestSchemaAggregate(t *testing.T) {
	s, err := NewSchema("sentiment.json", []byte(sentimentSchema))
	require.NoError(t, err)

	history := []core.Message{
		core.NewAgentMessage("analyst", `{"sentiment": "positive", "score": 0.92}`),
	}
	value, err := s.Aggregate(history)
	require.NoError(t, err)
	assert.JSONEq(t, `{"sentiment": "positive", "score": 0.92}`, value.Text)

	structured, ok := value.Structured.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "positive", structured["sentiment"])
}

func TestSchemaAggregateRejectsInvalid(t *testing.T) {
	s, err := NewSchema("sentiment.json", []byte(sentimentSchema))
	require.NoError(t, err)

	var valErr *SchemaValidationError

	_, err = s.Aggregate([]core.Message{core.NewAgentMessage("analyst", "not json at all")})
	require.True(t, errors.As(err, &valErr))

	_, err = s.Aggregate([]core.Message{core.NewAgentMessage("analyst", `{"sentiment": "ecstatic", "score": 2}`)})
	require.True(t, errors.As(err, &valErr))
}

func TestNewSchemaRejectsMalformedDocument(t *testing.T) {
	_, err := NewSchema("bad.json", []byte(`{"type": `))
	assert.Error(t, err)
}
