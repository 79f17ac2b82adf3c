package tokens

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/go-go-golems/parlance/pkg/conversation"
)

func TestEstimateText(t *testing.T) {
	count, err := EstimateText("gpt-4", "hello world, how are you doing today?")
	require.NoError(t, err)
	require.Greater(t, count, 0)
}

func TestEstimateTextUnknownModelFallsBack(t *testing.T) {
	count, err := EstimateText("some-future-model", "hello world")
	require.NoError(t, err)
	require.Greater(t, count, 0)
}

func TestEstimateMessages(t *testing.T) {
	messages := []conversation.Message{
		{Role: conversation.RoleSystem, Content: conversation.NewTextContent("be brief")},
		{Role: conversation.RoleUser, Content: conversation.NewTextContent("hi")},
	}

	count, err := EstimateMessages("gpt-4", messages)
	require.NoError(t, err)
	// at least the per-message overhead for both messages
	require.GreaterOrEqual(t, count, 2*messageOverhead)
}
