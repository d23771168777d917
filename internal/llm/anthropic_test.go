package llm

import (
	"testing"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitSystemHoistsSystemPrompt(t *testing.T) {
	system, messages := splitSystem([]ChatMessage{
		{Role: "system", Content: "you are a request router"},
		{Role: "user", Content: "page 2 of tickets"},
		{Role: "assistant", Content: `{"target_page":2}`},
	})

	require.Len(t, system, 1)
	assert.Equal(t, "you are a request router", system[0].Text.Value)

	// The message list carries only user/assistant turns.
	require.Len(t, messages, 2)
	assert.Equal(t, anthropic.MessageParamRoleUser, messages[0].Role.Value)
	assert.Equal(t, anthropic.MessageParamRoleAssistant, messages[1].Role.Value)
}

func TestSplitSystemNoSystemMessages(t *testing.T) {
	system, messages := splitSystem([]ChatMessage{
		{Role: "user", Content: "hello"},
	})

	assert.Empty(t, system)
	require.Len(t, messages, 1)
	assert.Equal(t, anthropic.MessageParamRoleUser, messages[0].Role.Value)
}
