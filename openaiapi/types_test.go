package openaiapi

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewChatCompletionID_Unique(t *testing.T) {
	a := NewChatCompletionID()
	b := NewChatCompletionID()
	require.True(t, strings.HasPrefix(a, "chatcmpl-"))
	require.NotEqual(t, a, b)
}

func TestToChatChunk_JSON(t *testing.T) {
	now := time.Unix(1700000000, 0)

	data, err := json.Marshal(ToChatChunk("chatcmpl-1", "coze", "Hi", nil, now))
	require.NoError(t, err)
	require.Equal(t,
		`{"id":"chatcmpl-1","object":"chat.completion.chunk","created":1700000000,"model":"coze","choices":[{"index":0,"delta":{"content":"Hi"},"finish_reason":null}]}`,
		string(data))

	data, err = json.Marshal(ToStopChunk("chatcmpl-2", "coze", now))
	require.NoError(t, err)
	require.Equal(t,
		`{"id":"chatcmpl-2","object":"chat.completion.chunk","created":1700000000,"model":"coze","choices":[{"index":0,"delta":{},"finish_reason":"stop"}]}`,
		string(data))
}

func TestToChatCompletion_JSON(t *testing.T) {
	completion := ToChatCompletion("chatcmpl-1", "coze", "Hi", OpenAIUsage{PromptTokens: 1, CompletionTokens: 2, TotalTokens: 3}, "fp_x", time.Unix(1, 0))

	data, err := json.Marshal(completion)
	require.NoError(t, err)
	require.JSONEq(t, `{
		"id":"chatcmpl-1","object":"chat.completion","created":1,"model":"coze",
		"choices":[{"index":0,"message":{"role":"assistant","content":"Hi"},"logprobs":null,"finish_reason":"stop"}],
		"usage":{"prompt_tokens":1,"completion_tokens":2,"total_tokens":3},
		"system_fingerprint":"fp_x"}`, string(data))
}
