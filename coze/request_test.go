package coze

import (
	"encoding/json"
	"testing"

	"github.com/leslieo2/coze2openai/openaiapi"
	"github.com/stretchr/testify/require"
)

func TestNewChatRequest_HistoryAndQuery(t *testing.T) {
	messages := []openaiapi.OpenAIMessage{
		{Role: "system", Content: "be nice"},
		{Role: "user", Content: "hi"},
		{Role: "assistant", Content: "hello"},
		{Role: "user", Content: []interface{}{
			map[string]interface{}{"type": "text", "text": "how "},
			map[string]interface{}{"type": "image_url", "image_url": "x"},
			map[string]interface{}{"type": "input_text", "text": map[string]interface{}{"value": "are you"}},
		}},
	}

	req, err := NewChatRequest(messages, "bot_1", "", true)
	require.NoError(t, err)
	require.Equal(t, "how are you", req.Query)
	require.True(t, req.Stream)
	require.Equal(t, "bot_1", req.BotID)
	require.Equal(t, "apiuser", req.User)
	require.Empty(t, req.ConversationID)
	require.Equal(t, []HistoryMessage{
		{Role: "assistant", Content: "be nice", ContentType: "text"},
		{Role: "user", Content: "hi", ContentType: "text"},
		{Role: "assistant", Content: "hello", ContentType: "text"},
	}, req.ChatHistory)

	data, err := json.Marshal(req)
	require.NoError(t, err)
	require.JSONEq(t, `{
  "query":"how are you",
  "conversation_id":"",
  "user":"apiuser",
  "bot_id":"bot_1",
  "chat_history":[
    {"role":"assistant","content":"be nice","content_type":"text"},
    {"role":"user","content":"hi","content_type":"text"},
    {"role":"assistant","content":"hello","content_type":"text"}
  ]
}`, string(data))
}

func TestNewChatRequest_SingleMessage(t *testing.T) {
	req, err := NewChatRequest([]openaiapi.OpenAIMessage{{Role: "user", Content: "ping"}}, "bot", "alice", false)
	require.NoError(t, err)
	require.Equal(t, "ping", req.Query)
	require.Equal(t, "alice", req.User)
	require.NotNil(t, req.ChatHistory)
	require.Empty(t, req.ChatHistory)
}

func TestNewChatRequest_Errors(t *testing.T) {
	_, err := NewChatRequest(nil, "bot", "", false)
	require.Error(t, err)

	_, err = NewChatRequest([]openaiapi.OpenAIMessage{{Role: "user", Content: 42.0}}, "bot", "", false)
	require.Error(t, err)
}
