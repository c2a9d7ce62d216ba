package openaiapi

import (
	"time"

	"github.com/google/uuid"
)

// ==================== OpenAI 兼容数据结构 ====================

const (
	ObjectChatCompletion      = "chat.completion"
	ObjectChatCompletionChunk = "chat.completion.chunk"

	FinishReasonStop = "stop"
)

// OpenAIMessage OpenAI 消息格式。Content 可能是字符串，也可能是 content part 数组。
type OpenAIMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
	Name    string `json:"name,omitempty"`
}

// OpenAIChatRequest OpenAI 聊天请求格式。
type OpenAIChatRequest struct {
	Model       string          `json:"model"`
	Messages    []OpenAIMessage `json:"messages"`
	User        string          `json:"user,omitempty"`
	Stream      bool            `json:"stream"`
	MaxTokens   *int            `json:"max_tokens,omitempty"`
	Temperature *float64        `json:"temperature,omitempty"`
	TopP        *float64        `json:"top_p,omitempty"`
}

// OpenAIUsage OpenAI token 使用统计。
type OpenAIUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// OpenAIChoice OpenAI 非流式响应选项。
type OpenAIChoice struct {
	Index        int           `json:"index"`
	Message      OpenAIMessage `json:"message"`
	Logprobs     any           `json:"logprobs"`
	FinishReason *string       `json:"finish_reason"`
}

// OpenAIDelta OpenAI 流式响应的 delta。结束 chunk 的 delta 序列化为 {}。
type OpenAIDelta struct {
	Content *string `json:"content,omitempty"` // 使用指针以便 omitempty 正确工作
}

// OpenAIChunkChoice OpenAI 流式响应选项。
type OpenAIChunkChoice struct {
	Index        int         `json:"index"`
	Delta        OpenAIDelta `json:"delta"`
	FinishReason *string     `json:"finish_reason"`
}

// OpenAIChatCompletion OpenAI 非流式响应。
type OpenAIChatCompletion struct {
	ID                string         `json:"id"`
	Object            string         `json:"object"`
	Created           int64          `json:"created"`
	Model             string         `json:"model"`
	Choices           []OpenAIChoice `json:"choices"`
	Usage             OpenAIUsage    `json:"usage"`
	SystemFingerprint string         `json:"system_fingerprint"`
}

// OpenAIChatChunk OpenAI 流式响应块。
type OpenAIChatChunk struct {
	ID      string              `json:"id"`
	Object  string              `json:"object"`
	Created int64               `json:"created"`
	Model   string              `json:"model"`
	Choices []OpenAIChunkChoice `json:"choices"`
}

// OpenAIModel OpenAI 模型信息。
type OpenAIModel struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Created int64  `json:"created"`
	OwnedBy string `json:"owned_by"`
}

// OpenAIModelList OpenAI 模型列表响应。
type OpenAIModelList struct {
	Object string        `json:"object"`
	Data   []OpenAIModel `json:"data"`
}

// StreamError 是流式过程中上游返回 error 事件时，写入 SSE 的错误载荷。
// 它与普通 chunk 结构不同：{"error":{"error":"...","message":"..."}}。
type StreamError struct {
	Error StreamErrorDetail `json:"error"`
}

type StreamErrorDetail struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// ==================== 辅助函数 ====================

// NewChatCompletionID 生成聊天完成 ID，每次调用都不同。
func NewChatCompletionID() string {
	return "chatcmpl-" + uuid.NewString()
}

// ToChatChunk 创建流式响应块。content 为空时 delta 序列化为 {}。
func ToChatChunk(id, model, content string, finishReason *string, now time.Time) OpenAIChatChunk {
	delta := OpenAIDelta{}
	if content != "" {
		delta.Content = &content
	}
	return OpenAIChatChunk{
		ID:      id,
		Object:  ObjectChatCompletionChunk,
		Created: now.Unix(),
		Model:   model,
		Choices: []OpenAIChunkChoice{
			{
				Index:        0,
				Delta:        delta,
				FinishReason: finishReason,
			},
		},
	}
}

// ToStopChunk 创建 finish_reason 为 stop 的结束块。
func ToStopChunk(id, model string, now time.Time) OpenAIChatChunk {
	finishReason := FinishReasonStop
	return ToChatChunk(id, model, "", &finishReason, now)
}

// ToChatCompletion 创建非流式响应。
func ToChatCompletion(id, model, content string, usage OpenAIUsage, systemFingerprint string, now time.Time) OpenAIChatCompletion {
	finishReason := FinishReasonStop
	return OpenAIChatCompletion{
		ID:      id,
		Object:  ObjectChatCompletion,
		Created: now.Unix(),
		Model:   model,
		Choices: []OpenAIChoice{
			{
				Index: 0,
				Message: OpenAIMessage{
					Role:    "assistant",
					Content: content,
				},
				FinishReason: &finishReason,
			},
		},
		Usage:             usage,
		SystemFingerprint: systemFingerprint,
	}
}
