package coze

import (
	"time"

	"github.com/leslieo2/coze2openai/openaiapi"
)

// StreamErrorTitle 是流式 error 载荷中固定的 error 字段。
const StreamErrorTitle = "Unexpected response from Coze API."

// Translation 是单个上游事件的翻译结果：至多一个 chunk 或一个错误载荷，以及是否结束流。
type Translation struct {
	Chunk     *openaiapi.OpenAIChatChunk
	Error     *openaiapi.StreamError
	Terminate bool
}

// Empty 表示该事件不产生任何输出。
func (t Translation) Empty() bool {
	return t.Chunk == nil && t.Error == nil && !t.Terminate
}

// Translator 把上游事件翻译为 OpenAI chat.completion.chunk。
type Translator struct {
	Model string
	// NewID 为每个 chunk 生成新的 id，默认 openaiapi.NewChatCompletionID。
	NewID func() string
	// Now 用于 chunk 的 created 字段，默认 time.Now。
	Now func() time.Time
}

func (t Translator) newID() string {
	if t.NewID != nil {
		return t.NewID()
	}
	return openaiapi.NewChatCompletionID()
}

func (t Translator) now() time.Time {
	if t.Now != nil {
		return t.Now()
	}
	return time.Now()
}

// Translate 按 event 类型翻译：
//   - message：仅 assistant/answer 且内容非空时输出内容 chunk
//   - done：输出 finish_reason=stop 的 chunk 并结束
//   - error：输出错误载荷并结束
//   - 其他：忽略
func (t Translator) Translate(ev Event) Translation {
	switch ev.Kind {
	case EventMessage:
		if !ev.IsAnswer() {
			return Translation{}
		}
		chunk := openaiapi.ToChatChunk(t.newID(), t.Model, ev.Message.Content, nil, t.now())
		return Translation{Chunk: &chunk}
	case EventDone:
		chunk := openaiapi.ToStopChunk(t.newID(), t.Model, t.now())
		return Translation{Chunk: &chunk, Terminate: true}
	case EventError:
		return Translation{Error: NewStreamError(ev.ErrorMessage()), Terminate: true}
	default:
		return Translation{}
	}
}

// NewStreamError 构建流式错误载荷，message 为空时使用 "unknown error"。
func NewStreamError(message string) *openaiapi.StreamError {
	if message == "" {
		message = "unknown error"
	}
	return &openaiapi.StreamError{
		Error: openaiapi.StreamErrorDetail{
			Error:   StreamErrorTitle,
			Message: message,
		},
	}
}
