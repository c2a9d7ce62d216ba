package coze

import "strings"

const (
	EventMessage = "message"
	EventDone    = "done"
	EventError   = "error"

	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"

	MessageTypeAnswer = "answer"

	ContentTypeText = "text"
)

// HistoryMessage 是 chat_history 中的一条消息。
type HistoryMessage struct {
	Role        string `json:"role"`
	Content     string `json:"content"`
	ContentType string `json:"content_type"`
}

// ChatRequest 是 /open_api/v2/chat 的请求体。
// stream 字段由 Client 按调用的 Chat/Stream 方法写入请求体，Stream 字段本身不参与序列化。
type ChatRequest struct {
	Query          string           `json:"query"`
	Stream         bool             `json:"-"`
	ConversationID string           `json:"conversation_id"`
	User           string           `json:"user"`
	BotID          string           `json:"bot_id"`
	ChatHistory    []HistoryMessage `json:"chat_history"`
}

// Message 是上游返回的消息（流式 message 事件或非流式 messages 数组元素）。
type Message struct {
	Role        string `json:"role"`
	Type        string `json:"type"`
	Content     string `json:"content"`
	ContentType string `json:"content_type"`
}

// ErrorInformation 是 error 事件携带的错误详情。
type ErrorInformation struct {
	Code   int64  `json:"code"`
	ErrMsg string `json:"err_msg"`
}

// Event 是一条解码后的上游 SSE 事件。
type Event struct {
	// Kind 对应上游的 event 字段：message/done/error，其他值向前兼容地忽略。
	Kind             string
	Message          *Message
	ErrorInformation *ErrorInformation
	// Code/Msg 是 error 事件缺少 error_information 时的顶层 code 与 message 字段原文。
	Code           string
	Msg            string
	ConversationID string
	// Raw 是 data: 之后的原始 JSON。
	Raw []byte
}

// IsAnswer 判断是否为需要下发给调用方的 assistant answer 片段。
func (e Event) IsAnswer() bool {
	return e.Kind == EventMessage &&
		e.Message != nil &&
		e.Message.Role == RoleAssistant &&
		e.Message.Type == MessageTypeAnswer &&
		e.Message.Content != ""
}

// ErrorMessage 返回 error 事件的可读错误信息：优先 error_information.err_msg，
// 否则由顶层 code 与 message 拼接。
func (e Event) ErrorMessage() string {
	if e.ErrorInformation != nil && e.ErrorInformation.ErrMsg != "" {
		return e.ErrorInformation.ErrMsg
	}
	return strings.TrimSpace(e.Code + " " + e.Msg)
}
