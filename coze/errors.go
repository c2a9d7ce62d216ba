package coze

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoAnswer 表示非流式响应中没有 assistant/answer 消息。
var ErrNoAnswer = errors.New("No answer message found.")

// StatusError 表示上游返回了非 2xx 状态码。
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	body := strings.TrimSpace(e.Body)
	if body == "" {
		return fmt.Sprintf("coze request failed with status %d", e.StatusCode)
	}
	return fmt.Sprintf("coze request failed with status %d: %s", e.StatusCode, body)
}

// APIError 表示非流式响应的 code/msg 不是成功值。
type APIError struct {
	Code int64
	Msg  string
}

func (e *APIError) Error() string {
	if strings.TrimSpace(e.Msg) != "" {
		return e.Msg
	}
	return fmt.Sprintf("coze api error: code %d", e.Code)
}

// UpstreamError 表示流式过程中收到的 error 事件。
type UpstreamError struct {
	Message string
}

func (e *UpstreamError) Error() string {
	return "coze stream error: " + e.Message
}
