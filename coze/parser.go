package coze

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

const dataPrefix = "data:"

// MaxEventBytes 是单个 data: 载荷的上限，超过时视为致命错误。
const MaxEventBytes = MaxLineBytes

type ParseKind int

const (
	// ParseSkip 表示该行不是事件（非 data: 行、非 JSON 对象、JSON 解码失败），应忽略并继续。
	ParseSkip ParseKind = iota
	// ParseOK 表示成功解码出一个 Event。
	ParseOK
	// ParseFatal 表示该行无法继续处理，会话应以错误结束。
	ParseFatal
)

func (k ParseKind) String() string {
	switch k {
	case ParseOK:
		return "ok"
	case ParseSkip:
		return "skip"
	case ParseFatal:
		return "fatal"
	default:
		return fmt.Sprintf("ParseKind(%d)", int(k))
	}
}

// ParseResult 是 ParseLine 的结果。
type ParseResult struct {
	Kind  ParseKind
	Event Event
	// Reason 说明 ParseSkip 的原因，便于日志与测试。
	Reason string
	Err    error
}

func skip(reason string) ParseResult {
	return ParseResult{Kind: ParseSkip, Reason: reason}
}

// ParseLine 解析一行上游 SSE 文本。不会 panic，也不会对非 data: 行返回错误。
func ParseLine(line string) ParseResult {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, dataPrefix) {
		return skip("not a data line")
	}
	payload := strings.TrimSpace(strings.TrimPrefix(line, dataPrefix))
	if !strings.HasPrefix(payload, "{") {
		return skip("payload is not a json object")
	}
	if len(payload) > MaxEventBytes {
		return ParseResult{
			Kind: ParseFatal,
			Err:  fmt.Errorf("coze: event payload of %d bytes exceeds %d", len(payload), MaxEventBytes),
		}
	}
	if !gjson.Valid(payload) {
		return skip("invalid json")
	}
	return ParseResult{Kind: ParseOK, Event: decodeEvent(payload)}
}

func decodeEvent(payload string) Event {
	root := gjson.Parse(payload)
	ev := Event{
		Kind:           root.Get("event").String(),
		ConversationID: root.Get("conversation_id").String(),
		Raw:            []byte(payload),
	}

	msg := root.Get("message")
	switch {
	case msg.IsObject():
		ev.Message = &Message{
			Role:        msg.Get("role").String(),
			Type:        msg.Get("type").String(),
			Content:     msg.Get("content").String(),
			ContentType: msg.Get("content_type").String(),
		}
	case msg.Exists():
		ev.Msg = msg.String()
	}

	if info := root.Get("error_information"); info.IsObject() {
		ev.ErrorInformation = &ErrorInformation{
			Code:   info.Get("code").Int(),
			ErrMsg: info.Get("err_msg").String(),
		}
	}
	if code := root.Get("code"); code.Exists() {
		ev.Code = code.String()
	}
	return ev
}
