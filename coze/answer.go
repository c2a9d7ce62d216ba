package coze

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// ExtractAnswer 从非流式响应中提取第一条 assistant/answer 消息的内容（去除首尾空白）。
// code 不为 0 或 msg 不为 "success" 时返回 *APIError。
func ExtractAnswer(body []byte) (string, error) {
	if !gjson.ValidBytes(body) {
		return "", fmt.Errorf("invalid coze response: %s", truncate(strings.TrimSpace(string(body)), 256))
	}
	root := gjson.ParseBytes(body)
	if err := checkAPIStatus(root); err != nil {
		return "", err
	}

	var answer gjson.Result
	root.Get("messages").ForEach(func(_, m gjson.Result) bool {
		if m.Get("role").String() == RoleAssistant && m.Get("type").String() == MessageTypeAnswer {
			answer = m
			return false
		}
		return true
	})
	if !answer.Exists() {
		return "", ErrNoAnswer
	}
	return strings.TrimSpace(answer.Get("content").String()), nil
}

// checkAPIStatus 校验响应体顶层的 code/msg，非成功时返回 *APIError。
func checkAPIStatus(root gjson.Result) error {
	code := root.Get("code")
	msg := root.Get("msg").String()
	if !code.Exists() || code.Int() != 0 || msg != "success" {
		return &APIError{Code: code.Int(), Msg: msg}
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
