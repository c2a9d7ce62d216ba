package coze

import (
	"fmt"
	"strings"

	"github.com/leslieo2/coze2openai"
	"github.com/leslieo2/coze2openai/openaiapi"
)

// NewChatRequest 把 OpenAI messages 转换为 Coze 请求：
// 最后一条消息作为 query，之前的消息作为 chat_history（system 角色映射为 assistant）。
func NewChatRequest(messages []openaiapi.OpenAIMessage, botID, user string, stream bool) (*ChatRequest, error) {
	if len(messages) == 0 {
		return nil, fmt.Errorf("messages is required")
	}

	history := make([]HistoryMessage, 0, len(messages)-1)
	for _, msg := range messages[:len(messages)-1] {
		content, err := ContentToText(msg.Content)
		if err != nil {
			return nil, err
		}
		history = append(history, HistoryMessage{
			Role:        historyRole(msg.Role),
			Content:     content,
			ContentType: ContentTypeText,
		})
	}

	query, err := ContentToText(messages[len(messages)-1].Content)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(user) == "" {
		user = coze2openai.DefaultUser
	}

	return &ChatRequest{
		Query:          query,
		Stream:         stream,
		ConversationID: "",
		User:           user,
		BotID:          botID,
		ChatHistory:    history,
	}, nil
}

func historyRole(role string) string {
	role = strings.TrimSpace(role)
	if role == RoleSystem {
		return RoleAssistant
	}
	return role
}

// ContentToText 把 OpenAI content（字符串或 text part 数组）展开为纯文本。
func ContentToText(content any) (string, error) {
	if content == nil {
		return "", nil
	}

	if text, ok := content.(string); ok {
		return text, nil
	}

	parts, ok := content.([]interface{})
	if !ok {
		return "", fmt.Errorf("unsupported message content")
	}

	builder := strings.Builder{}
	for _, part := range parts {
		partMap, ok := part.(map[string]interface{})
		if !ok {
			continue
		}
		partType, _ := partMap["type"].(string)
		if partType != "text" && partType != "input_text" {
			continue
		}
		if textValue, ok := partMap["text"].(string); ok {
			builder.WriteString(textValue)
			continue
		}
		if textObj, ok := partMap["text"].(map[string]interface{}); ok {
			if value, ok := textObj["value"].(string); ok {
				builder.WriteString(value)
			}
		}
	}

	return builder.String(), nil
}
