package coze

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	einoModel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/leslieo2/coze2openai/openaiapi"
	log "github.com/sirupsen/logrus"
)

type ChatModelConfig struct {
	APIBase    string
	HTTPClient *http.Client
	Token      string
	BotID      string
	User       string
}

// ChatModel 是基于 Coze v2 chat 接口的 ToolCallingChatModel 实现。
// 工具由 Coze bot 在服务端配置，WithTools 传入的工具只会被记录，不会透传。
type ChatModel struct {
	config ChatModelConfig
	client *Client
}

func NewChatModel(config ChatModelConfig) (*ChatModel, error) {
	if strings.TrimSpace(config.Token) == "" {
		return nil, fmt.Errorf("token is required")
	}
	if strings.TrimSpace(config.BotID) == "" {
		return nil, fmt.Errorf("bot id is required")
	}
	client, err := NewClient(ClientConfig{
		APIBase:    config.APIBase,
		HTTPClient: config.HTTPClient,
	})
	if err != nil {
		return nil, err
	}
	return &ChatModel{config: config, client: client}, nil
}

func (m *ChatModel) Generate(ctx context.Context, input []*schema.Message, _ ...einoModel.Option) (*schema.Message, error) {
	payload, err := m.buildRequest(input, false)
	if err != nil {
		return nil, err
	}
	content, err := m.client.Chat(ctx, m.config.Token, payload)
	if err != nil {
		return nil, err
	}
	return schema.AssistantMessage(content, nil), nil
}

func (m *ChatModel) Stream(ctx context.Context, input []*schema.Message, _ ...einoModel.Option) (*schema.StreamReader[*schema.Message], error) {
	payload, err := m.buildRequest(input, true)
	if err != nil {
		return nil, err
	}
	events, err := m.client.Stream(ctx, m.config.Token, payload)
	if err != nil {
		return nil, err
	}

	sr, sw := schema.Pipe[*schema.Message](64)
	go func() {
		defer sw.Close()
		defer events.Close()
		for {
			ev, err := events.Next(ctx)
			if err != nil {
				if !errors.Is(err, io.EOF) {
					sw.Send(nil, err)
				}
				return
			}
			switch ev.Kind {
			case EventMessage:
				if !ev.IsAnswer() {
					continue
				}
				if closed := sw.Send(&schema.Message{Role: schema.Assistant, Content: ev.Message.Content}, nil); closed {
					return
				}
			case EventDone:
				return
			case EventError:
				sw.Send(nil, &UpstreamError{Message: ev.ErrorMessage()})
				return
			}
		}
	}()
	return sr, nil
}

func (m *ChatModel) WithTools(tools []*schema.ToolInfo) (einoModel.ToolCallingChatModel, error) {
	if len(tools) > 0 {
		log.WithField("tools", len(tools)).Debug("coze: tools are configured on the bot, ignoring client tools")
	}
	cloned := *m
	return &cloned, nil
}

func (m *ChatModel) buildRequest(input []*schema.Message, stream bool) (*ChatRequest, error) {
	messages := make([]openaiapi.OpenAIMessage, 0, len(input))
	for _, msg := range input {
		if msg == nil {
			continue
		}
		if msg.Role == schema.Tool {
			continue
		}
		messages = append(messages, openaiapi.OpenAIMessage{
			Role:    string(msg.Role),
			Content: resolveMessageContent(msg),
		})
	}
	if len(messages) == 0 {
		return nil, fmt.Errorf("no valid messages to send")
	}
	return NewChatRequest(messages, m.config.BotID, m.config.User, stream)
}

func resolveMessageContent(msg *schema.Message) string {
	if msg.Content != "" {
		return msg.Content
	}
	if len(msg.UserInputMultiContent) > 0 {
		var builder strings.Builder
		for _, part := range msg.UserInputMultiContent {
			if part.Type == schema.ChatMessagePartTypeText {
				builder.WriteString(part.Text)
			}
		}
		return builder.String()
	}
	return ""
}
