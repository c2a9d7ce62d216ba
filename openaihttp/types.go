package openaihttp

import (
	"net/http"
	"time"
)

type Config struct {
	// BasePath 仅用于 Gin 注册路由时拼接路径，默认 "/v1"。
	BasePath string
	// APIBase Coze API 主机名或 scheme://host，默认 coze2openai.DefaultAPIBase。
	APIBase string
	// HTTPClient 可选，nil 时内部使用 &http.Client{}。
	HTTPClient *http.Client
	// DefaultBotID model 未命中 BotConfig 时使用的 bot_id。
	DefaultBotID string
	// BotConfig model 名称到 bot_id 的映射，启动后只读。
	BotConfig map[string]string
	// SystemFingerprint 非流式 chat.completion 用；默认 "fp_2f57f81c11"。
	SystemFingerprint string
	// Now 可选，用于 created 字段，默认 time.Now。
	Now func() time.Time
	// NewChatCompletionID 可选，用于 chunk/completion id，默认 openaiapi.NewChatCompletionID。
	NewChatCompletionID func() string
}
