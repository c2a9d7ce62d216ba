package openaihttp

import (
	"net/http"
	"strings"
	"time"

	"github.com/leslieo2/coze2openai"
	"github.com/leslieo2/coze2openai/coze"
	"github.com/leslieo2/coze2openai/openaiapi"
)

const defaultSystemFingerprint = "fp_2f57f81c11"

// Handlers 返回 /v1/models 与 /v1/chat/completions 的 net/http handlers。
func Handlers(cfg Config) (modelsHandler http.HandlerFunc, chatHandler http.HandlerFunc, err error) {
	resolved, err := resolveConfig(cfg)
	if err != nil {
		return nil, nil, err
	}

	compat, err := newCompatHandler(compatConfig{
		Now:               resolved.Now,
		NewChatCompletion: resolved.NewChatCompletionID,
		WriteJSON:         writeJSON,
		WriteError:        writeError,
		Client:            resolved.Client,
		Bots:              resolved.Bots,
		SystemFingerprint: resolved.SystemFingerprint,
	})
	if err != nil {
		return nil, nil, err
	}

	return compat.handleModels, compat.handleChatCompletions, nil
}

type resolvedConfig struct {
	BasePath            string
	Client              *coze.Client
	Bots                coze2openai.BotTable
	SystemFingerprint   string
	Now                 func() time.Time
	NewChatCompletionID func() string
}

func resolveConfig(cfg Config) (resolvedConfig, error) {
	client, err := coze.NewClient(coze.ClientConfig{
		APIBase:    cfg.APIBase,
		HTTPClient: cfg.HTTPClient,
	})
	if err != nil {
		return resolvedConfig{}, err
	}

	fp := strings.TrimSpace(cfg.SystemFingerprint)
	if fp == "" {
		fp = defaultSystemFingerprint
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	newID := cfg.NewChatCompletionID
	if newID == nil {
		newID = openaiapi.NewChatCompletionID
	}

	return resolvedConfig{
		BasePath:            normalizeBasePath(cfg.BasePath),
		Client:              client,
		Bots:                coze2openai.NewBotTable(cfg.DefaultBotID, cfg.BotConfig),
		SystemFingerprint:   fp,
		Now:                 now,
		NewChatCompletionID: newID,
	}, nil
}
