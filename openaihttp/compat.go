package openaihttp

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/leslieo2/coze2openai"
	"github.com/leslieo2/coze2openai/auth"
	"github.com/leslieo2/coze2openai/coze"
	"github.com/leslieo2/coze2openai/openaiapi"
	log "github.com/sirupsen/logrus"
)

// 上游没有 token 统计，非流式响应使用固定的占位 usage。
var placeholderUsage = openaiapi.OpenAIUsage{
	PromptTokens:     100,
	CompletionTokens: 10,
	TotalTokens:      110,
}

type httpError struct {
	Status  int
	Message string
	Err     error
}

func (e *httpError) Error() string {
	if e == nil {
		return ""
	}
	if strings.TrimSpace(e.Message) != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return ""
}

func (e *httpError) Unwrap() error { return e.Err }

type compatConfig struct {
	Now               func() time.Time
	NewChatCompletion func() string
	WriteJSON         func(w http.ResponseWriter, data interface{})
	WriteError        func(w http.ResponseWriter, statusCode int, message string)
	Client            *coze.Client
	Bots              coze2openai.BotTable
	SystemFingerprint string
}

type compatHandler struct {
	now               func() time.Time
	newChatCompletion func() string
	writeJSON         func(w http.ResponseWriter, data interface{})
	writeError        func(w http.ResponseWriter, statusCode int, message string)
	client            *coze.Client
	bots              coze2openai.BotTable
	systemFingerprint string
}

func newCompatHandler(cfg compatConfig) (*compatHandler, error) {
	if cfg.WriteJSON == nil {
		return nil, fmt.Errorf("WriteJSON is required")
	}
	if cfg.WriteError == nil {
		return nil, fmt.Errorf("WriteError is required")
	}
	if cfg.Client == nil {
		return nil, fmt.Errorf("Client is required")
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.NewChatCompletion == nil {
		cfg.NewChatCompletion = openaiapi.NewChatCompletionID
	}
	if strings.TrimSpace(cfg.SystemFingerprint) == "" {
		cfg.SystemFingerprint = defaultSystemFingerprint
	}
	return &compatHandler{
		now:               cfg.Now,
		newChatCompletion: cfg.NewChatCompletion,
		writeJSON:         cfg.WriteJSON,
		writeError:        cfg.WriteError,
		client:            cfg.Client,
		bots:              cfg.Bots,
		systemFingerprint: cfg.SystemFingerprint,
	}, nil
}

func (h *compatHandler) handleModels(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	presetModels := h.bots.PresetModels()
	modelsList := make([]openaiapi.OpenAIModel, 0, len(presetModels))
	now := h.now().Unix()
	for _, m := range presetModels {
		modelsList = append(modelsList, openaiapi.OpenAIModel{
			ID:      m.ID,
			Object:  "model",
			Created: now,
			OwnedBy: "coze",
		})
	}

	h.writeJSON(w, openaiapi.OpenAIModelList{
		Object: "list",
		Data:   modelsList,
	})
}

func (h *compatHandler) handleChatCompletions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	token, ok := auth.BearerToken(r)
	if !ok {
		writeUnauthorized(w)
		return
	}

	req, payload, err := h.decodeChatRequest(r)
	if err != nil {
		h.writeError(w, httpStatusFromError(err), httpMessageFromError(err))
		return
	}

	if req.Stream {
		h.handleStreamResponse(w, r, token, req.Model, payload)
		return
	}

	content, err := h.client.Chat(r.Context(), token, payload)
	if err != nil {
		log.WithFields(log.Fields{
			"model":  req.Model,
			"bot_id": payload.BotID,
		}).WithError(err).Error("coze chat failed")
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.writeJSON(w, openaiapi.ToChatCompletion(
		h.newChatCompletion(),
		req.Model,
		content,
		placeholderUsage,
		h.systemFingerprint,
		h.now(),
	))
}

func (h *compatHandler) decodeChatRequest(r *http.Request) (openaiapi.OpenAIChatRequest, *coze.ChatRequest, error) {
	var req openaiapi.OpenAIChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return req, nil, &httpError{Status: http.StatusBadRequest, Message: "invalid request body", Err: err}
	}
	if len(req.Messages) == 0 {
		return req, nil, &httpError{Status: http.StatusBadRequest, Message: "messages is required"}
	}

	payload, err := coze.NewChatRequest(req.Messages, h.bots.Resolve(req.Model), req.User, req.Stream)
	if err != nil {
		return req, nil, &httpError{Status: http.StatusBadRequest, Err: err}
	}
	return req, payload, nil
}

func (h *compatHandler) handleStreamResponse(
	w http.ResponseWriter,
	r *http.Request,
	token, modelName string,
	payload *coze.ChatRequest,
) {
	emitter, err := newSSEEmitter(w)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	events, err := h.client.Stream(r.Context(), token, payload)
	if err != nil {
		log.WithFields(log.Fields{
			"model":  modelName,
			"bot_id": payload.BotID,
		}).WithError(err).Error("coze stream failed")
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(http.StatusOK)
	emitter.flush()

	session := newStreamSession(events, emitter, coze.Translator{
		Model: modelName,
		NewID: h.newChatCompletion,
		Now:   h.now,
	})
	if err := session.run(r.Context()); err != nil {
		log.WithFields(log.Fields{
			"model":           modelName,
			"bot_id":          payload.BotID,
			"conversation_id": session.conversationID,
			"state":           session.terminal.String(),
			"skipped":         events.Skipped(),
		}).WithError(err).Warn("coze stream ended abnormally")
	}
}

func httpStatusFromError(err error) int {
	var httpErr *httpError
	if errors.As(err, &httpErr) && httpErr != nil && httpErr.Status != 0 {
		return httpErr.Status
	}
	return http.StatusInternalServerError
}

func httpMessageFromError(err error) string {
	var httpErr *httpError
	if errors.As(err, &httpErr) && httpErr != nil && strings.TrimSpace(httpErr.Message) != "" {
		return httpErr.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
