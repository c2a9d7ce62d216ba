package coze

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/leslieo2/coze2openai"
	log "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

const maxErrorBodyBytes = 8 << 10

type ClientConfig struct {
	// APIBase 可以是主机名（默认 https）或完整的 scheme://host，默认 coze2openai.DefaultAPIBase。
	APIBase string
	// HTTPClient 可选，nil 时内部使用 &http.Client{}。
	HTTPClient *http.Client
	UserAgent  string
}

// Client 是 Coze v2 chat 接口的 HTTP 客户端，不做重试。
type Client struct {
	chatURL    string
	httpClient *http.Client
	userAgent  string
}

func NewClient(cfg ClientConfig) (*Client, error) {
	chatURL, err := ChatURL(cfg.APIBase)
	if err != nil {
		return nil, err
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{}
	}
	return &Client{
		chatURL:    chatURL,
		httpClient: client,
		userAgent:  strings.TrimSpace(cfg.UserAgent),
	}, nil
}

// ChatURL 由 API base 拼出 chat 接口地址。
func ChatURL(apiBase string) (string, error) {
	base := strings.TrimSpace(apiBase)
	if base == "" {
		base = coze2openai.DefaultAPIBase
	}
	if !strings.Contains(base, "://") {
		base = "https://" + base
	}
	base = strings.TrimRight(base, "/")
	if strings.ContainsAny(base, " \t\r\n") {
		return "", fmt.Errorf("invalid coze api base: %q", apiBase)
	}
	return base + coze2openai.ChatPath, nil
}

// Chat 以非流式方式请求上游，返回 assistant answer 内容。
func (c *Client) Chat(ctx context.Context, token string, payload *ChatRequest) (string, error) {
	resp, err := c.do(ctx, token, payload, false)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read coze response: %w", err)
	}
	return ExtractAnswer(body)
}

// Stream 以流式方式请求上游。只有在拿到 2xx 响应后才返回 EventStream，调用方负责 Close。
func (c *Client) Stream(ctx context.Context, token string, payload *ChatRequest) (*EventStream, error) {
	resp, err := c.do(ctx, token, payload, true)
	if err != nil {
		return nil, err
	}

	// 鉴权失败、bot 不存在等错误以 HTTP 200 + JSON 返回，需要在开始流式输出前识别出来。
	body := bufio.NewReader(resp.Body)
	if isJSONContent(resp.Header.Get("Content-Type")) || startsWithJSONObject(body) {
		defer resp.Body.Close()
		data, err := io.ReadAll(io.LimitReader(body, maxErrorBodyBytes))
		if err != nil {
			return nil, fmt.Errorf("failed to read coze response: %w", err)
		}
		return nil, nonStreamError(data)
	}
	return NewEventStream(struct {
		io.Reader
		io.Closer
	}{body, resp.Body}), nil
}

func isJSONContent(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "application/json"
}

// startsWithJSONObject 判断 body 第一个非空白字节是否为 '{'，不消费数据。
func startsWithJSONObject(body *bufio.Reader) bool {
	for n := 1; n <= 64; n++ {
		peeked, _ := body.Peek(n)
		if len(peeked) < n {
			return false
		}
		switch peeked[n-1] {
		case ' ', '\t', '\r', '\n':
			continue
		case '{':
			return true
		default:
			return false
		}
	}
	return false
}

func nonStreamError(body []byte) error {
	trimmed := strings.TrimSpace(string(body))
	if gjson.Valid(trimmed) {
		if err := checkAPIStatus(gjson.Parse(trimmed)); err != nil {
			return err
		}
	}
	return fmt.Errorf("coze returned a non-stream response: %s", truncate(trimmed, 256))
}

func (c *Client) do(ctx context.Context, token string, payload *ChatRequest, stream bool) (*http.Response, error) {
	if payload == nil {
		return nil, fmt.Errorf("payload is required")
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode coze request: %w", err)
	}
	body, err = sjson.SetBytes(body, "stream", stream)
	if err != nil {
		return nil, fmt.Errorf("failed to encode coze request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.chatURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build coze request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	if stream {
		req.Header.Set("Accept", "text/event-stream")
	} else {
		req.Header.Set("Accept", "application/json")
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	log.WithFields(log.Fields{
		"bot_id": payload.BotID,
		"stream": stream,
		"url":    c.chatURL,
	}).Debug("coze: send chat request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("coze request failed: %w", err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		defer resp.Body.Close()
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(errBody)}
	}
	return resp, nil
}
