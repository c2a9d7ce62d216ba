package auth

import (
	"context"
	"fmt"
	"strings"
)

// NewProvider 根据来源创建 Provider。
// source 允许：env/file/auto；空值按 auto 处理。tokenFile 为空时 file 来源读取 ~/.coze2openai/token。
func NewProvider(source, tokenFile string) (Provider, error) {
	s := strings.ToLower(strings.TrimSpace(source))
	if s == "" {
		s = string(SourceAuto)
	}
	switch Source(s) {
	case SourceEnv:
		return &envProvider{}, nil
	case SourceFile:
		return &fileProvider{path: tokenFile}, nil
	case SourceAuto:
		return &autoProvider{providers: []Provider{&envProvider{}, &fileProvider{path: tokenFile}}}, nil
	default:
		return nil, fmt.Errorf("unsupported auth source: %s", source)
	}
}

type autoProvider struct {
	providers []Provider
}

func (p *autoProvider) Auth(ctx context.Context) (string, error) {
	var lastErr error
	for _, provider := range p.providers {
		token, err := provider.Auth(ctx)
		if err == nil && strings.TrimSpace(token) != "" {
			return token, nil
		}
		if err != nil {
			lastErr = err
		}
	}
	if lastErr != nil {
		return "", lastErr
	}
	return "", fmt.Errorf("no auth available")
}
