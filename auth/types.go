package auth

import "context"

// Provider 用于从不同来源读取 Coze 访问令牌（PAT）。
// HTTP 服务不使用 Provider：调用方的 bearer token 会原样透传给上游。
type Provider interface {
	Auth(ctx context.Context) (token string, err error)
}

type Source string

const (
	SourceEnv  Source = "env"
	SourceFile Source = "file"
	SourceAuto Source = "auto"
)
