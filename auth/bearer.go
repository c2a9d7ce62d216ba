package auth

import (
	"net/http"
	"strings"
)

// BearerToken 从 Authorization 头中取出 token（"Bearer <token>" 的第二段）。
// 头缺失或没有第二段时返回 false。不做任何校验，token 会原样透传给上游。
func BearerToken(r *http.Request) (string, bool) {
	if r == nil {
		return "", false
	}
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return "", false
	}
	fields := strings.Fields(header)
	if len(fields) < 2 {
		return "", false
	}
	return fields[1], true
}
