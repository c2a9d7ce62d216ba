package openaihttp

import (
	"net/http"
)

const statusPageHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>COZE2OPENAI</title>
</head>
<body>
<h1>Coze2OpenAI</h1>
<p>Congratulations! Your project has been successfully deployed.</p>
</body>
</html>
`

// StatusPage 返回一个静态 HTML 页面，用于确认服务已启动。
func StatusPage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(statusPageHTML))
}
