// Package openaihttp 提供把 Coze v2 chat 接口包装为 OpenAI v1 兼容接口的 HTTP 处理器。
//
// 该包对外只暴露：
// - net/http 形式的 handlers（models/chat.completions）
// - Gin 路由注册方法与 CORS 中间件
//
// 鉴权信息来自调用方请求的 Authorization: Bearer 头，原样转发给上游。
//
// 使用示例：
//
//	// net/http
//	modelsH, chatH, _ := openaihttp.Handlers(openaihttp.Config{
//		DefaultBotID: botID,
//	})
//	mux.HandleFunc("/v1/models", modelsH)
//	mux.HandleFunc("/v1/chat/completions", chatH)
//
//	// gin
//	r.Use(openaihttp.CORS())
//	_ = openaihttp.RegisterGinRoutes(r, openaihttp.Config{
//		BasePath:     "/v1",
//		DefaultBotID: botID,
//		BotConfig:    map[string]string{"gpt-4": "bot-id"},
//	})
package openaihttp
