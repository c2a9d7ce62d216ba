// Package coze2openai 提供将 Coze v2 chat 接口（/open_api/v2/chat，SSE 流式或 JSON 一次性返回）
// 转换为 OpenAI 兼容 chat.completions API 的能力，方便第三方程序以 OpenAI SDK 的方式调用 Coze bot。
//
// 该仓库主要包含两类能力：
//  1. HTTP 兼容层：openaihttp 包导出 /v1/models、/v1/chat/completions handlers 与 Gin 路由注册
//  2. SDK：coze 包提供上游客户端、SSE 流式翻译器，以及可供 Eino/ADK 使用的 ChatModel 实现
package coze2openai
