// Package coze 实现 Coze v2 chat 接口的上游适配：
//
//   - ChatRequest 构建（query/chat_history/bot_id）与 HTTP Client
//   - LineBuffer：把任意边界的 SSE 字节片段重组为完整行
//   - ParseLine：识别 data: 行并解码为 Event
//   - Translator：按 event 类型把上游事件翻译为 OpenAI chat.completion.chunk
//   - EventStream：基于 io.Reader 的拉取式事件迭代器
//   - ChatModel：可供 Eino/ADK 使用的 ChatModel 实现
package coze
