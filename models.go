package coze2openai

import (
	"sort"
	"strings"
)

const (
	// DefaultAPIBase 是 Coze API 的默认主机名（不含 scheme）。
	DefaultAPIBase = "api.coze.com"
	// ChatPath 是 Coze v2 chat 接口路径。
	ChatPath = "/open_api/v2/chat"
	// DefaultUser 在请求未携带 user 字段时透传给上游。
	DefaultUser = "apiuser"
	// DefaultModelName 用于 /v1/models 中代表默认 bot 的条目。
	DefaultModelName = "coze"
)

// BotTable 是 model 名称到 Coze bot_id 的只读映射，进程启动时构建一次。
type BotTable struct {
	// Default 在 model 未命中映射时使用。
	Default string
	Models  map[string]string
}

// NewBotTable 复制 models，构建后的 BotTable 不再受调用方修改影响。
func NewBotTable(defaultBotID string, models map[string]string) BotTable {
	copied := make(map[string]string, len(models))
	for model, botID := range models {
		model = strings.TrimSpace(model)
		botID = strings.TrimSpace(botID)
		if model == "" || botID == "" {
			continue
		}
		copied[model] = botID
	}
	return BotTable{
		Default: strings.TrimSpace(defaultBotID),
		Models:  copied,
	}
}

// Resolve 返回 model 对应的 bot_id，未命中时回退到 Default。
func (t BotTable) Resolve(model string) string {
	if botID, ok := t.Models[strings.TrimSpace(model)]; ok && botID != "" {
		return botID
	}
	return t.Default
}

type PresetModel struct {
	ID    string
	BotID string
}

// PresetModels 返回可用的模型列表（用于 /v1/models 输出）。
// 配置了默认 bot 时 DefaultModelName 排在第一位，其余按名称排序。
func (t BotTable) PresetModels() []PresetModel {
	names := make([]string, 0, len(t.Models))
	for name := range t.Models {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]PresetModel, 0, len(names)+1)
	if t.Default != "" {
		if _, shadowed := t.Models[DefaultModelName]; !shadowed {
			out = append(out, PresetModel{ID: DefaultModelName, BotID: t.Default})
		}
	}
	for _, name := range names {
		out = append(out, PresetModel{ID: name, BotID: t.Models[name]})
	}
	return out
}
