// Package config 负责进程级配置：.env、环境变量、bot 映射文件与命令行参数。
// 配置在启动时构建一次，之后只读。
package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/leslieo2/coze2openai"
	"gopkg.in/yaml.v3"
)

const (
	EnvAPIBase       = "COZE_API_BASE"
	EnvBotID         = "BOT_ID"
	EnvBotConfig     = "BOT_CONFIG"
	EnvBotConfigFile = "BOT_CONFIG_FILE"
	EnvListen        = "LISTEN"
	EnvPort          = "PORT"
	EnvBasePath      = "BASE_PATH"
	EnvLogLevel      = "LOG_LEVEL"
	EnvLogFormat     = "LOG_FORMAT"
	EnvLogFile       = "LOG_FILE"

	DefaultListen   = "127.0.0.1:3000"
	DefaultBasePath = "/v1"
)

type Config struct {
	Listen        string
	BasePath      string
	APIBase       string
	DefaultBotID  string
	BotConfig     map[string]string
	BotConfigFile string
	LogLevel      string
	LogFormat     string
	LogFile       string
}

// Load 读取 .env（files 为空时读取当前目录的 .env，不存在则忽略）后从环境变量构建配置。
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("failed to load .env: %w", err)
		}
	} else if err := godotenv.Load(files...); err != nil {
		return Config{}, fmt.Errorf("failed to load env files: %w", err)
	}
	return FromEnv(os.LookupEnv)
}

// FromEnv 使用 lookup 读取环境变量构建配置。
func FromEnv(lookup func(string) (string, bool)) (Config, error) {
	get := func(key string) string {
		v, _ := lookup(key)
		return strings.TrimSpace(v)
	}

	cfg := Config{
		Listen:        get(EnvListen),
		BasePath:      get(EnvBasePath),
		APIBase:       get(EnvAPIBase),
		DefaultBotID:  get(EnvBotID),
		BotConfigFile: get(EnvBotConfigFile),
		LogLevel:      get(EnvLogLevel),
		LogFormat:     get(EnvLogFormat),
		LogFile:       get(EnvLogFile),
	}
	if cfg.Listen == "" {
		if port := get(EnvPort); port != "" {
			cfg.Listen = ":" + port
		} else {
			cfg.Listen = DefaultListen
		}
	}
	if cfg.BasePath == "" {
		cfg.BasePath = DefaultBasePath
	}
	if cfg.APIBase == "" {
		cfg.APIBase = coze2openai.DefaultAPIBase
	}

	if raw := get(EnvBotConfig); raw != "" {
		bots, err := ParseBotConfig([]byte(raw))
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", EnvBotConfig, err)
		}
		cfg.BotConfig = bots
	}
	return cfg, nil
}

// ParseBotConfig 解析 model → bot_id 映射，支持 JSON 或 YAML。
func ParseBotConfig(data []byte) (map[string]string, error) {
	if strings.TrimSpace(string(data)) == "" {
		return map[string]string{}, nil
	}
	var bots map[string]string
	if err := yaml.Unmarshal(data, &bots); err != nil {
		return nil, err
	}
	if bots == nil {
		bots = map[string]string{}
	}
	return bots, nil
}

// BindFlags 注册命令行参数，默认值来自当前配置，解析后覆盖对应字段。
func (c *Config) BindFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.Listen, "listen", c.Listen, "listen address")
	fs.StringVar(&c.BasePath, "base-path", c.BasePath, "base path prefix")
	fs.StringVar(&c.APIBase, "coze-api-base", c.APIBase, "coze api host (or scheme://host)")
	fs.StringVar(&c.DefaultBotID, "bot-id", c.DefaultBotID, "default coze bot id")
	fs.StringVar(&c.BotConfigFile, "bot-config-file", c.BotConfigFile, "yaml/json file mapping model name to bot id")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "log level: trace|debug|info|warn|error")
	fs.StringVar(&c.LogFormat, "log-format", c.LogFormat, "log format: text|json")
	fs.StringVar(&c.LogFile, "log-file", c.LogFile, "optional log file (rotated)")
}

// Bots 构建只读的 BotTable：先读取 BotConfigFile，再用 BotConfig（环境变量）覆盖。
func (c Config) Bots() (coze2openai.BotTable, error) {
	merged := map[string]string{}
	if path := strings.TrimSpace(c.BotConfigFile); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return coze2openai.BotTable{}, fmt.Errorf("failed to read bot config file: %w", err)
		}
		fromFile, err := ParseBotConfig(data)
		if err != nil {
			return coze2openai.BotTable{}, fmt.Errorf("failed to parse bot config file %s: %w", path, err)
		}
		for k, v := range fromFile {
			merged[k] = v
		}
	}
	for k, v := range c.BotConfig {
		merged[k] = v
	}
	return coze2openai.NewBotTable(c.DefaultBotID, merged), nil
}
