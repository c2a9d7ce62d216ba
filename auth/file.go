package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

type tokenFile struct {
	AccessToken string `json:"access_token"`
}

// ReadTokenFromPath 读取 token 文件：可以是纯文本 token，也可以是 {"access_token": "..."}。
func ReadTokenFromPath(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read token file: %w", err)
	}

	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "{") {
		var f tokenFile
		if err := json.Unmarshal([]byte(trimmed), &f); err != nil {
			return "", fmt.Errorf("failed to parse token file: %w", err)
		}
		trimmed = strings.TrimSpace(f.AccessToken)
	}
	if trimmed == "" {
		return "", fmt.Errorf("token file %s is empty", path)
	}
	return trimmed, nil
}

func tokenDefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, ".coze2openai", "token"), nil
}

type fileProvider struct {
	path string
}

func (p *fileProvider) Auth(ctx context.Context) (string, error) {
	path := p.path
	if path == "" {
		var err error
		path, err = tokenDefaultPath()
		if err != nil {
			return "", err
		}
	}
	return ReadTokenFromPath(path)
}
