package auth

import (
	"context"
	"fmt"
	"os"
	"strings"
)

const EnvAccessToken = "COZE_API_TOKEN"

type envProvider struct{}

func (p *envProvider) Auth(ctx context.Context) (string, error) {
	token := strings.TrimSpace(os.Getenv(EnvAccessToken))
	if token == "" {
		return "", fmt.Errorf("%s is not set", EnvAccessToken)
	}
	return token, nil
}
