package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBearerToken(t *testing.T) {
	cases := []struct {
		header string
		want   string
		ok     bool
	}{
		{header: "Bearer pat_abc", want: "pat_abc", ok: true},
		{header: "bearer   pat_abc  ", want: "pat_abc", ok: true},
		{header: "Token xyz", want: "xyz", ok: true},
		{header: "Bearer", ok: false},
		{header: "", ok: false},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodPost, "/v1/chat/completions", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		got, ok := BearerToken(req)
		require.Equal(t, tc.ok, ok, tc.header)
		require.Equal(t, tc.want, got, tc.header)
	}

	_, ok := BearerToken(nil)
	require.False(t, ok)
}

func TestReadTokenFromPath(t *testing.T) {
	dir := t.TempDir()

	plain := filepath.Join(dir, "token")
	require.NoError(t, os.WriteFile(plain, []byte("  pat_plain\n"), 0o600))
	token, err := ReadTokenFromPath(plain)
	require.NoError(t, err)
	require.Equal(t, "pat_plain", token)

	jsonPath := filepath.Join(dir, "token.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"access_token":"pat_json"}`), 0o600))
	token, err = ReadTokenFromPath(jsonPath)
	require.NoError(t, err)
	require.Equal(t, "pat_json", token)

	empty := filepath.Join(dir, "empty")
	require.NoError(t, os.WriteFile(empty, []byte("\n"), 0o600))
	_, err = ReadTokenFromPath(empty)
	require.Error(t, err)

	_, err = ReadTokenFromPath(filepath.Join(dir, "missing"))
	require.Error(t, err)
}

func TestEnvProvider(t *testing.T) {
	t.Setenv(EnvAccessToken, " pat_env ")
	p, err := NewProvider("env", "")
	require.NoError(t, err)
	token, err := p.Auth(context.Background())
	require.NoError(t, err)
	require.Equal(t, "pat_env", token)
}

func TestAutoProvider_FallsBackToFile(t *testing.T) {
	t.Setenv(EnvAccessToken, "")
	path := filepath.Join(t.TempDir(), "token")
	require.NoError(t, os.WriteFile(path, []byte("pat_file"), 0o600))

	p, err := NewProvider("", path)
	require.NoError(t, err)
	token, err := p.Auth(context.Background())
	require.NoError(t, err)
	require.Equal(t, "pat_file", token)
}

func TestNewProvider_Unsupported(t *testing.T) {
	_, err := NewProvider("keychain", "")
	require.Error(t, err)
}
