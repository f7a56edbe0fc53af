package routerconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "router.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoaderLoadsValidConfig(t *testing.T) {
	path := writeTempConfig(t, `
policies:
  - name: default
    url: http://classifier:8000/v2/models/bert/infer
    llms:
      - name: fast
        api_base: https://api.fast.example
        api_key: secret
        model: fast-v1
      - name: slow
        api_base: https://api.slow.example
        api_key: secret
        model: slow-v1
`)

	cfg, err := NewLoader().WithConfigPath(path).Load()
	require.NoError(t, err)
	require.Len(t, cfg.Policies, 1)
	assert.Equal(t, "default", cfg.Policies[0].Name)
	assert.Len(t, cfg.Policies[0].Llms, 2)
}

func TestLoaderRejectsMissingAPIKey(t *testing.T) {
	path := writeTempConfig(t, `
policies:
  - name: default
    url: http://classifier
    llms:
      - name: fast
        api_base: https://api.fast.example
        model: fast-v1
`)

	_, err := NewLoader().WithConfigPath(path).Load()
	assert.Error(t, err)
}

func TestLoaderRejectsMissingPath(t *testing.T) {
	_, err := NewLoader().Load()
	assert.Error(t, err)
}

func TestLoaderRejectsUnreadableFile(t *testing.T) {
	_, err := NewLoader().WithConfigPath(filepath.Join(t.TempDir(), "missing.yaml")).Load()
	assert.Error(t, err)
}
