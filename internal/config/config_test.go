package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfigToml = `
[development]
log_level = "debug"
api_base_url = "http://localhost:8080"
cache_ttl_seconds = 30
token_store = "file"
token_file_path = "/tmp/goliath-test.json"

[production]
api_base_url = "https://goliath.example.com"
api_base_path = "/v1"
token_store = "redis"
redis_host = "redis"
login_attempts_per_minute = 5
`

func writeTestConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Development(t *testing.T) {
	path := writeTestConfig(t, testConfigToml)

	cfg, err := Load("dev", path)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "dev", cfg.Environment)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "http://localhost:8080", cfg.ApiBaseURL)
	assert.Equal(t, "/api", cfg.ApiBasePath)
	assert.Equal(t, TokenStoreFile, cfg.TokenStore)
	assert.Equal(t, "/tmp/goliath-test.json", cfg.TokenFilePath)
	assert.Equal(t, defaultCacheSizeMB, cfg.CacheSizeMB)
	assert.Equal(t, "6379", cfg.RedisPort)
	assert.Equal(t, 30, cfg.CacheTTLSeconds)
	assert.Equal(t, float64(30), cfg.CacheTTL().Seconds())
	assert.Equal(t, float64(defaultRefreshMarginSecs), cfg.RefreshMargin().Seconds())
}

func TestLoad_Production(t *testing.T) {
	path := writeTestConfig(t, testConfigToml)
	t.Setenv("GOLIATH_FIREBASE_API_KEY", "fb-key")
	t.Setenv("GOLIATH_REDIS_PASS", "secret")

	cfg, err := Load("production", path)
	require.NoError(t, err)

	assert.Equal(t, "/v1", cfg.ApiBasePath)
	assert.Equal(t, TokenStoreRedis, cfg.TokenStore)
	assert.Equal(t, "redis", cfg.RedisHost)
	assert.Equal(t, "fb-key", cfg.FirebaseApiKey)
	assert.Equal(t, "secret", cfg.RedisPassword)
	assert.Equal(t, 5, cfg.LoginAttemptsPerMinute)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load("dev", filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)

	path := writeTestConfig(t, testConfigToml)
	_, err = Load("staging", path)
	require.EqualError(t, err, "unknown env: staging")

	path = writeTestConfig(t, `
[development]
api_base_url = "http://localhost"
login_attempts_per_minute = 3
`)
	_, err = Load("development", path)
	require.EqualError(t, err, "login_attempts_per_minute requires the redis token store")

	path = writeTestConfig(t, `
[development]
log_level = "info"
`)
	_, err = Load("prod", path)
	require.ErrorIs(t, err, ErrConfigNotFound)
}
