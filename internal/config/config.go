package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	TokenStoreFile  = "file"
	TokenStoreRedis = "redis"

	defaultApiBasePath       = "/api"
	defaultCacheSizeMB       = 64
	defaultRefreshMarginSecs = 5 * 60
	defaultTokenFileName     = "goliath_storage.json"
)

var ErrConfigNotFound = errors.New("config for env not found")

type Config struct {
	Environment string `toml:"environment"`

	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`
	SentryEnabled bool   `toml:"sentry_enabled"`
	SentryDSN     string `toml:"-"`

	// goliath backend api
	ApiBaseURL            string `toml:"api_base_url"`
	ApiBasePath           string `toml:"api_base_path"`
	RequestTimeoutSeconds int    `toml:"request_timeout_seconds"`
	CacheSizeMB           int    `toml:"cache_size_mb"`
	CacheTTLSeconds       int    `toml:"cache_ttl_seconds"`

	// durable storage for the bearer token
	TokenStore    string `toml:"token_store"`
	TokenFilePath string `toml:"token_file_path"`
	RedisHost     string `toml:"redis_host"`
	RedisPort     string `toml:"redis_port"`
	RedisPassword string `toml:"-"`

	// identity provider (firebase)
	FirebaseApiKey          string `toml:"firebase_api_key"`
	IdentityToolkitEndpoint string `toml:"identity_toolkit_endpoint"`
	SecureTokenEndpoint     string `toml:"secure_token_endpoint"`
	RefreshMarginSeconds    int    `toml:"refresh_margin_seconds"`
	GoogleClientID          string `toml:"google_client_id"`
	GoogleClientSecret      string `toml:"-"`
	LoginAttemptsPerMinute  int    `toml:"login_attempts_per_minute"`

	// telemetry
	MetricsEnabled   bool   `toml:"metrics_enabled"`
	MetricsAddr      string `toml:"metrics_addr"`
	HoneycombEnabled bool   `toml:"honeycomb_enabled"`
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	switch strings.ToLower(env) {
	case "dev", "development":
		return t.Development, nil
	case "prod", "production":
		return t.Production, nil
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
}

// Load reads the TOML file at path, picks the table for env and applies
// defaults and secret overrides from the environment.
func Load(env, path string) (*Config, error) {
	var t Toml
	if _, err := toml.DecodeFile(path, &t); err != nil {
		return nil, fmt.Errorf("decode config file %s: %w", path, err)
	}

	cfg, err := t.Get(env)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, env)
	}

	if cfg.Environment == "" {
		cfg.Environment = strings.ToLower(env)
	}
	cfg.applyDefaults()
	cfg.applyEnv(os.Getenv)

	return cfg, cfg.Validate()
}

func (c *Config) applyDefaults() {
	if c.ApiBasePath == "" {
		c.ApiBasePath = defaultApiBasePath
	}
	if c.CacheSizeMB <= 0 {
		c.CacheSizeMB = defaultCacheSizeMB
	}
	if c.TokenStore == "" {
		c.TokenStore = TokenStoreFile
	}
	if c.TokenFilePath == "" {
		c.TokenFilePath = defaultTokenFilePath()
	}
	if c.RedisPort == "" {
		c.RedisPort = "6379"
	}
	if c.RefreshMarginSeconds <= 0 {
		c.RefreshMarginSeconds = defaultRefreshMarginSecs
	}
	if c.MetricsAddr == "" {
		c.MetricsAddr = "localhost:9191"
	}
}

func (c *Config) applyEnv(getenv func(string) string) {
	if v := getenv("GOLIATH_FIREBASE_API_KEY"); v != "" {
		c.FirebaseApiKey = v
	}
	if v := getenv("GOLIATH_REDIS_PASS"); v != "" {
		c.RedisPassword = v
	}
	if v := getenv("GOLIATH_GOOGLE_CLIENT_SECRET"); v != "" {
		c.GoogleClientSecret = v
	}
	if v := getenv("GOLIATH_API_BASE_URL"); v != "" {
		c.ApiBaseURL = v
	}
	if v := getenv("SENTRY_DSN"); v != "" {
		c.SentryDSN = v
	}
}

func (c *Config) Validate() error {
	if c.ApiBaseURL == "" {
		return errors.New("api_base_url not set")
	}
	switch c.TokenStore {
	case TokenStoreFile, TokenStoreRedis:
	default:
		return fmt.Errorf("unknown token store: %s", c.TokenStore)
	}
	if c.LoginAttemptsPerMinute > 0 && c.TokenStore != TokenStoreRedis {
		return errors.New("login_attempts_per_minute requires the redis token store")
	}
	return nil
}

func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

func (c *Config) RefreshMargin() time.Duration {
	return time.Duration(c.RefreshMarginSeconds) * time.Second
}

func defaultTokenFilePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return defaultTokenFileName
	}
	return filepath.Join(dir, "goliath", defaultTokenFileName)
}
