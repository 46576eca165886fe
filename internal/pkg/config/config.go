package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const (
	BackendFile  = "file"
	BackendRedis = "redis"
)

type Config struct {
	Port      string `env:"PORT,        default=3000"`
	Host      string `env:"LISTEN_HOST, default=127.0.0.1"`
	Env       string `env:"ENV,         default=development"`
	LogLevel  string `env:"LOG_LEVEL,   default=info"`
	LogPretty bool   `env:"LOG_PRETTY,  default=false"`

	API        APIConfig
	Credential CredentialConfig
	Redis      RedisConfig
	UI         UIConfig
}

// APIConfig points at the storefront REST API.
type APIConfig struct {
	BaseURL string        `env:"STOREFRONT_API_URL, default=http://localhost:8080/api"`
	Timeout time.Duration `env:"HTTP_TIMEOUT,       default=10s"`
}

// CredentialConfig selects where the bearer credential is persisted.
type CredentialConfig struct {
	Backend string `env:"CREDENTIAL_BACKEND, default=file"`
	Path    string `env:"CREDENTIAL_PATH"`
	Key     string `env:"CREDENTIAL_KEY,     default=ecoshop.credential"`
	Secret  string `env:"CREDENTIAL_SECRET"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

// UIConfig tunes the local storefront UI.
type UIConfig struct {
	BannerTTL   time.Duration `env:"BANNER_TTL,   default=3s"`
	CartWorkers int           `env:"CART_WORKERS, default=4"`
}

// Addr is the listen address of the local UI server.
func (c *Config) Addr() string {
	return c.Host + ":" + c.Port
}

// IsDevelopment reports whether ENV selects development defaults.
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Env, "development")
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	cfg, err := LoadFrom(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// LoadFrom reads configuration through l and validates it.
func LoadFrom(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	c.Credential.Backend = strings.ToLower(strings.TrimSpace(c.Credential.Backend))
	switch c.Credential.Backend {
	case BackendFile, BackendRedis:
	default:
		return fmt.Errorf("CREDENTIAL_BACKEND must be %q or %q, got %q", BackendFile, BackendRedis, c.Credential.Backend)
	}
	if strings.TrimSpace(c.API.BaseURL) == "" {
		return fmt.Errorf("STOREFRONT_API_URL cannot be empty")
	}
	if c.UI.CartWorkers <= 0 {
		return fmt.Errorf("CART_WORKERS must be positive, got %d", c.UI.CartWorkers)
	}
	return nil
}
