// Package config assembles storefront configuration from three layers:
// built-in defaults, an optional YAML file, then environment variables.
// Later layers win.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full storefront configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Site    SiteConfig    `yaml:"site"`
	Catalog CatalogConfig `yaml:"catalog"`
	Redis   RedisConfig   `yaml:"redis"`
	Auth    AuthConfig    `yaml:"auth"`
	AI      AIConfig      `yaml:"ai"`
	Logging LoggingConfig `yaml:"logging"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	CORSOrigins     []string      `yaml:"cors_origins"`
}

// SiteConfig describes the public storefront.
type SiteConfig struct {
	URL           string `yaml:"url"`
	WhatsAppPhone string `yaml:"whatsapp_phone"`
}

// CatalogConfig points at the content store.
type CatalogConfig struct {
	ProjectID  string `yaml:"project_id"`
	Dataset    string `yaml:"dataset"`
	APIVersion string `yaml:"api_version"`
	Token      string `yaml:"token"`
	UseCDN     bool   `yaml:"use_cdn"`
}

// RedisConfig selects the session backend. An empty URL keeps sessions
// in process memory.
type RedisConfig struct {
	URL       string `yaml:"url"`
	Namespace string `yaml:"namespace"`
}

// AuthConfig holds the session token settings.
type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret"`
	Issuer    string `yaml:"issuer"`
}

// AIConfig configures the shopping assistant's model access.
type AIConfig struct {
	APIKey      string  `yaml:"api_key"`
	BaseURL     string  `yaml:"base_url"`
	Model       string  `yaml:"model"`
	Temperature float32 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Option mutates the configuration after defaults, file and environment
// have been applied.
type Option func(*Config)

// WithPort overrides the HTTP port.
func WithPort(port int) Option {
	return func(c *Config) { c.Server.Port = port }
}

// WithSiteURL overrides the public site origin.
func WithSiteURL(u string) Option {
	return func(c *Config) { c.Site.URL = u }
}

// WithRedisURL overrides the session backend address.
func WithRedisURL(u string) Option {
	return func(c *Config) { c.Redis.URL = u }
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			CORSOrigins:     []string{"*"},
		},
		Site: SiteConfig{
			URL:           "https://rideright.ke",
			WhatsAppPhone: "254741535521",
		},
		Catalog: CatalogConfig{
			Dataset:    "production",
			APIVersion: "2024-01-01",
		},
		Redis: RedisConfig{
			Namespace: "storefront",
		},
		AI: AIConfig{
			Model:       "gpt-4o-mini",
			Temperature: 0.7,
			MaxTokens:   1000,
		},
		Logging: LoggingConfig{Level: "info"},
	}
}

// Load builds the configuration. The file named by STOREFRONT_CONFIG (if
// set) is read first, then environment variables, then options.
func Load(opts ...Option) (Config, error) {
	cfg := Default()

	if path := os.Getenv("STOREFRONT_CONFIG"); path != "" {
		if err := loadFile(&cfg, path); err != nil {
			return cfg, err
		}
	}

	applyEnvironment(&cfg)

	for _, opt := range opts {
		opt(&cfg)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func loadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func applyEnvironment(cfg *Config) {
	if v := os.Getenv("STOREFRONT_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("STOREFRONT_SITE_URL"); v != "" {
		cfg.Site.URL = v
	}
	if v := os.Getenv("STOREFRONT_WHATSAPP_PHONE"); v != "" {
		cfg.Site.WhatsAppPhone = v
	}

	if v := os.Getenv("SANITY_PROJECT_ID"); v != "" {
		cfg.Catalog.ProjectID = v
	}
	if v := os.Getenv("SANITY_DATASET"); v != "" {
		cfg.Catalog.Dataset = v
	}
	if v := os.Getenv("SANITY_API_VERSION"); v != "" {
		cfg.Catalog.APIVersion = v
	}
	if v := os.Getenv("SANITY_API_TOKEN"); v != "" {
		cfg.Catalog.Token = v
	}
	if v := os.Getenv("SANITY_USE_CDN"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Catalog.UseCDN = b
		}
	}

	if v := os.Getenv("REDIS_URL"); v != "" {
		cfg.Redis.URL = v
	}
	if v := os.Getenv("REDIS_NAMESPACE"); v != "" {
		cfg.Redis.Namespace = v
	}

	if v := os.Getenv("AUTH_JWT_SECRET"); v != "" {
		cfg.Auth.JWTSecret = v
	}
	if v := os.Getenv("AUTH_ISSUER"); v != "" {
		cfg.Auth.Issuer = v
	}

	if v := os.Getenv("AI_API_KEY"); v != "" {
		cfg.AI.APIKey = v
	} else if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.AI.APIKey = v
	}
	if v := os.Getenv("AI_BASE_URL"); v != "" {
		cfg.AI.BaseURL = v
	}
	if v := os.Getenv("AI_MODEL"); v != "" {
		cfg.AI.Model = v
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

// Validate rejects configurations the server cannot start with.
func (c Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.Catalog.ProjectID == "" {
		return fmt.Errorf("catalog project ID is required (set SANITY_PROJECT_ID)")
	}
	if c.Site.URL == "" {
		return fmt.Errorf("site URL is required")
	}
	return nil
}
