package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the flight assistant.
type Config struct {
	General GeneralConfig `mapstructure:"general"`
	Server  ServerConfig  `mapstructure:"server"`
	Scraper ScraperConfig `mapstructure:"scraper"`
	Store   StoreConfig   `mapstructure:"store"`
	LLM     LLMConfig     `mapstructure:"llm"`
	History HistoryConfig `mapstructure:"history"`
}

// GeneralConfig contains general application settings
type GeneralConfig struct {
	Debug    bool   `mapstructure:"debug"`
	LogLevel string `mapstructure:"log_level"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Address string `mapstructure:"address"`
}

// ScraperConfig controls the headless-browser extraction step.
type ScraperConfig struct {
	Headless   bool          `mapstructure:"headless"`
	NavTimeout time.Duration `mapstructure:"nav_timeout"` // navigate + wait-for-rows budget
	UserAgent  string        `mapstructure:"user_agent"`
	Proxy      ProxyConfig   `mapstructure:"proxy"`
}

// ProxyConfig is the optional upstream proxy for the browser session.
// Credentials are answered over the DevTools auth challenge, not embedded
// in the proxy URL.
type ProxyConfig struct {
	Server   string `mapstructure:"server"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Bypass   string `mapstructure:"bypass"`
}

// IsConfigured reports whether a proxy server was supplied at all.
func (p ProxyConfig) IsConfigured() bool { return strings.TrimSpace(p.Server) != "" }

// StoreConfig selects and configures the record-store backend.
type StoreConfig struct {
	Backend string      `mapstructure:"backend"` // csv or redis
	DataDir string      `mapstructure:"data_dir"`
	Redis   RedisConfig `mapstructure:"redis"`
}

// RedisConfig configures the redis record-store backend. TTL of zero keeps
// entries forever, matching the write-once CSV policy.
type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// LLMConfig configures the recommendation model provider. BaseURL allows
// OpenAI-compatible endpoints (Together, local gateways).
type LLMConfig struct {
	Type        string        `mapstructure:"type"` // openai
	APIKey      string        `mapstructure:"api_key"`
	BaseURL     string        `mapstructure:"base_url"`
	Model       string        `mapstructure:"model"`
	Temperature float64       `mapstructure:"temperature"`
	MaxTokens   int           `mapstructure:"max_tokens"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// HistoryConfig configures the optional Postgres search-history log. An
// empty URL disables it.
type HistoryConfig struct {
	PostgresURL string `mapstructure:"postgres_url"`
}

func (c Config) Validate() error {
	switch c.Store.Backend {
	case "csv", "redis":
	default:
		return fmt.Errorf("store.backend must be csv or redis, got %q", c.Store.Backend)
	}
	if c.Store.Backend == "redis" && strings.TrimSpace(c.Store.Redis.Addr) == "" {
		return errors.New("store.redis.addr is required for the redis backend")
	}
	if c.Scraper.NavTimeout <= 0 {
		return errors.New("scraper.nav_timeout must be greater than zero")
	}
	return nil
}

// LoadConfig reads config.json (or the file at path) plus FLIGHTSCOUT_*
// environment overrides. A missing config file is fine; defaults and env
// cover the full surface.
func LoadConfig(path string) (*Config, error) {
	viper.SetDefault("general.debug", false)
	viper.SetDefault("general.log_level", "info")
	viper.SetDefault("server.address", ":8090")
	viper.SetDefault("scraper.headless", true)
	viper.SetDefault("scraper.nav_timeout", 60*time.Second)
	viper.SetDefault("scraper.user_agent", "")
	viper.SetDefault("store.backend", "csv")
	viper.SetDefault("store.data_dir", "data")
	viper.SetDefault("store.redis.db", 0)
	viper.SetDefault("store.redis.ttl", time.Duration(0))
	viper.SetDefault("llm.type", "openai")
	viper.SetDefault("llm.base_url", "https://api.together.xyz/v1")
	viper.SetDefault("llm.model", "deepseek-ai/DeepSeek-V3")
	viper.SetDefault("llm.temperature", 0.2)
	viper.SetDefault("llm.max_tokens", 1024)
	viper.SetDefault("llm.timeout", 60*time.Second)

	if path == "" {
		viper.SetConfigName("config")
		viper.SetConfigType("json")
		viper.AddConfigPath("./config")
		viper.AddConfigPath(".")
	} else {
		viper.SetConfigFile(path)
	}

	viper.SetEnvPrefix("FLIGHTSCOUT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
