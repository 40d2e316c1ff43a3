package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Catalog    CatalogConfig    `mapstructure:"catalog"`
	Cache      CacheConfig      `mapstructure:"cache"`
	LLM        LLMConfig        `mapstructure:"llm"`
	Classifier ClassifierConfig `mapstructure:"classifier"`
	RateLimit  RateLimitConfig  `mapstructure:"ratelimit"`
	Log        LogConfig        `mapstructure:"log"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// CatalogConfig selects the product catalog database
type CatalogConfig struct {
	Driver   string `mapstructure:"driver"` // "sqlite" or "postgres"
	DSN      string `mapstructure:"dsn"`
	SeedFile string `mapstructure:"seed_file"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	Type     string        `mapstructure:"type"` // "memory" or "redis"
	RedisURL string        `mapstructure:"redis_url"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// LLMConfig holds the text-generation backend configuration
type LLMConfig struct {
	BaseURL           string        `mapstructure:"base_url"`
	Model             string        `mapstructure:"model"`
	APIKey            string        `mapstructure:"api_key"`
	MaxTokens         int           `mapstructure:"max_tokens"`
	Temperature       float64       `mapstructure:"temperature"`
	Timeout           time.Duration `mapstructure:"timeout"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
}

// ClassifierConfig tunes query routing
type ClassifierConfig struct {
	ExtractLimit int  `mapstructure:"extract_limit"`
	ProductLimit int  `mapstructure:"product_limit"`
	DebugLogging bool `mapstructure:"debug_logging"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"` // requests per minute
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "json" or "console"
}

// Load loads configuration from a .env file, environment variables and config files
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile is Load with an explicit config file. An empty path searches the
// default locations and a named file must exist.
func LoadFile(path string) (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, err
	}

	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/shelfassist/")
	}

	v.SetEnvPrefix("SHELFASSIST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional; env vars and defaults cover everything
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// loadEnvFile loads ./.env into the process environment. Variables already set
// are not overridden and a missing file is not an error.
func loadEnvFile() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("error reading .env file: %w", err)
	}
	return nil
}

// setDefaults sets default configuration values. Every key needs a default so
// AutomaticEnv can override it during Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"*"})

	v.SetDefault("catalog.driver", "sqlite")
	v.SetDefault("catalog.dsn", "file:data/products.db")
	v.SetDefault("catalog.seed_file", "")

	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.redis_url", "")
	v.SetDefault("cache.ttl", "24h")

	v.SetDefault("llm.base_url", "http://localhost:11434/v1")
	v.SetDefault("llm.model", "phi3")
	v.SetDefault("llm.api_key", "ollama")
	v.SetDefault("llm.max_tokens", 150)
	v.SetDefault("llm.temperature", 0.3)
	v.SetDefault("llm.timeout", "60s")
	v.SetDefault("llm.requests_per_second", 2)

	v.SetDefault("classifier.extract_limit", 3)
	v.SetDefault("classifier.product_limit", 5)
	v.SetDefault("classifier.debug_logging", false)

	v.SetDefault("ratelimit.per_ip", 100)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Catalog.Driver != "sqlite" && config.Catalog.Driver != "postgres" {
		return fmt.Errorf("catalog driver must be 'sqlite' or 'postgres', got: %s", config.Catalog.Driver)
	}

	if config.Catalog.DSN == "" {
		return fmt.Errorf("catalog DSN is required (set SHELFASSIST_CATALOG_DSN)")
	}

	if config.Cache.Type != "memory" && config.Cache.Type != "redis" {
		return fmt.Errorf("cache type must be 'memory' or 'redis', got: %s", config.Cache.Type)
	}

	if config.Cache.Type == "redis" && config.Cache.RedisURL == "" {
		return fmt.Errorf("Redis URL is required when cache type is 'redis'")
	}

	if config.LLM.Model == "" {
		return fmt.Errorf("LLM model is required (set SHELFASSIST_LLM_MODEL)")
	}

	if config.Classifier.ExtractLimit < 1 || config.Classifier.ProductLimit < 1 {
		return fmt.Errorf("classifier limits must be positive")
	}

	if config.RateLimit.PerIP < 1 {
		return fmt.Errorf("per-IP rate limit must be positive, got: %d", config.RateLimit.PerIP)
	}

	if config.Log.Format != "json" && config.Log.Format != "console" {
		return fmt.Errorf("log format must be 'json' or 'console', got: %s", config.Log.Format)
	}

	return nil
}
