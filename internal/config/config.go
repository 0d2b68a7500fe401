// Package config loads xloffer settings from a YAML file, .env and
// XLOFFER_-prefixed environment variables.
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

// Config is the full runtime configuration.
type Config struct {
	Log       LogConfig       `mapstructure:"log"`
	Server    ServerConfig    `mapstructure:"server"`
	Store     StoreConfig     `mapstructure:"store"`
	Sequence  SequenceConfig  `mapstructure:"sequence"`
	Batch     BatchConfig     `mapstructure:"batch"`
	Transform TransformConfig `mapstructure:"transform"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type ServerConfig struct {
	Addr        string `mapstructure:"addr"`
	MaxUploadMB int    `mapstructure:"max_upload_mb"`
}

type StoreConfig struct {
	Dir string `mapstructure:"dir"`
}

// SequenceConfig selects where daily offer sequences come from.
type SequenceConfig struct {
	Backend   string        `mapstructure:"backend"` // memory | redis
	KeyPrefix string        `mapstructure:"key_prefix"`
	TTL       time.Duration `mapstructure:"ttl"`
	Redis     RedisConfig   `mapstructure:"redis"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type BatchConfig struct {
	Concurrency int `mapstructure:"concurrency"`
}

type TransformConfig struct {
	DateFormat string `mapstructure:"date_format"`
}

// Load reads configuration. An explicit path must exist; without one,
// config.yaml is looked up in . and ./configs and may be absent.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("XLOFFER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// setDefaults registers every key so AutomaticEnv can override it.
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.max_upload_mb", 20)
	v.SetDefault("store.dir", "App_Data/price-profiles")
	v.SetDefault("sequence.backend", "memory")
	v.SetDefault("sequence.key_prefix", "xloffer:seq")
	v.SetDefault("sequence.ttl", 48*time.Hour)
	v.SetDefault("sequence.redis.addr", "localhost:6379")
	v.SetDefault("sequence.redis.password", "")
	v.SetDefault("sequence.redis.db", 0)
	v.SetDefault("batch.concurrency", 4)
	v.SetDefault("transform.date_format", "dd/mm/yyyy")
}

// Validate rejects values no component can work with.
func (c *Config) Validate() error {
	switch c.Sequence.Backend {
	case "memory", "redis":
	default:
		return fmt.Errorf("sequence.backend must be memory or redis, got %q", c.Sequence.Backend)
	}
	if c.Sequence.Backend == "redis" && c.Sequence.Redis.Addr == "" {
		return fmt.Errorf("sequence.redis.addr is required for the redis backend")
	}
	if c.Server.MaxUploadMB <= 0 {
		return fmt.Errorf("server.max_upload_mb must be positive, got %d", c.Server.MaxUploadMB)
	}
	if c.Batch.Concurrency <= 0 {
		return fmt.Errorf("batch.concurrency must be positive, got %d", c.Batch.Concurrency)
	}
	if c.Store.Dir == "" {
		return fmt.Errorf("store.dir is required")
	}
	return nil
}
