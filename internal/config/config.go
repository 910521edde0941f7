// Package config loads the process configuration once at start. The returned
// Config is passed explicitly to the components that need it and is read-only
// afterwards.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
)

// Config is the complete process configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"db"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Log      LogConfig      `mapstructure:"log"`
	Bcrypt   BcryptConfig   `mapstructure:"bcrypt"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
}

type DatabaseConfig struct {
	// Path of the SQLite file; ":memory:" for an ephemeral database.
	Path string `mapstructure:"path"`
}

type JWTConfig struct {
	Secret   string        `mapstructure:"secret"`
	Issuer   string        `mapstructure:"issuer"`
	Audience string        `mapstructure:"audience"`
	TTL      time.Duration `mapstructure:"ttl"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type BcryptConfig struct {
	Cost int `mapstructure:"cost"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8008")
	v.SetDefault("db.path", "project-tracker.db")
	v.SetDefault("jwt.secret", "development-insecure-secret-change-me")
	v.SetDefault("jwt.issuer", "project-tracker-api")
	v.SetDefault("jwt.audience", "project-tracker-clients")
	v.SetDefault("jwt.ttl", 30*time.Minute)
	v.SetDefault("log.level", "info")
	v.SetDefault("bcrypt.cost", bcrypt.DefaultCost)
}

// Load builds the configuration from defaults, the optional YAML file at path
// and environment variables (JWT_SECRET, DB_PATH, SERVER_PORT, ...), in
// increasing precedence.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects configurations the security port cannot run with.
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return errors.New("config: jwt.secret must not be empty")
	}
	if c.JWT.TTL <= 0 {
		return errors.New("config: jwt.ttl must be positive")
	}
	if c.Bcrypt.Cost < bcrypt.MinCost || c.Bcrypt.Cost > bcrypt.MaxCost {
		return fmt.Errorf("config: bcrypt.cost must be within %d..%d", bcrypt.MinCost, bcrypt.MaxCost)
	}
	if c.Database.Path == "" {
		return errors.New("config: db.path must not be empty")
	}
	return nil
}
