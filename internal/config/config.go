package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Provider ProviderConfig `mapstructure:"provider"`
	Database DatabaseConfig `mapstructure:"database"`
	Valkey   ValkeyConfig   `mapstructure:"valkey"`
	Log      LogConfig      `mapstructure:"log"`
	API      APIConfig      `mapstructure:"api"`
}

type ServerConfig struct {
	Port         int `mapstructure:"port" validate:"min=1,max=65535"`
	ReadTimeout  int `mapstructure:"read_timeout" validate:"min=1"`
	WriteTimeout int `mapstructure:"write_timeout" validate:"min=1"`
}

type ProviderConfig struct {
	BaseURL string `mapstructure:"base_url" validate:"required,url"`
	APIKey  string `mapstructure:"api_key" validate:"required"`
	Timeout int    `mapstructure:"timeout" validate:"min=1,max=120"`
}

// TimeoutDuration returns the gateway timeout.
func (p ProviderConfig) TimeoutDuration() time.Duration {
	return time.Duration(p.Timeout) * time.Second
}

// DatabaseConfig is optional; an empty URL disables route history.
type DatabaseConfig struct {
	URL string `mapstructure:"url"`
}

// ValkeyConfig is optional; an empty address disables usage counters.
type ValkeyConfig struct {
	Addr string `mapstructure:"addr" validate:"omitempty,hostname_port"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=json text"`
}

type APIConfig struct {
	MaxStops int `mapstructure:"max_stops" validate:"min=1,max=100"`
}

const envPrefix = "ROUTEPLANNER"

// Load reads configuration from an optional config file and environment
// variables, then validates it.
// ROUTEPLANNER_PROVIDER_API_KEY maps to provider.api_key.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 60)
	v.SetDefault("provider.base_url", "https://maps.googleapis.com/maps/api/directions/json")
	v.SetDefault("provider.api_key", "")
	v.SetDefault("provider.timeout", 20)
	v.SetDefault("database.url", "")
	v.SetDefault("valkey.addr", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("api.max_stops", 25)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks struct tags and reports every violation at once.
func (c *Config) Validate() error {
	err := validator.New().Struct(c)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return fmt.Errorf("config validation: %w", err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q (value %v)", fe.Namespace(), fe.Tag(), redact(fe)))
	}

	return fmt.Errorf("config validation failed:\n  - %s", strings.Join(msgs, "\n  - "))
}

func redact(fe validator.FieldError) any {
	if strings.EqualFold(fe.Field(), "APIKey") {
		return "<redacted>"
	}
	return fe.Value()
}

// Get returns the environment value for key, or fallback when unset.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
