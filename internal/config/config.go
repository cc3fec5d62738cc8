package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config is the API server configuration.
type Config struct {
	Port                string   `mapstructure:"PORT"`
	DatabaseURL         string   `mapstructure:"DB_CONNECTION_STRING"`
	JWTSecret           string   `mapstructure:"JWT_SECRET"`
	RedisAddress        string   `mapstructure:"REDIS_ADDRESS"`
	RedisPassword       string   `mapstructure:"REDIS_PASSWORD"`
	CORSOrigins         []string `mapstructure:"CORS_ORIGINS"`
	LoginRateLimitRPS   float64  `mapstructure:"LOGIN_RATE_LIMIT_RPS"`
	LoginRateLimitBurst int      `mapstructure:"LOGIN_RATE_LIMIT_BURST"`
	LogLevel            string   `mapstructure:"LOG_LEVEL"`
	AppVersion          string   `mapstructure:"APP_VERSION"`
}

var apiKeys = []string{
	"PORT",
	"DB_CONNECTION_STRING",
	"JWT_SECRET",
	"REDIS_ADDRESS",
	"REDIS_PASSWORD",
	"CORS_ORIGINS",
	"LOGIN_RATE_LIMIT_RPS",
	"LOGIN_RATE_LIMIT_BURST",
	"LOG_LEVEL",
	"APP_VERSION",
}

// newViper reads the environment and an optional .env file in the working directory.
func newViper(keys []string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	for _, k := range keys {
		_ = v.BindEnv(k)
	}
	return v
}

// Load reads the environment and .env, applies defaults and validates.
func Load() (*Config, error) {
	v := newViper(apiKeys)

	v.SetDefault("PORT", "8080")
	v.SetDefault("REDIS_ADDRESS", "localhost:6379")
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("LOGIN_RATE_LIMIT_RPS", 1)
	v.SetDefault("LOGIN_RATE_LIMIT_BURST", 5)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("APP_VERSION", "dev")

	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.CORSOrigins = splitList(v.GetString("CORS_ORIGINS"))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DB_CONNECTION_STRING is required")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.LoginRateLimitRPS <= 0 || c.LoginRateLimitBurst <= 0 {
		return fmt.Errorf("LOGIN_RATE_LIMIT_RPS and LOGIN_RATE_LIMIT_BURST must be positive")
	}
	return nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
