package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	DatabaseURL    string
	AppHost        string
	AppEnv         string
	JWTSecret      string
	NatsURL        string
	RedisURL       string
	StateCacheTTL  time.Duration
	ReevaluateCron string
	RequestTimeout time.Duration
	WriteRateLimit int
	MigrationsDir  string
}

func (c Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func defaults(v *viper.Viper) {
	v.SetDefault("app_host", ":8080")
	v.SetDefault("app_env", "development")
	v.SetDefault("state_cache_ttl", "5m")
	v.SetDefault("reevaluate_cron", "")
	v.SetDefault("request_timeout", "30s")
	v.SetDefault("write_rate_limit", 120)
	v.SetDefault("migrations_dir", "migrations")
}

// Load reads .env (without overriding the environment), an optional
// config.yaml from configPath and finally the process environment.
func Load(configPath string) (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	defaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if configPath != "" {
		v.AddConfigPath(configPath)
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	v.AutomaticEnv()
	for _, key := range []string{
		"database_url",
		"app_host",
		"app_env",
		"jwt_secret",
		"nats_url",
		"redis_url",
		"state_cache_ttl",
		"reevaluate_cron",
		"request_timeout",
		"write_rate_limit",
		"migrations_dir",
	} {
		_ = v.BindEnv(key)
	}

	return fromViper(v)
}

func fromViper(v *viper.Viper) (Config, error) {
	cfg := Config{
		DatabaseURL:    v.GetString("database_url"),
		AppHost:        v.GetString("app_host"),
		AppEnv:         v.GetString("app_env"),
		JWTSecret:      v.GetString("jwt_secret"),
		NatsURL:        v.GetString("nats_url"),
		RedisURL:       v.GetString("redis_url"),
		StateCacheTTL:  v.GetDuration("state_cache_ttl"),
		ReevaluateCron: v.GetString("reevaluate_cron"),
		RequestTimeout: v.GetDuration("request_timeout"),
		WriteRateLimit: v.GetInt("write_rate_limit"),
		MigrationsDir:  v.GetString("migrations_dir"),
	}

	if cfg.StateCacheTTL < 0 {
		return Config{}, fmt.Errorf("state_cache_ttl must not be negative")
	}
	if cfg.RequestTimeout < 0 {
		return Config{}, fmt.Errorf("request_timeout must not be negative")
	}
	if cfg.WriteRateLimit < 0 {
		return Config{}, fmt.Errorf("write_rate_limit must not be negative")
	}

	return cfg, nil
}

func (c Config) RequireDatabase() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is not set")
	}
	return nil
}
