package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"IAM CRM"`
		Port int    `envconfig:"PORT" default:"8080"`
	}

	Storage struct {
		DataDir     string `envconfig:"DATA_DIR" default:"data"`
		BackupEvery int    `envconfig:"BACKUP_EVERY" default:"10"`
	}

	Auth struct {
		Secret   string        `envconfig:"AUTH_SECRET" required:"true"`
		Password string        `envconfig:"AUTH_PASSWORD" required:"true"`
		TokenTTL time.Duration `envconfig:"TOKEN_TTL" default:"24h"`
	}

	HTTP struct {
		AllowedOrigins []string `envconfig:"CORS_ORIGINS" default:"*"`
	}
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
