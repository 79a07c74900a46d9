// Package auth provides authentication via magic link email, passkeys,
// sessions, and API keys.
package auth

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds authentication configuration.
type Config struct {
	AdminUser string `env:"ADMIN_USER"`
	SMTPHost  string `env:"SMTP_HOST"`
	SMTPPort  string `env:"SMTP_PORT" envDefault:"587"`
	SMTPUser  string `env:"SMTP_USER"`
	SMTPPass  string `env:"SMTP_PASS"`
	SMTPFrom  string `env:"SMTP_FROM"`
	DevMode   bool   `env:"DEV_MODE"`
	BaseURL   string `env:"BASE_URL" envDefault:"http://localhost:8080"` // e.g. http://localhost:8080
}

// ConfigFromEnv creates a Config from MH_-prefixed environment variables.
func ConfigFromEnv() (Config, error) {
	cfg, err := env.ParseAsWithOptions[Config](env.Options{Prefix: "MH_"})
	if err != nil {
		return Config{}, fmt.Errorf("parsing auth config: %w", err)
	}
	return cfg, nil
}
