package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config centraliza toda la configuración vía env vars.
// Ningún paquete lee os.Getenv directamente salvo el logger (bootstrap).
type Config struct {
	Port    string `env:"PORT" envDefault:"8080"`
	BaseURL string `env:"BASE_URL" envDefault:"http://localhost:8080"`

	// Si viene vacío, el router usa repos in-memory (modo dev).
	DBDSN string `env:"DB_DSN"`

	// Si viene vacío, rate limiting in-memory (single instance).
	RedisURL string `env:"REDIS_URL"`

	ResendAPIKey string `env:"RESEND_API_KEY"`
	EmailFrom    string `env:"EMAIL_FROM" envDefault:"Cardulary <noreply@cardulary.app>"`

	TwilioAccountSID  string `env:"TWILIO_ACCOUNT_SID"`
	TwilioAuthToken   string `env:"TWILIO_AUTH_TOKEN"`
	TwilioPhoneNumber string `env:"TWILIO_PHONE_NUMBER"`

	AnthropicAPIKey string `env:"ANTHROPIC_API_KEY"`

	// Servicio externo de sesiones; si falta, el middleware corre en
	// modo dev (X-Debug-User-ID).
	SessionsBaseURL string `env:"SESSIONS_BASE_URL"`
	SessionsAPIKey  string `env:"SESSIONS_API_KEY"`

	// API key para la integración externa (/external/*).
	ExternalAPIKey string `env:"EXTERNAL_API_KEY"`
}

func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func (c Config) Addr() string {
	return ":" + c.Port
}
