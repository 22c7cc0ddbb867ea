package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	AuthModeOIDC = "oidc"
	AuthModeJWT  = "jwt"
)

type Config struct {
	HTTP     HTTPConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Auth     AuthConfig
	Stripe   StripeConfig
	Pricing  PricingConfig
	Mail     MailConfig

	// LinkBaseURL - адрес фронтенда для ссылок генерации и результатов
	LinkBaseURL     string        `env:"LINK_BASE_URL" envDefault:"https://app.aisuitup.com"`
	ExternalTimeout time.Duration `env:"EXTERNAL_TIMEOUT" envDefault:"10s"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
}

type HTTPConfig struct {
	Addr            string        `env:"HTTP_ADDR" envDefault:":8080"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"5s"`
}

type DatabaseConfig struct {
	Host     string `env:"DB_HOST" envDefault:"localhost"`
	Port     string `env:"DB_PORT" envDefault:"5432"`
	User     string `env:"DB_USER" envDefault:"credits"`
	Password string `env:"DB_PASSWORD" envDefault:"credits"`
	DBName   string `env:"DB_NAME" envDefault:"team_credits"`
	SSLMode  string `env:"DB_SSLMODE" envDefault:"disable"`
}

// RedisConfig - лимит запросов на менеджера; пустой URL отключает лимитер
type RedisConfig struct {
	URL           string        `env:"REDIS_URL"`
	RequestLimit  int           `env:"RATE_LIMIT_REQUESTS" envDefault:"60"`
	RequestWindow time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"1m"`
}

type AuthConfig struct {
	Mode              string `env:"AUTH_MODE" envDefault:"oidc"`
	FirebaseProjectID string `env:"FIREBASE_PROJECT_ID"`
	FirebaseAPIKey    string `env:"FIREBASE_API_KEY"`
	SignInURL         string `env:"FIREBASE_SIGN_IN_URL"`
	JWTSecret         string `env:"JWT_SECRET"`
	JWTIssuer         string `env:"JWT_ISSUER"`
}

type StripeConfig struct {
	SecretKey     string `env:"STRIPE_SECRET_KEY"`
	WebhookSecret string `env:"STRIPE_WEBHOOK_KEY"`
	SuccessURL    string `env:"STRIPE_SUCCESS_URL" envDefault:"https://google.com"`
	CancelURL     string `env:"STRIPE_CANCEL_URL" envDefault:"https://facebook.com"`
}

type PricingConfig struct {
	BasePricePerCredit float64 `env:"BASE_PRICE_PER_CREDIT"`
	Currency           string  `env:"CURRENCY" envDefault:"inr"`
	ProductName        string  `env:"PRODUCT_NAME" envDefault:"Credits Purchase"`
}

type MailConfig struct {
	SendGridAPIKey string `env:"SENDGRID_API_KEY"`
	FromEmail      string `env:"FROM_EMAIL"`
	FromName       string `env:"FROM_NAME"`
}

// Load читает .env (если есть) и переменные окружения
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error

	if c.Pricing.BasePricePerCredit <= 0 {
		errs = append(errs, fmt.Errorf("invalid BASE_PRICE_PER_CREDIT: %v", c.Pricing.BasePricePerCredit))
	}

	switch c.Auth.Mode {
	case AuthModeOIDC:
		if c.Auth.FirebaseProjectID == "" {
			errs = append(errs, errors.New("FIREBASE_PROJECT_ID is required for oidc auth"))
		}
	case AuthModeJWT:
		if c.Auth.JWTSecret == "" {
			errs = append(errs, errors.New("JWT_SECRET is required for jwt auth"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown AUTH_MODE %q", c.Auth.Mode))
	}

	if c.Mail.FromEmail == "" {
		errs = append(errs, errors.New("FROM_EMAIL is required"))
	}

	if c.Redis.URL != "" && c.Redis.RequestLimit <= 0 {
		errs = append(errs, fmt.Errorf("invalid RATE_LIMIT_REQUESTS: %d", c.Redis.RequestLimit))
	}

	return errors.Join(errs...)
}
