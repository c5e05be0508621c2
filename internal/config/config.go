package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

type Config struct {
	Environment Environment
	Log         Log
	HTTP        HTTPServer
	BaseURL     string `env:"BASE_URL" envDefault:"http://localhost:8080"`
	DatabaseURL string `env:"DATABASE_URL" envDefault:"sqlite:berrypay.db"`

	Auth        Auth        `envPrefix:"AUTH_"`
	Upload      Upload      `envPrefix:"UPLOAD_"`
	Payment     Payment     `envPrefix:"PAYMENT_"`
	Paypal      Paypal      `envPrefix:"PAYPAL_"`
	MercadoPago MercadoPago `envPrefix:"MERCADOPAGO_"`
	Redis       Redis       `envPrefix:"REDIS_"`
	Metrics     Metrics     `envPrefix:"METRICS_"`
}

type Environment struct {
	Name string `env:"ENVIRONMENT" envDefault:"development"`
}

type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

type HTTPServer struct {
	Host string `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	Port string `env:"HTTP_PORT" envDefault:"8080"`
}

type Auth struct {
	JWTSecret    string        `env:"JWT_SECRET" envDefault:"change-me"`
	SessionTTL   time.Duration `env:"SESSION_TTL" envDefault:"168h"`
	CookieName   string        `env:"COOKIE_NAME" envDefault:"berrypay_session"`
	CookieSecure bool          `env:"COOKIE_SECURE" envDefault:"false"`
}

type Upload struct {
	Dir      string `env:"DIR" envDefault:"uploads"`
	MaxBytes int64  `env:"MAX_BYTES" envDefault:"5242880"`
}

type Payment struct {
	Currency string `env:"CURRENCY" envDefault:"BRL"`
}

type Paypal struct {
	Mode         string `env:"MODE" envDefault:"mock"` // mock, live
	BaseApiURL   string `env:"BASE_API_URL" envDefault:"https://api-m.sandbox.paypal.com"`
	ClientID     string `env:"CLIENT_ID"`
	ClientSecret string `env:"CLIENT_SECRET"`
}

type MercadoPago struct {
	AccessToken string `env:"ACCESS_TOKEN"`
}

type Redis struct {
	Addr     string        `env:"ADDR"`
	Password string        `env:"PASSWORD"`
	DB       int           `env:"DB" envDefault:"0"`
	UseTLS   bool          `env:"TLS" envDefault:"false"`
	TTL      time.Duration `env:"TTL" envDefault:"60s"`
}

type Metrics struct {
	Namespace string `env:"NAMESPACE" envDefault:"berrypay"`
}

// Load parses the process environment into a Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if cfg.Paypal.Mode != "mock" && cfg.Paypal.Mode != "live" {
		return nil, fmt.Errorf("PAYPAL_MODE must be mock or live, got %q", cfg.Paypal.Mode)
	}
	return cfg, nil
}

func (c *Config) ListenAddr() string {
	return c.HTTP.Host + ":" + c.HTTP.Port
}
