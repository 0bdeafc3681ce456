package config

import (
	"fmt"
	"time"

	pkgconfig "github.com/ridwaanalimubasheer/Rapid-Volt/pkg/config"
)

// Config holds all configuration for the storefront service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"HTTP_PORT" envDefault:"8080"`

	// Redis
	RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`

	// Cart TTL in hours (default: 7 days)
	CartTTL int `env:"CART_TTL_HOURS" envDefault:"168"`

	// Catalog JSON file; empty means the built-in product list.
	CatalogPath string `env:"CATALOG_PATH" envDefault:""`

	// Chat
	MatchThreshold  float64 `env:"CHAT_MATCH_THRESHOLD" envDefault:"0.4"`
	ChatIdleSeconds int     `env:"CHAT_IDLE_SECONDS" envDefault:"120"`

	// Order email dispatch. With no EmailJS service ID configured the
	// mock mailer is used and emails are only logged.
	OrderRecipient    string `env:"ORDER_RECIPIENT" envDefault:"rapidvoltshop@gmail.com"`
	EmailJSBaseURL    string `env:"EMAILJS_BASE_URL" envDefault:""`
	EmailJSServiceID  string `env:"EMAILJS_SERVICE_ID" envDefault:""`
	EmailJSTemplateID string `env:"EMAILJS_TEMPLATE_ID" envDefault:""`
	EmailJSPublicKey  string `env:"EMAILJS_PUBLIC_KEY" envDefault:""`

	// CORS
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`

	// Pprof debug endpoints; empty disables them.
	PprofAllowedCIDRs []string `env:"PPROF_ALLOWED_CIDRS" envDefault:"" envSeparator:","`

	// Tracing
	TracingEnabled  bool    `env:"TRACING_ENABLED" envDefault:"false"`
	OTLPEndpoint    string  `env:"OTLP_ENDPOINT" envDefault:"localhost:4318"`
	TraceSampleRate float64 `env:"TRACE_SAMPLE_RATE" envDefault:"1.0"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load storefront config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// EmailJSConfigured reports whether the EmailJS account parameters are set.
func (c *Config) EmailJSConfigured() bool {
	return c.EmailJSServiceID != "" && c.EmailJSTemplateID != "" && c.EmailJSPublicKey != ""
}

// ChatIdleTimeout returns the chat inactivity duration.
func (c *Config) ChatIdleTimeout() time.Duration {
	return time.Duration(c.ChatIdleSeconds) * time.Second
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if c.MatchThreshold < 0 || c.MatchThreshold >= 1 {
		return fmt.Errorf("invalid chat match threshold: %g", c.MatchThreshold)
	}
	return nil
}
