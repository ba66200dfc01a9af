// Package config loads the notifier's settings from the environment.
package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	TransportSMTP = "smtp"
	TransportHTTP = "http"
)

type Config struct {
	KafkaBrokers  []string `envconfig:"KAFKA_BROKERS" required:"true"`
	Topic         string   `envconfig:"ORDER_PLACED_TOPIC" default:"order-placed"`
	ConsumerGroup string   `envconfig:"CONSUMER_GROUP" default:"notification-service"`

	MailFrom  string `envconfig:"MAIL_FROM" default:"springshop@email.com"`
	MailBrand string `envconfig:"MAIL_BRAND" default:"Spring Shop"`
	// MailTransport selects the delivery backend: "smtp" or "http".
	MailTransport string `envconfig:"MAIL_TRANSPORT" default:"smtp"`

	SMTPHost     string        `envconfig:"SMTP_HOST" default:"localhost"`
	SMTPPort     int           `envconfig:"SMTP_PORT" default:"1025"`
	SMTPUsername string        `envconfig:"SMTP_USERNAME"`
	SMTPPassword string        `envconfig:"SMTP_PASSWORD"`
	SMTPTLS      string        `envconfig:"SMTP_TLS" default:"none"`
	SMTPTimeout  time.Duration `envconfig:"SMTP_TIMEOUT" default:"10s"`

	EmailServiceURL string        `envconfig:"EMAIL_SERVICE_URL"`
	HTTPTimeout     time.Duration `envconfig:"EMAIL_SERVICE_TIMEOUT" default:"10s"`

	MetricsPort   string `envconfig:"METRICS_PORT" default:"9464"`
	LogLevel      string `envconfig:"LOG_LEVEL" default:"info"`
	TracesEnabled bool   `envconfig:"OTEL_TRACES_ENABLED" default:"true"`
	OTLPEndpoint  string `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT" default:"localhost:4317"`
}

func Load() (*Config, error) {
	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if err := c.validate(); err != nil {
		return nil, err
	}

	return &c, nil
}

func (c *Config) validate() error {
	if len(c.KafkaBrokers) == 0 {
		return fmt.Errorf("KAFKA_BROKERS is required")
	}

	switch c.MailTransport {
	case TransportSMTP:
		if c.SMTPHost == "" {
			return fmt.Errorf("SMTP_HOST is required for the smtp transport")
		}
	case TransportHTTP:
		if c.EmailServiceURL == "" {
			return fmt.Errorf("EMAIL_SERVICE_URL is required for the http transport")
		}
	default:
		return fmt.Errorf("unknown MAIL_TRANSPORT %q", c.MailTransport)
	}

	switch c.SMTPTLS {
	case "none", "opportunistic", "mandatory":
	default:
		return fmt.Errorf("unknown SMTP_TLS %q", c.SMTPTLS)
	}

	return nil
}

// SlogLevel converts LogLevel to a slog.Level. Unknown values map to info.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
