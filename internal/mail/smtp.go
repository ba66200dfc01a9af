package mail

import (
	"context"
	"fmt"
	"time"

	gomail "github.com/wneessen/go-mail"
)

// SMTPConfig describes how to reach the SMTP relay.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	// TLS is one of "none", "opportunistic" or "mandatory".
	TLS     string
	Timeout time.Duration
}

// SMTPSender delivers messages through an SMTP relay. A new connection is
// dialed for every message, so a single SMTPSender can be shared between
// goroutines.
type SMTPSender struct {
	opts []gomail.Option
	host string
}

func NewSMTPSender(cfg SMTPConfig) (*SMTPSender, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("smtp host is required")
	}

	opts := []gomail.Option{
		gomail.WithPort(cfg.Port),
		gomail.WithTLSPolicy(tlsPolicy(cfg.TLS)),
	}
	if cfg.Timeout > 0 {
		opts = append(opts, gomail.WithTimeout(cfg.Timeout))
	}
	// Local relays such as MailHog accept unauthenticated submissions.
	if cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(cfg.Username),
			gomail.WithPassword(cfg.Password),
		)
	}

	if _, err := gomail.NewClient(cfg.Host, opts...); err != nil {
		return nil, fmt.Errorf("create mail client: %w", err)
	}

	return &SMTPSender{opts: opts, host: cfg.Host}, nil
}

func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	m := gomail.NewMsg()
	if err := m.From(msg.From); err != nil {
		return fmt.Errorf("invalid from address: %w", err)
	}
	if err := m.To(msg.To); err != nil {
		return fmt.Errorf("invalid recipient %q: %w", msg.To, err)
	}
	m.Subject(msg.Subject)
	m.SetDate()
	m.SetMessageID()
	m.SetBodyString(gomail.TypeTextPlain, msg.Body)

	c, err := gomail.NewClient(s.host, s.opts...)
	if err != nil {
		return fmt.Errorf("create mail client: %w", err)
	}

	if err := c.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("smtp send to %s: %w", msg.To, err)
	}

	return nil
}

func tlsPolicy(mode string) gomail.TLSPolicy {
	switch mode {
	case "mandatory":
		return gomail.TLSMandatory
	case "opportunistic":
		return gomail.TLSOpportunistic
	default:
		return gomail.NoTLS
	}
}
