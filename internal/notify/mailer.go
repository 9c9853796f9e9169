// Package notify delivers out-of-band notifications: transactional email
// through an HTTP mail provider and real-time pushes through Redis.
package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/freelance-marketplace/internal/config"
)

// Email is a single transactional message.
type Email struct {
	ToName    string
	ToAddress string
	Subject   string
	HTML      string
}

// Mailer sends transactional email.
type Mailer interface {
	Send(ctx context.Context, email Email) error
}

// NewMailer returns an HTTP provider client when an API URL is configured and
// a log-only mailer otherwise.
func NewMailer(cfg config.NotificationConfig, logger *zap.Logger) Mailer {
	if strings.TrimSpace(cfg.EmailAPIURL) == "" {
		return &LogMailer{logger: logger, from: cfg.EmailFrom}
	}
	return NewHTTPMailer(cfg)
}

type mailAddress struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
}

type mailRequest struct {
	Sender      mailAddress   `json:"sender"`
	To          []mailAddress `json:"to"`
	Subject     string        `json:"subject"`
	HTMLContent string        `json:"htmlContent"`
}

// HTTPMailer posts messages to a JSON transactional mail API.
type HTTPMailer struct {
	url     string
	apiKey  string
	from    mailAddress
	timeout time.Duration
}

// NewHTTPMailer builds a provider client from configuration.
func NewHTTPMailer(cfg config.NotificationConfig) *HTTPMailer {
	return &HTTPMailer{
		url:     cfg.EmailAPIURL,
		apiKey:  cfg.EmailAPIKey,
		from:    mailAddress{Name: cfg.EmailFromName, Email: cfg.EmailFrom},
		timeout: cfg.Timeout(),
	}
}

// Send delivers the email and reports any transport or provider error.
func (m *HTTPMailer) Send(ctx context.Context, email Email) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(email.ToAddress) == "" {
		return errors.New("email recipient required")
	}

	timeout := m.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}

	agent := fiber.Post(m.url)
	agent.Set(fiber.HeaderAccept, fiber.MIMEApplicationJSON)
	if m.apiKey != "" {
		agent.Set("api-key", m.apiKey)
	}
	agent.Timeout(timeout)
	agent.JSON(mailRequest{
		Sender:      m.from,
		To:          []mailAddress{{Name: email.ToName, Email: email.ToAddress}},
		Subject:     email.Subject,
		HTMLContent: email.HTML,
	})

	status, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("send email: %w", errors.Join(errs...))
	}
	if status < 200 || status >= 300 {
		return fmt.Errorf("send email: provider returned %d: %s", status, truncate(string(body), 200))
	}
	return nil
}

// LogMailer records emails in the log instead of sending them.
type LogMailer struct {
	logger *zap.Logger
	from   string
}

func (m *LogMailer) Send(_ context.Context, email Email) error {
	m.logger.Info("email not sent: no provider configured",
		zap.String("from", m.from),
		zap.String("to", email.ToAddress),
		zap.String("subject", email.Subject))
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
