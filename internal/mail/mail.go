// Package mail delivers reminder emails over a configurable transport.
package mail

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mailgun/mailgun-go/v5"
	gomail "github.com/wneessen/go-mail"

	"github.com/kinectapp/kinect/internal/config"
	"github.com/kinectapp/kinect/internal/reminders"
	"github.com/kinectapp/kinect/internal/users"
)

// New builds the configured mail transport: "smtp", "mailgun", or "log".
func New(log *slog.Logger, cfg config.MailConfig) (reminders.Mailer, error) {
	if log == nil {
		log = slog.Default()
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "smtp":
		return newSMTPMailer(log, cfg)
	case "mailgun":
		return newMailgunMailer(log, cfg)
	case "log", "":
		return &LogMailer{logger: log.With(slog.String("mailer", "log"))}, nil
	default:
		return nil, fmt.Errorf("unknown mail provider: %s", cfg.Provider)
	}
}

// SMTPMailer sends reminder emails through an SMTP relay.
type SMTPMailer struct {
	client *gomail.Client
	from   string
	logger *slog.Logger
}

func newSMTPMailer(log *slog.Logger, cfg config.MailConfig) (*SMTPMailer, error) {
	if strings.TrimSpace(cfg.SMTPHost) == "" {
		return nil, fmt.Errorf("smtp_host is required for the smtp provider")
	}
	opts := []gomail.Option{
		gomail.WithPort(cfg.SMTPPort),
		gomail.WithTLSPolicy(gomail.TLSOpportunistic),
	}
	if cfg.SMTPUser != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(cfg.SMTPUser),
			gomail.WithPassword(cfg.SMTPPassword),
		)
	}
	client, err := gomail.NewClient(cfg.SMTPHost, opts...)
	if err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}
	return &SMTPMailer{
		client: client,
		from:   cfg.From,
		logger: log.With(slog.String("mailer", "smtp")),
	}, nil
}

func (m *SMTPMailer) SendReminder(ctx context.Context, user users.User, overdue []reminders.OverdueContact) error {
	if strings.TrimSpace(user.Email) == "" {
		return fmt.Errorf("user %s has no email address", user.ID)
	}
	subject, body := renderReminder(user, overdue)

	msg := gomail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return fmt.Errorf("from address: %w", err)
	}
	if err := msg.To(user.Email); err != nil {
		return fmt.Errorf("to address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextPlain, body)

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	m.logger.Info("reminder sent", slog.String("user_id", user.ID), slog.Int("contacts", len(overdue)))
	return nil
}

// MailgunMailer sends reminder emails through the Mailgun API.
type MailgunMailer struct {
	client *mailgun.Client
	domain string
	from   string
	logger *slog.Logger
}

func newMailgunMailer(log *slog.Logger, cfg config.MailConfig) (*MailgunMailer, error) {
	if strings.TrimSpace(cfg.MailgunDomain) == "" || strings.TrimSpace(cfg.MailgunAPIKey) == "" {
		return nil, fmt.Errorf("mailgun_domain and mailgun_api_key are required for the mailgun provider")
	}
	return &MailgunMailer{
		client: mailgun.NewMailgun(cfg.MailgunAPIKey),
		domain: cfg.MailgunDomain,
		from:   cfg.From,
		logger: log.With(slog.String("mailer", "mailgun")),
	}, nil
}

func (m *MailgunMailer) SendReminder(ctx context.Context, user users.User, overdue []reminders.OverdueContact) error {
	if strings.TrimSpace(user.Email) == "" {
		return fmt.Errorf("user %s has no email address", user.ID)
	}
	subject, body := renderReminder(user, overdue)
	msg := mailgun.NewMessage(m.domain, m.from, subject, body, user.Email)
	if _, err := m.client.Send(ctx, msg); err != nil {
		return fmt.Errorf("mailgun send: %w", err)
	}
	m.logger.Info("reminder sent", slog.String("user_id", user.ID), slog.Int("contacts", len(overdue)))
	return nil
}

// LogMailer logs reminders instead of delivering them; the default in
// development and tests.
type LogMailer struct {
	logger *slog.Logger
}

func (m *LogMailer) SendReminder(_ context.Context, user users.User, overdue []reminders.OverdueContact) error {
	subject, _ := renderReminder(user, overdue)
	m.logger.Info("reminder (not delivered)",
		slog.String("user_id", user.ID),
		slog.String("email", user.Email),
		slog.String("subject", subject),
		slog.Int("contacts", len(overdue)),
	)
	return nil
}
