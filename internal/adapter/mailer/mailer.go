// Package mailer sends outgoing mail. Two strategies exist: "smtp" delivers
// through a real SMTP server, "log" writes the message to the operational
// log for development environments.
package mailer

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"

	"github.com/vozlab/asistente-backend/internal/config"
)

// Mailer delivers one message to one recipient.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// New selects the mailer strategy from config.
func New(cfg config.MailConfig, logger *slog.Logger) (Mailer, error) {
	switch cfg.Strategy {
	case "smtp":
		return &SMTPMailer{cfg: cfg}, nil
	case "log":
		return &LogMailer{log: logger.With("adapter", "mailer")}, nil
	default:
		return nil, fmt.Errorf("unknown mail strategy %q", cfg.Strategy)
	}
}

// SMTPMailer sends mail through an SMTP server with PLAIN auth.
type SMTPMailer struct {
	cfg config.MailConfig
}

func (m *SMTPMailer) Send(_ context.Context, to, subject, body string) error {
	addr := fmt.Sprintf("%s:%d", m.cfg.SMTPHost, m.cfg.SMTPPort)
	msg := []byte("From: " + m.cfg.From + "\r\n" +
		"To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: text/plain; charset=utf-8\r\n" +
		"\r\n" +
		body + "\r\n")

	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.SMTPHost)
	}

	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{to}, msg); err != nil {
		return fmt.Errorf("smtp send to %s: %w", to, err)
	}
	return nil
}

// LogMailer writes the message to the log instead of sending it.
type LogMailer struct {
	log *slog.Logger
}

func (m *LogMailer) Send(ctx context.Context, to, subject, body string) error {
	m.log.InfoContext(ctx, "mail (log strategy)",
		slog.String("to", to),
		slog.String("subject", subject),
		slog.String("body", body),
	)
	return nil
}
