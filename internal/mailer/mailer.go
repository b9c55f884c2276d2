package mailer

import (
	"fmt"
	"log/slog"

	"gopkg.in/gomail.v2"

	"reviewhub/internal/config"
)

// Mailer delivers confirmation codes out-of-band. Delivery is best-effort:
// callers fire it from a goroutine and only log failures.
type Mailer interface {
	SendConfirmationCode(to, username, code string) error
}

// New returns the SMTP mailer, or a log-only mailer when no SMTP host is
// configured (local development).
func New(cfg *config.Config, logger *slog.Logger) Mailer {
	if cfg.SMTPHost == "" {
		logger.Warn("SMTP_HOST not set, confirmation codes will be logged instead of emailed")
		return &logMailer{logger: logger}
	}
	return &smtpMailer{
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword),
		from:   cfg.EmailFrom,
	}
}

type smtpMailer struct {
	dialer *gomail.Dialer
	from   string
}

func (m *smtpMailer) SendConfirmationCode(to, username, code string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "reviewhub confirmation code")
	msg.SetBody("text/plain", fmt.Sprintf("Hello %s,\n\nYour confirmation code: %s\n", username, code))

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send confirmation code: %w", err)
	}
	return nil
}

type logMailer struct {
	logger *slog.Logger
}

func (m *logMailer) SendConfirmationCode(to, username, code string) error {
	m.logger.Info("confirmation code issued", "to", to, "username", username, "code", code)
	return nil
}
