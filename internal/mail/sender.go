// Package mail provides the outbound email transport for warning alerts.
// The dispatcher service depends only on the Sender interface; the SMTP
// implementation is wired in main, and a log-only fallback is used when no
// SMTP host is configured.
package mail

import (
	"context"
	"fmt"
	"log/slog"

	gomail "gopkg.in/gomail.v2"
)

// Sender delivers one HTML email.
type Sender interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// SMTPSender sends mail through an SMTP relay via gomail.
type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPSender constructs an SMTPSender for the given relay and From address.
func NewSMTPSender(host string, port int, username, password, from string) *SMTPSender {
	return &SMTPSender{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
	}
}

// Send delivers one HTML email, honoring context cancellation.
// gomail dials synchronously, so the dial-and-send runs in a goroutine and
// the first of (result, ctx.Done) wins.
func (s *SMTPSender) Send(ctx context.Context, to, subject, htmlBody string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	done := make(chan error, 1)
	go func() {
		done <- s.dialer.DialAndSend(m)
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("mail.SMTPSender.Send: %w", err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("mail.SMTPSender.Send: %w", ctx.Err())
	}
}

// LogSender logs alerts instead of delivering them. Used in local development
// when no SMTP host is configured, so the rest of the pipeline behaves exactly
// as in production (including notification records).
type LogSender struct {
	log *slog.Logger
}

// NewLogSender constructs a LogSender writing to the given logger.
func NewLogSender(log *slog.Logger) *LogSender {
	return &LogSender{log: log}
}

// Send logs the would-be email and reports success.
func (s *LogSender) Send(ctx context.Context, to, subject, _ string) error {
	s.log.InfoContext(ctx, "mail delivery disabled; alert logged only",
		"to", to,
		"subject", subject,
	)
	return nil
}
