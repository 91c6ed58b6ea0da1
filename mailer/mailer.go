// Package mailer delivers transactional mail such as verification codes.
package mailer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type Sender interface {
	Send(ctx context.Context, to, subject, plain, html string) error
}

// New returns a SendGrid sender when apiKey is set and a LogSender otherwise.
func New(apiKey, from, fromName string, logger *slog.Logger) Sender {
	if apiKey == "" {
		return NewLogSender(logger)
	}
	return NewSendGridSender(apiKey, from, fromName, logger)
}

type SendGridSender struct {
	client *sendgrid.Client
	from   *mail.Email
	logger *slog.Logger
}

func NewSendGridSender(apiKey, from, fromName string, logger *slog.Logger) *SendGridSender {
	return &SendGridSender{
		client: sendgrid.NewSendClient(apiKey),
		from:   mail.NewEmail(fromName, from),
		logger: logger,
	}
}

func (s *SendGridSender) Send(ctx context.Context, to, subject, plain, html string) error {
	message := mail.NewSingleEmail(s.from, subject, mail.NewEmail("", to), plain, html)

	response, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	if response.StatusCode >= 300 {
		return fmt.Errorf("send mail: sendgrid status %d: %s", response.StatusCode, response.Body)
	}

	s.logger.Info("mail sent", "to", to, "subject", subject, "status", response.StatusCode)
	return nil
}

// LogSender writes mail to the log instead of delivering it.
type LogSender struct {
	logger *slog.Logger
}

func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(ctx context.Context, to, subject, plain, _ string) error {
	s.logger.InfoContext(ctx, "mail not delivered, no provider configured",
		"to", to,
		"subject", subject,
		"body", plain,
	)
	return nil
}

// VerificationMail renders the message carrying a registration code.
func VerificationMail(firstName, code string) (subject, plain, html string) {
	subject = "Your clubhub verification code"
	plain = fmt.Sprintf("Hi %s,\n\nyour verification code is %s. It expires in 15 minutes.", firstName, code)
	html = fmt.Sprintf("<p>Hi %s,</p><p>your verification code is <strong>%s</strong>. It expires in 15 minutes.</p>", firstName, code)
	return subject, plain, html
}
