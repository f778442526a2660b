package mail

import (
	"context"
	"fmt"
	"html"
	"log/slog"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

const fromName = "Task Manager"

// Message is a single plain-text transactional email.
type Message struct {
	ToEmail string
	ToName  string
	Subject string
	Text    string
}

// Sender delivers one message synchronously.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SendGridSender delivers mail through the SendGrid v3 API.
type SendGridSender struct {
	client *sendgrid.Client
	from   *sgmail.Email
}

// NewSendGridSender creates a sender authenticated with apiKey.
func NewSendGridSender(apiKey, from string) *SendGridSender {
	return &SendGridSender{
		client: sendgrid.NewSendClient(apiKey),
		from:   sgmail.NewEmail(fromName, from),
	}
}

// Send posts msg to SendGrid and fails on any non-2xx answer.
func (s *SendGridSender) Send(ctx context.Context, msg Message) error {
	to := sgmail.NewEmail(msg.ToName, msg.ToEmail)
	body := sgmail.NewSingleEmail(s.from, msg.Subject, to, msg.Text, "<p>"+html.EscapeString(msg.Text)+"</p>")

	resp, err := s.client.SendWithContext(ctx, body)
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid send: status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}

// LogSender only logs messages. Used when no SendGrid key is configured.
type LogSender struct {
	logger *slog.Logger
}

// NewLogSender creates a sender writing to logger.
func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(ctx context.Context, msg Message) error {
	s.logger.InfoContext(ctx, "email not sent, no provider configured",
		"to", msg.ToEmail, "subject", msg.Subject)
	return nil
}
