// Package email delivers outbound mail: Resend in deployed environments, the
// log in local development.
package email

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/resend/resend-go/v2"
)

// Message is one outbound email. RefID groups related mails for the provider
// and must not contain personal data.
type Message struct {
	To      string
	Subject string
	HTML    string
	Text    string
	Kind    string
	RefID   string
}

type Sender interface {
	Send(ctx context.Context, msg Message) error
}

type LogSender struct {
	logger *slog.Logger
}

// Send logs the envelope only. Bodies can carry personal notes.
func (s *LogSender) Send(ctx context.Context, msg Message) error {
	s.logger.InfoContext(ctx, "email not sent (local)",
		"to", msg.To,
		"subject", msg.Subject,
		"kind", msg.Kind,
		"ref_id", msg.RefID,
		"html_bytes", len(msg.HTML),
	)
	return nil
}

type ResendSender struct {
	client *resend.Client
	from   string
}

func (s *ResendSender) Send(ctx context.Context, msg Message) error {
	req := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{msg.To},
		Subject: msg.Subject,
		Html:    msg.HTML,
		Text:    msg.Text,
	}
	if msg.Kind != "" {
		req.Tags = []resend.Tag{{Name: "kind", Value: msg.Kind}}
	}
	if msg.RefID != "" {
		req.Headers = map[string]string{"X-Entity-Ref-ID": msg.RefID}
	}

	if _, err := s.client.Emails.SendWithContext(ctx, req); err != nil {
		return fmt.Errorf("resend %s email: %w", msg.Kind, err)
	}
	return nil
}

// NewSender picks the log sender for ENV=local and Resend everywhere else.
func NewSender(env, apiKey, from string, logger *slog.Logger) Sender {
	if env == "local" {
		return &LogSender{logger: logger.With("component", "email")}
	}
	return &ResendSender{client: resend.NewClient(apiKey), from: from}
}
