// Package mailer sends transactional email through SendGrid, SMTP or, for
// local development, the log.
package mailer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/YusovID/agency-backoffice/internal/config"
)

type Address struct {
	Name  string
	Email string
}

type Attachment struct {
	Filename    string
	ContentType string
	Content     []byte
}

type Message struct {
	To          []Address
	ReplyTo     *Address
	Subject     string
	Text        string
	HTML        string
	Attachments []Attachment
}

// Mailer delivers a message and returns the provider's message id.
// An error means the provider did not accept the message.
type Mailer interface {
	Send(ctx context.Context, msg Message) (string, error)
}

// New builds the Mailer selected by cfg.Provider.
func New(cfg config.Mail, log *slog.Logger) (Mailer, error) {
	from := Address{Name: cfg.FromName, Email: cfg.FromEmail}

	switch cfg.Provider {
	case config.MailProviderSendGrid:
		return NewSendGrid(cfg.SendGridAPIKey, from, log), nil
	case config.MailProviderSMTP:
		return NewSMTP(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, from, log), nil
	case config.MailProviderConsole:
		return NewConsole(from, log), nil
	default:
		return nil, fmt.Errorf("unknown mail provider %q", cfg.Provider)
	}
}

func validate(msg Message) error {
	if len(msg.To) == 0 {
		return fmt.Errorf("message has no recipients")
	}

	for _, to := range msg.To {
		if to.Email == "" {
			return fmt.Errorf("recipient without an email address")
		}
	}

	return nil
}
