package mailer

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"

	"github.com/YusovID/agency-backoffice/pkg/logger/sl"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

const messageIDHeader = "X-Message-Id"

type SendGrid struct {
	apiKey  string
	baseURL string
	from    Address
	log     *slog.Logger
}

func NewSendGrid(apiKey string, from Address, log *slog.Logger) *SendGrid {
	return &SendGrid{
		apiKey: apiKey,
		from:   from,
		log:    log,
	}
}

// client is built per call: sendgrid.Client keeps the request body on itself.
func (s *SendGrid) client() *sendgrid.Client {
	c := sendgrid.NewSendClient(s.apiKey)
	if s.baseURL != "" {
		c.BaseURL = s.baseURL
	}

	return c
}

func (s *SendGrid) Send(ctx context.Context, msg Message) (string, error) {
	const op = "internal.mailer.SendGrid.Send"
	log := s.log.With(slog.String("op", op), slog.String("subject", msg.Subject))

	if err := validate(msg); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	response, err := s.client().SendWithContext(ctx, s.build(msg))
	if err != nil {
		log.Error("sendgrid request failed", sl.Err(err))
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if response.StatusCode >= 400 {
		log.Error("sendgrid rejected message",
			slog.Int("status", response.StatusCode),
			slog.String("body", response.Body),
		)

		return "", fmt.Errorf("%s: sendgrid returned status %d", op, response.StatusCode)
	}

	var messageID string
	if ids := response.Headers[messageIDHeader]; len(ids) > 0 {
		messageID = ids[0]
	}

	log.Info("email accepted by sendgrid", slog.String("message_id", messageID))

	return messageID, nil
}

func (s *SendGrid) build(msg Message) *mail.SGMailV3 {
	m := mail.NewV3Mail()
	m.SetFrom(mail.NewEmail(s.from.Name, s.from.Email))
	m.Subject = msg.Subject

	p := mail.NewPersonalization()
	for _, to := range msg.To {
		p.AddTos(mail.NewEmail(to.Name, to.Email))
	}
	m.AddPersonalizations(p)

	if msg.ReplyTo != nil {
		m.SetReplyTo(mail.NewEmail(msg.ReplyTo.Name, msg.ReplyTo.Email))
	}

	// SendGrid requires text/plain before text/html.
	if msg.Text != "" {
		m.AddContent(mail.NewContent("text/plain", msg.Text))
	}

	if msg.HTML != "" {
		m.AddContent(mail.NewContent("text/html", msg.HTML))
	}

	for _, a := range msg.Attachments {
		att := mail.NewAttachment()
		att.SetContent(base64.StdEncoding.EncodeToString(a.Content))
		att.SetType(a.ContentType)
		att.SetFilename(a.Filename)
		att.SetDisposition("attachment")
		m.AddAttachment(att)
	}

	return m
}
