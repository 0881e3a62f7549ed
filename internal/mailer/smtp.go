package mailer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/gomail.v2"
)

type SMTP struct {
	from Address
	log  *slog.Logger
	send func(m ...*gomail.Message) error
}

func NewSMTP(host string, port int, username, password string, from Address, log *slog.Logger) *SMTP {
	dialer := gomail.NewDialer(host, port, username, password)

	return &SMTP{
		from: from,
		log:  log,
		send: dialer.DialAndSend,
	}
}

func (s *SMTP) Send(ctx context.Context, msg Message) (string, error) {
	const op = "internal.mailer.SMTP.Send"

	if err := validate(msg); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	m, messageID := s.build(msg)

	if err := s.send(m); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("email sent via smtp",
		slog.String("op", op),
		slog.String("subject", msg.Subject),
		slog.String("message_id", messageID),
	)

	return messageID, nil
}

func (s *SMTP) build(msg Message) (*gomail.Message, string) {
	m := gomail.NewMessage()

	messageID := fmt.Sprintf("<%s@%s>", uuid.NewString(), domainOf(s.from.Email))
	m.SetHeader("Message-ID", messageID)
	m.SetAddressHeader("From", s.from.Email, s.from.Name)

	to := make([]string, len(msg.To))
	for i, addr := range msg.To {
		to[i] = m.FormatAddress(addr.Email, addr.Name)
	}
	m.SetHeader("To", to...)

	if msg.ReplyTo != nil {
		m.SetAddressHeader("Reply-To", msg.ReplyTo.Email, msg.ReplyTo.Name)
	}

	m.SetHeader("Subject", msg.Subject)

	switch {
	case msg.Text != "" && msg.HTML != "":
		m.SetBody("text/plain", msg.Text)
		m.AddAlternative("text/html", msg.HTML)
	case msg.HTML != "":
		m.SetBody("text/html", msg.HTML)
	default:
		m.SetBody("text/plain", msg.Text)
	}

	for _, a := range msg.Attachments {
		content := a.Content
		m.Attach(a.Filename,
			gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := w.Write(content)
				return err
			}),
			gomail.SetHeader(map[string][]string{"Content-Type": {a.ContentType}}),
		)
	}

	return m, messageID
}

func domainOf(email string) string {
	if at := strings.LastIndexByte(email, '@'); at >= 0 && at < len(email)-1 {
		return email[at+1:]
	}

	return "localhost"
}
