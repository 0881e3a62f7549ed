package mailer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// Console logs messages instead of sending them.
type Console struct {
	from Address
	log  *slog.Logger
}

func NewConsole(from Address, log *slog.Logger) *Console {
	return &Console{from: from, log: log}
}

func (c *Console) Send(_ context.Context, msg Message) (string, error) {
	const op = "internal.mailer.Console.Send"

	if err := validate(msg); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	messageID := "console-" + uuid.NewString()

	recipients := make([]string, len(msg.To))
	for i, to := range msg.To {
		recipients[i] = to.Email
	}

	attachments := make([]string, len(msg.Attachments))
	for i, a := range msg.Attachments {
		attachments[i] = fmt.Sprintf("%s (%d bytes)", a.Filename, len(a.Content))
	}

	c.log.Info("email not sent, console mailer",
		slog.String("op", op),
		slog.String("message_id", messageID),
		slog.String("from", c.from.Email),
		slog.Any("to", recipients),
		slog.String("subject", msg.Subject),
		slog.Any("attachments", attachments),
	)

	return messageID, nil
}
