package mail

import (
	"context"

	"github.com/google/uuid"

	"github.com/aydjer/agrimarket/internal/logger"
)

// LogMailer writes messages to the log instead of delivering them.
// Meant for development and tests.
type LogMailer struct {
	Logger logger.Logger
}

func (m *LogMailer) Send(ctx context.Context, msg Message) (string, error) {
	id := uuid.NewString()
	m.Logger.Info("mail send skipped, logging instead",
		"id", id,
		"to", msg.To,
		"subject", msg.Subject,
	)
	return id, nil
}
