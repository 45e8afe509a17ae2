package mail

import (
	"context"
)

type Message struct {
	To      string
	Subject string
	HTML    string
}

// Mailer delivers one message and returns the provider message id.
// An empty id with a nil error is treated as a failed send by callers.
type Mailer interface {
	Send(ctx context.Context, msg Message) (string, error)
}
