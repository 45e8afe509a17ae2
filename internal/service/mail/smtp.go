package mail

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	gomail "github.com/wneessen/go-mail"
)

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPMailer delivers messages over SMTP
type SMTPMailer struct {
	client *gomail.Client
	from   string
}

func NewSMTPMailer(cfg SMTPConfig) (*SMTPMailer, error) {
	if cfg.Host == "" || cfg.From == "" {
		return nil, errors.New("smtp host and from address must not be empty")
	}

	opts := []gomail.Option{
		gomail.WithPort(cfg.Port),
	}
	if cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(cfg.Username),
			gomail.WithPassword(cfg.Password),
		)
	}

	client, err := gomail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("error while creating smtp client. Err: %w", err)
	}

	return &SMTPMailer{client: client, from: cfg.From}, nil
}

func (m *SMTPMailer) Send(ctx context.Context, msg Message) (string, error) {
	id := uuid.NewString()

	mail := gomail.NewMsg()
	if err := mail.From(m.from); err != nil {
		return "", fmt.Errorf("invalid from address. Err: %w", err)
	}
	if err := mail.To(msg.To); err != nil {
		return "", fmt.Errorf("invalid to address. Err: %w", err)
	}
	mail.Subject(msg.Subject)
	mail.SetBodyString(gomail.TypeTextHTML, msg.HTML)
	mail.SetMessageIDWithValue(id)

	if err := m.client.DialAndSendWithContext(ctx, mail); err != nil {
		return "", fmt.Errorf("error while sending mail. Err: %w", err)
	}

	return id, nil
}
