package mailer

import (
	"context"
	"errors"

	"github.com/mailgun/mailgun-go/v4"
)

type MailgunConfig struct {
	Domain string
	APIKey string
	From   string
}

type MailgunSender struct {
	mg   *mailgun.MailgunImpl
	from string
}

func NewMailgunSender(cfg MailgunConfig) (*MailgunSender, error) {
	if cfg.Domain == "" || cfg.APIKey == "" || cfg.From == "" {
		return nil, errors.New("MAILGUN_DOMAIN, MAILGUN_API_KEY and MAILGUN_FROM are required")
	}
	return &MailgunSender{
		mg:   mailgun.NewMailgun(cfg.Domain, cfg.APIKey),
		from: cfg.From,
	}, nil
}

func (s *MailgunSender) Name() string { return "mailgun" }

func (s *MailgunSender) Send(ctx context.Context, to, subject, body string) error {
	message := s.mg.NewMessage(s.from, subject, body, to)
	_, _, err := s.mg.Send(ctx, message)
	return err
}
