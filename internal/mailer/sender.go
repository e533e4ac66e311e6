package mailer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Kyz7/wip/internal/config"
	"github.com/sirupsen/logrus"
)

// Sender delivers a plain-text message to one recipient.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
	Name() string
}

// NoopSender is used when no provider is configured. Messages are dropped.
type NoopSender struct{}

func (NoopSender) Send(context.Context, string, string, string) error { return nil }
func (NoopSender) Name() string                                       { return "none" }

// NewSender picks the provider named by MAIL_PROVIDER.
func NewSender(cfg *config.Config, log logrus.FieldLogger) (Sender, error) {
	switch strings.ToLower(cfg.MailProvider) {
	case "smtp":
		return NewSMTPSender(SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			User:     cfg.SMTPUser,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
		})
	case "mailgun":
		return NewMailgunSender(MailgunConfig{
			Domain: cfg.MailgunDomain,
			APIKey: cfg.MailgunAPIKey,
			From:   cfg.MailgunFrom,
		})
	case "", "none":
		log.Warn("mail provider not configured, outbound mail is disabled")
		return NoopSender{}, nil
	default:
		return nil, fmt.Errorf("unknown MAIL_PROVIDER %q", cfg.MailProvider)
	}
}

func authCodeMessage(code string) (string, string) {
	subject := "[WIP] Email verification code"
	body := fmt.Sprintf("Your WIP admin verification code is %s.\n\n"+
		"The code expires in 3 minutes. If you did not request it, ignore this message.", code)
	return subject, body
}

func loginAlarmMessage(nickname string, at time.Time) (string, string) {
	subject := "[WIP] New sign-in to your admin account"
	body := fmt.Sprintf("Hello %s,\n\nYour WIP admin account signed in at %s.\n"+
		"If this was not you, change your password and contact another administrator.",
		nickname, at.UTC().Format(time.RFC1123))
	return subject, body
}

func maskEmail(email string) string {
	at := strings.IndexByte(email, '@')
	if at <= 1 {
		return "***"
	}
	return email[:1] + "***" + email[at:]
}
