package mail

import (
	"context"
	"fmt"

	"github.com/go-gomail/gomail"
	"github.com/google/uuid"

	"github.com/pkordes/cityinfo/internal/config"
)

// SMTPSender delivers notifications through an SMTP relay.
type SMTPSender struct {
	from, to string
	host     string
	dialer   *gomail.Dialer
}

// NewSMTPSender returns a sender for the relay described by cfg.
func NewSMTPSender(cfg config.Mail) *SMTPSender {
	return &SMTPSender{
		from:   cfg.From,
		to:     cfg.To,
		host:   cfg.SMTPHost,
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass),
	}
}

// Send dials the relay and delivers one plain-text message. gomail has no
// context support, so ctx is only checked before dialing.
func (s *SMTPSender) Send(ctx context.Context, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.dialer.DialAndSend(s.message(subject, body)); err != nil {
		return fmt.Errorf("mail.SMTPSender.Send: %w", err)
	}
	return nil
}

func (s *SMTPSender) message(subject, body string) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", s.to)
	m.SetHeader("Subject", subject)
	m.SetHeader("Message-ID", fmt.Sprintf("<%s@%s>", uuid.NewString(), s.host))
	m.SetBody("text/plain", body)
	return m
}
