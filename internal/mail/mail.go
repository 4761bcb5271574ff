// Package mail is the notification channel. Services hand it a subject and a
// body; where the message ends up depends on the configured driver.
package mail

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pkordes/cityinfo/internal/config"
)

// Sender delivers a single notification.
type Sender interface {
	Send(ctx context.Context, subject, body string) error
}

// New builds the Sender selected by cfg.Driver, wrapped in a circuit breaker.
func New(cfg config.Mail, log *slog.Logger) (Sender, error) {
	var s Sender
	switch cfg.Driver {
	case config.MailDriverLocal, "":
		s = NewLocalSender(cfg.From, cfg.To, log)
	case config.MailDriverSMTP:
		s = NewSMTPSender(cfg)
	default:
		return nil, fmt.Errorf("mail.New: unknown driver %q", cfg.Driver)
	}
	return NewBreakerSender(s, log), nil
}
