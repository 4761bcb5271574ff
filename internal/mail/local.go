package mail

import (
	"context"
	"log/slog"
)

// LocalSender writes notifications to the log instead of delivering them.
// It is the development default.
type LocalSender struct {
	from, to string
	log      *slog.Logger
}

// NewLocalSender returns a LocalSender that logs through log.
func NewLocalSender(from, to string, log *slog.Logger) *LocalSender {
	return &LocalSender{from: from, to: to, log: log}
}

// Send logs the mail at info level. It only fails on a cancelled context.
func (s *LocalSender) Send(ctx context.Context, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.log.InfoContext(ctx, "mail sent",
		slog.String("from", s.from),
		slog.String("to", s.to),
		slog.String("subject", subject),
		slog.String("body", body),
	)
	return nil
}
