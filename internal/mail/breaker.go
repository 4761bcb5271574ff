package mail

import (
	"context"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"
)

const (
	breakerName     = "mail"
	breakerFailures = 5
	breakerTimeout  = 30 * time.Second
)

// BreakerSender stops calling a failing Sender for a while after
// consecutive failures. While open, Send fails fast with gobreaker.ErrOpenState.
type BreakerSender struct {
	next    Sender
	breaker *gobreaker.CircuitBreaker
}

// NewBreakerSender wraps next in a circuit breaker.
func NewBreakerSender(next Sender, log *slog.Logger) *BreakerSender {
	settings := gobreaker.Settings{
		Name:    breakerName,
		Timeout: breakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= breakerFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state changed",
				slog.String("circuit", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()))
		},
	}
	return &BreakerSender{next: next, breaker: gobreaker.NewCircuitBreaker(settings)}
}

// Send forwards to the wrapped Sender unless the breaker is open.
func (s *BreakerSender) Send(ctx context.Context, subject, body string) error {
	_, err := s.breaker.Execute(func() (interface{}, error) {
		return nil, s.next.Send(ctx, subject, body)
	})
	return err
}

// State reports the breaker state.
func (s *BreakerSender) State() gobreaker.State {
	return s.breaker.State()
}
