package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/cityinfo/internal/config"
)

type mockSender struct {
	mock.Mock
}

func (m *mockSender) Send(ctx context.Context, subject, body string) error {
	args := m.Called(ctx, subject, body)
	return args.Error(0)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestLocalSender_LogsMessage(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, nil))
	s := NewLocalSender("from@example.com", "to@example.com", log)

	err := s.Send(context.Background(), "Point of interest deleted.", "Point of interest Cathedral with id 3 was deleted")
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "mail sent", entry["msg"])
	assert.Equal(t, "from@example.com", entry["from"])
	assert.Equal(t, "to@example.com", entry["to"])
	assert.Equal(t, "Point of interest deleted.", entry["subject"])
	assert.Equal(t, "Point of interest Cathedral with id 3 was deleted", entry["body"])
}

func TestLocalSender_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewLocalSender("a", "b", discardLogger()).Send(ctx, "s", "b")

	assert.ErrorIs(t, err, context.Canceled)
}

func TestSMTPSender_Message(t *testing.T) {
	s := NewSMTPSender(config.Mail{
		From:     "noreply@cityinfo.local",
		To:       "admin@cityinfo.local",
		SMTPHost: "smtp.example.com",
		SMTPPort: 587,
	})

	var buf bytes.Buffer
	_, err := s.message("Point of interest deleted.", "Point of interest X with id 7 was deleted").WriteTo(&buf)
	require.NoError(t, err)

	raw := buf.String()
	assert.Contains(t, raw, "From: noreply@cityinfo.local")
	assert.Contains(t, raw, "To: admin@cityinfo.local")
	assert.Contains(t, raw, "Subject: Point of interest deleted.")
	assert.Contains(t, raw, "@smtp.example.com>")
	assert.Contains(t, raw, "Point of interest X with id 7 was deleted")
}

func TestSMTPSender_CancelledContextSkipsDial(t *testing.T) {
	// Port 1 on localhost is never an SMTP relay; a dial would fail with a
	// network error rather than context.Canceled.
	s := NewSMTPSender(config.Mail{SMTPHost: "127.0.0.1", SMTPPort: 1})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.Send(ctx, "s", "b")

	assert.ErrorIs(t, err, context.Canceled)
}

func TestBreakerSender_PassesThrough(t *testing.T) {
	next := new(mockSender)
	next.On("Send", mock.Anything, "subject", "body").Return(nil).Once()

	s := NewBreakerSender(next, discardLogger())

	require.NoError(t, s.Send(context.Background(), "subject", "body"))
	assert.Equal(t, gobreaker.StateClosed, s.State())
	next.AssertExpectations(t)
}

func TestBreakerSender_OpensAfterConsecutiveFailures(t *testing.T) {
	boom := errors.New("relay down")
	next := new(mockSender)
	next.On("Send", mock.Anything, mock.Anything, mock.Anything).Return(boom).Times(breakerFailures)

	s := NewBreakerSender(next, discardLogger())

	for i := 0; i < breakerFailures; i++ {
		assert.ErrorIs(t, s.Send(context.Background(), "s", "b"), boom)
	}
	assert.Equal(t, gobreaker.StateOpen, s.State())

	// Open breaker fails fast without reaching the wrapped sender.
	err := s.Send(context.Background(), "s", "b")
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	next.AssertNumberOfCalls(t, "Send", breakerFailures)
}

func TestBreakerSender_SuccessResetsFailureCount(t *testing.T) {
	boom := errors.New("relay down")
	next := new(mockSender)
	next.On("Send", mock.Anything, "fail", mock.Anything).Return(boom)
	next.On("Send", mock.Anything, "ok", mock.Anything).Return(nil)

	s := NewBreakerSender(next, discardLogger())

	for i := 0; i < breakerFailures-1; i++ {
		_ = s.Send(context.Background(), "fail", "b")
	}
	require.NoError(t, s.Send(context.Background(), "ok", "b"))
	for i := 0; i < breakerFailures-1; i++ {
		_ = s.Send(context.Background(), "fail", "b")
	}

	assert.Equal(t, gobreaker.StateClosed, s.State())
}

func TestNew(t *testing.T) {
	t.Run("local", func(t *testing.T) {
		s, err := New(config.Mail{Driver: config.MailDriverLocal}, discardLogger())
		require.NoError(t, err)
		b, ok := s.(*BreakerSender)
		require.True(t, ok)
		assert.IsType(t, &LocalSender{}, b.next)
	})

	t.Run("smtp", func(t *testing.T) {
		s, err := New(config.Mail{Driver: config.MailDriverSMTP, SMTPHost: "smtp.example.com", SMTPPort: 25}, discardLogger())
		require.NoError(t, err)
		b, ok := s.(*BreakerSender)
		require.True(t, ok)
		assert.IsType(t, &SMTPSender{}, b.next)
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := New(config.Mail{Driver: "fax"}, discardLogger())
		require.Error(t, err)
		assert.True(t, strings.Contains(err.Error(), "fax"))
	})
}
