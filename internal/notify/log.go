package notify

import (
	"context"
	"log/slog"

	"github.com/iqx/iqx-backend/internal/queue"
)

// Log is the notifier used when no external channel is configured.  It
// records the event in the service log and always succeeds.
type Log struct {
	log *slog.Logger
}

func NewLog(log *slog.Logger) *Log { return &Log{log: log} }

func (l *Log) Notify(_ context.Context, ev queue.UserRegisteredEvent) error {
	l.log.Info("user registered (no notification channel configured)",
		slog.String("user_id", ev.UserID),
		slog.String("email", ev.Email),
	)
	return nil
}
