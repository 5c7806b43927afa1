package service

import (
	"context"
	"time"

	"equiprent-backend/internal/domain"
	"equiprent-backend/internal/logger"
)

type logNotifier struct{}

// NewLogNotifier returns the default notifier, which records each
// notification in the process log.
func NewLogNotifier() Notifier {
	return logNotifier{}
}

func (logNotifier) Notify(ctx context.Context, n *domain.Notification) {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	args := []any{"user_id", n.UserID, "title", n.Title, "message", n.Message}
	for k, v := range n.Attributes {
		args = append(args, k, v)
	}
	logger.Info("Notification", args...)
}
