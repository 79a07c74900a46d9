// Package notify delivers comment-reply notifications to registry users.
package notify

import (
	"log/slog"

	"github.com/modelhub-io/modelhub/internal/model"
	"github.com/modelhub-io/modelhub/internal/user"
)

// CommentReply is the event dispatched to each recipient when a new comment
// lands on a model they are involved with.
type CommentReply struct {
	Recipient user.User
	Model     model.Info
	Content   string
}

// Notifier dispatches a single notification. Delivery is best-effort;
// callers log and discard errors.
type Notifier interface {
	Send(ev CommentReply) error
}

// LogNotifier writes notifications to the log instead of delivering them.
// Used in dev mode and as a fallback when SMTP is not configured.
type LogNotifier struct{}

// Send logs the notification.
func (LogNotifier) Send(ev CommentReply) error {
	slog.Info("notification",
		"recipient", ev.Recipient.Username,
		"email", ev.Recipient.Email,
		"model", ev.Model.ID.String(),
		"content", ev.Content,
	)
	return nil
}
