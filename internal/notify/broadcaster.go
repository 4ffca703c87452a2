package notify

import (
	"context"
	"log/slog"

	"github.com/runoshun/taskbot/internal/domain"
)

// Broadcaster delivers one text to many recipients through a Sender.
type Broadcaster struct {
	sender domain.Sender
	log    *slog.Logger
}

// Ensure Broadcaster implements domain.Notifier interface.
var _ domain.Notifier = (*Broadcaster)(nil)

// NewBroadcaster creates a Broadcaster.
func NewBroadcaster(sender domain.Sender, log *slog.Logger) *Broadcaster {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Broadcaster{sender: sender, log: log}
}

// Notify sends text to every recipient except exclude. A failed delivery is
// logged and the remaining recipients are still tried.
func (b *Broadcaster) Notify(ctx context.Context, recipients []domain.Recipient, exclude, text string) {
	for _, r := range recipients {
		if r.UserID == exclude {
			continue
		}
		if err := ctx.Err(); err != nil {
			b.log.Warn("broadcast aborted", "error", err)
			return
		}
		if err := b.sender.Send(ctx, r.ChatID, text); err != nil {
			b.log.Warn("notify recipient failed", "user", r.UserID, "chat", r.ChatID, "error", err)
		}
	}
}
