package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/runoshun/taskbot/internal/domain"
)

const (
	defaultPollTimeout = 20 * time.Second
	retryDelay         = 3 * time.Second
	// httpSlack is how long the HTTP request may outlive the long poll.
	httpSlack = 10 * time.Second
)

// PollTimeout returns the long-poll timeout used for a configured value.
// Zero or negative selects the default.
func PollTimeout(configured time.Duration) time.Duration {
	if configured <= 0 {
		return defaultPollTimeout
	}
	return configured
}

// NewHTTPClient returns an HTTP client whose timeout outlasts a long poll
// of the configured length.
func NewHTTPClient(pollTimeout time.Duration) *http.Client {
	return &http.Client{Timeout: PollTimeout(pollTimeout) + httpSlack}
}

// Poller feeds updates from getUpdates into a handler, one at a time.
// Fields are ordered to minimize memory padding.
type Poller struct {
	client  *Client
	handler domain.UpdateHandler
	log     *slog.Logger
	timeout time.Duration
	offset  int64
}

// NewPoller creates a Poller. A zero timeout selects the default.
func NewPoller(client *Client, handler domain.UpdateHandler, timeout time.Duration, log *slog.Logger) *Poller {
	timeout = PollTimeout(timeout)
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Poller{
		client:  client,
		handler: handler,
		log:     log.With("component", "telegram"),
		timeout: timeout,
	}
}

// Run polls until ctx is cancelled. Errors from the API are logged and the
// loop continues after a short pause.
func (p *Poller) Run(ctx context.Context) error {
	p.log.Info("polling started")
	for {
		if err := p.pollOnce(ctx); err != nil {
			if ctx.Err() != nil {
				break
			}
			p.log.Error("poll failed", "error", err)
			select {
			case <-ctx.Done():
			case <-time.After(retryDelay):
			}
		}
		if ctx.Err() != nil {
			break
		}
	}
	p.log.Info("polling stopped")
	return nil
}

func (p *Poller) pollOnce(ctx context.Context) error {
	raw, err := p.client.GetUpdates(ctx, p.offset, p.timeout)
	if err != nil {
		return err
	}
	for _, r := range raw {
		u, ok := decodeUpdate(r)
		if u.ID >= p.offset {
			p.offset = u.ID + 1
		}
		if !ok {
			continue
		}
		p.dispatch(ctx, u)
	}
	return nil
}

// dispatch handles one update and delivers the reply. It never panics.
func (p *Poller) dispatch(ctx context.Context, u Update) {
	log := p.log.With("update", u.ID, "user", u.Inbound.UserID)
	defer func() {
		if r := recover(); r != nil {
			log.Error("update handler panicked", "panic", fmt.Sprint(r))
		}
	}()

	if u.CallbackID != "" {
		if err := p.client.AnswerCallbackQuery(ctx, u.CallbackID); err != nil {
			log.Warn("answer callback failed", "error", err)
		}
	}

	reply := p.handler.Handle(ctx, u.Inbound)
	if reply.IsEmpty() {
		return
	}
	if err := p.deliver(ctx, u, reply); err != nil {
		log.Error("deliver reply failed", "error", err)
	}
}

func (p *Poller) deliver(ctx context.Context, u Update, reply domain.Reply) error {
	if reply.Edit && u.MessageID != 0 {
		err := p.client.EditMessageText(ctx, u.Inbound.ChatID, u.MessageID, reply.Text, reply.Options)
		var apiErr *APIError
		if err == nil || !errors.As(err, &apiErr) {
			return err
		}
		if strings.Contains(apiErr.Description, "message is not modified") {
			return nil
		}
		// The message may be too old to edit; fall back to a new one.
		p.log.Debug("edit failed, sending instead", "error", err)
	}
	return p.client.SendMessage(ctx, u.Inbound.ChatID, reply.Text, reply.Options)
}
