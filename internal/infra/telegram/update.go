package telegram

import (
	"strings"

	"github.com/runoshun/taskbot/internal/domain"
	"github.com/tidwall/gjson"
)

// Update is one decoded Bot API update.
// Fields are ordered to minimize memory padding.
type Update struct {
	Inbound domain.Inbound
	// CallbackID is set for button presses and must be answered.
	CallbackID string
	ID         int64
	// MessageID is the message carrying the pressed keyboard.
	MessageID int64
}

// decodeUpdate turns a raw update into an Update. ok is false for update
// kinds the bot does not handle, such as stickers or edited messages.
func decodeUpdate(raw gjson.Result) (Update, bool) {
	u := Update{ID: raw.Get("update_id").Int()}

	if cb := raw.Get("callback_query"); cb.Exists() {
		data := cb.Get("data").String()
		if data == "" {
			return u, false
		}
		u.CallbackID = cb.Get("id").String()
		u.MessageID = cb.Get("message.message_id").Int()
		u.Inbound = domain.Inbound{
			UserID:   cb.Get("from.id").String(),
			UserName: displayName(cb.Get("from")),
			ChatID:   cb.Get("message.chat.id").String(),
			Action:   data,
		}
		if u.Inbound.ChatID == "" {
			u.Inbound.ChatID = u.Inbound.UserID
		}
		return u, true
	}

	msg := raw.Get("message")
	text := msg.Get("text").String()
	if !msg.Exists() || strings.TrimSpace(text) == "" {
		return u, false
	}
	u.Inbound = domain.Inbound{
		UserID:   msg.Get("from.id").String(),
		UserName: displayName(msg.Get("from")),
		ChatID:   msg.Get("chat.id").String(),
	}
	if cmd, _, ok := domain.ParseCommand(text); ok {
		u.Inbound.Command = cmd
	} else {
		u.Inbound.Text = text
	}
	return u, true
}

func displayName(from gjson.Result) string {
	name := strings.TrimSpace(from.Get("first_name").String() + " " + from.Get("last_name").String())
	if name != "" {
		return name
	}
	if username := from.Get("username").String(); username != "" {
		return username
	}
	return from.Get("id").String()
}
