package domain

import "strings"

// Inbound is a chat event after the transport has decoded it.
// Exactly one of Command, Action or Text is meaningful.
type Inbound struct {
	UserID   string // Acting user
	UserName string // Display name of the acting user
	ChatID   string // Chat to reply to
	Command  string // Slash command without the slash, e.g. "add"
	Action   string // Opaque action token from a pressed option
	Text     string // Free text message
}

// IsCommand returns true if the event is a slash command.
func (in Inbound) IsCommand() bool {
	return in.Command != ""
}

// IsAction returns true if the event is an option press.
func (in Inbound) IsAction() bool {
	return in.Action != ""
}

// ParseCommand splits a message starting with "/" into the command name and
// its arguments. A "@botname" suffix on the command is dropped. ok is false
// for ordinary text.
func ParseCommand(text string) (cmd, args string, ok bool) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") || len(text) == 1 {
		return "", "", false
	}
	head, rest, _ := strings.Cut(text[1:], " ")
	head, _, _ = strings.Cut(head, "@")
	return strings.ToLower(head), strings.TrimSpace(rest), true
}

// Option is one selectable choice rendered next to a reply.
type Option struct {
	Label  string
	Action string
}

// Reply is what the bot answers to an inbound event.
type Reply struct {
	Text string
	// Options are rendered as rows of buttons.
	Options [][]Option
	// Edit asks the transport to replace the message whose option was
	// pressed instead of sending a new one.
	Edit bool
}

// IsEmpty returns true if there is nothing to send.
func (r Reply) IsEmpty() bool {
	return r.Text == "" && len(r.Options) == 0
}
