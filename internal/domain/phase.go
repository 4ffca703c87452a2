package domain

// Phase is the step a user's conversation is waiting on.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseAwaitingDescription
	PhaseAwaitingPriority
	PhaseAwaitingEditField
)

// String returns the phase name used in logs.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseAwaitingDescription:
		return "awaiting_description"
	case PhaseAwaitingPriority:
		return "awaiting_priority"
	case PhaseAwaitingEditField:
		return "awaiting_edit_field"
	default:
		return "unknown"
	}
}

// ConversationState is a snapshot of one user's dialog.
// PendingDescription is only set in PhaseAwaitingPriority and
// TaskID only in PhaseAwaitingEditField.
type ConversationState struct {
	PendingDescription string
	Phase              Phase
	TaskID             int
}
