package domain

import "strings"

// Priority is the urgency tag attached to every task.
type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// AllPriorities returns all valid priorities, most urgent first.
func AllPriorities() []Priority {
	return []Priority{
		PriorityHigh,
		PriorityMedium,
		PriorityLow,
	}
}

// ParsePriority converts user input into a Priority. Matching is
// case-insensitive; unknown values return ErrInvalidPriority.
func ParsePriority(s string) (Priority, error) {
	for _, p := range AllPriorities() {
		if strings.EqualFold(strings.TrimSpace(s), string(p)) {
			return p, nil
		}
	}
	return "", ErrInvalidPriority
}

// IsValid returns true if the priority is one of the enumerated values.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	default:
		return false
	}
}

// Rank orders priorities for listing. Higher ranks sort first.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

// Icon returns the marker shown next to a task in chat listings.
func (p Priority) Icon() string {
	switch p {
	case PriorityHigh:
		return "🔴"
	case PriorityMedium:
		return "🟡"
	case PriorityLow:
		return "🟢"
	default:
		return "⚪"
	}
}

// ComparePriority orders tasks by priority tier (High first), then by
// creation time, then by ID. It is the ordering every listing must follow.
func ComparePriority(a, b *Task) int {
	if d := b.Priority.Rank() - a.Priority.Rank(); d != 0 {
		return d
	}
	if c := a.Created.Compare(b.Created); c != 0 {
		return c
	}
	return a.ID - b.ID
}
