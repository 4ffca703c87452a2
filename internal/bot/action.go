package bot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/runoshun/taskbot/internal/domain"
)

// ActionKind identifies what a pressed option asks for.
type ActionKind int

const (
	ActionUnknown ActionKind = iota
	ActionPriority
	ActionDelete
	ActionEditSelect
	ActionEditDescription
	ActionEditPriority
	ActionEditSetPriority
	ActionEditCancel
	ActionCancel
)

// Action is a decoded action token.
//
// Wire format:
//
//	priority_<P>
//	delete_<id>
//	edit_<id>_select | edit_<id>_description | edit_<id>_priority | edit_<id>_cancel
//	edit_<id>_setpriority_<P>
//	cancel
type Action struct {
	Priority domain.Priority
	Kind     ActionKind
	TaskID   int
}

// ErrUnknownAction is returned for tokens that do not decode.
var ErrUnknownAction = errors.New("unknown action token")

var editVerbs = map[string]ActionKind{
	"select":      ActionEditSelect,
	"description": ActionEditDescription,
	"priority":    ActionEditPriority,
	"cancel":      ActionEditCancel,
}

// Encode returns the wire form of the action.
func (a Action) Encode() string {
	switch a.Kind {
	case ActionPriority:
		return "priority_" + string(a.Priority)
	case ActionDelete:
		return fmt.Sprintf("delete_%d", a.TaskID)
	case ActionEditSelect:
		return fmt.Sprintf("edit_%d_select", a.TaskID)
	case ActionEditDescription:
		return fmt.Sprintf("edit_%d_description", a.TaskID)
	case ActionEditPriority:
		return fmt.Sprintf("edit_%d_priority", a.TaskID)
	case ActionEditSetPriority:
		return fmt.Sprintf("edit_%d_setpriority_%s", a.TaskID, a.Priority)
	case ActionEditCancel:
		return fmt.Sprintf("edit_%d_cancel", a.TaskID)
	case ActionCancel:
		return "cancel"
	default:
		return ""
	}
}

// ParseAction decodes an action token.
func ParseAction(token string) (Action, error) {
	parts := strings.Split(token, "_")
	switch parts[0] {
	case "cancel":
		if len(parts) == 1 {
			return Action{Kind: ActionCancel}, nil
		}
	case "priority":
		if len(parts) == 2 {
			p, err := domain.ParsePriority(parts[1])
			if err != nil {
				return Action{}, fmt.Errorf("%w: %q", ErrUnknownAction, token)
			}
			return Action{Kind: ActionPriority, Priority: p}, nil
		}
	case "delete":
		if len(parts) == 2 {
			id, err := parseTaskID(parts[1])
			if err != nil {
				return Action{}, fmt.Errorf("%w: %q", ErrUnknownAction, token)
			}
			return Action{Kind: ActionDelete, TaskID: id}, nil
		}
	case "edit":
		return parseEdit(token, parts)
	}
	return Action{}, fmt.Errorf("%w: %q", ErrUnknownAction, token)
}

func parseEdit(token string, parts []string) (Action, error) {
	if len(parts) < 3 {
		return Action{}, fmt.Errorf("%w: %q", ErrUnknownAction, token)
	}
	id, err := parseTaskID(parts[1])
	if err != nil {
		return Action{}, fmt.Errorf("%w: %q", ErrUnknownAction, token)
	}
	if parts[2] == "setpriority" {
		if len(parts) != 4 {
			return Action{}, fmt.Errorf("%w: %q", ErrUnknownAction, token)
		}
		p, err := domain.ParsePriority(parts[3])
		if err != nil {
			return Action{}, fmt.Errorf("%w: %q", ErrUnknownAction, token)
		}
		return Action{Kind: ActionEditSetPriority, TaskID: id, Priority: p}, nil
	}
	kind, ok := editVerbs[parts[2]]
	if !ok || len(parts) != 3 {
		return Action{}, fmt.Errorf("%w: %q", ErrUnknownAction, token)
	}
	return Action{Kind: kind, TaskID: id}, nil
}

func parseTaskID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid task id %q", s)
	}
	return id, nil
}
