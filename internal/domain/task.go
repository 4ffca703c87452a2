// Package domain contains core business entities and interfaces.
package domain

import (
	"strings"
	"time"
)

// Task represents a short to-do record owned by a chat user.
// Fields are ordered to minimize memory padding.
type Task struct {
	// Creation time, used as the secondary sort key.
	Created time.Time `json:"created" yaml:"created"`
	// Description (required, not capped).
	Description string `json:"description" yaml:"description"`
	// Owner is the identifier of the creating user.
	Owner string `json:"owner" yaml:"owner"`
	// OwnerName is the display name of the creator (informational).
	OwnerName string `json:"ownerName,omitempty" yaml:"owner_name,omitempty"`
	// Priority is High, Medium or Low.
	Priority Priority `json:"priority" yaml:"priority"`
	// ID is assigned by the store on creation and never reused.
	ID int `json:"id" yaml:"id"`
}

// IsOwnedBy returns true if the task was created by the given user.
func (t *Task) IsOwnedBy(userID string) bool {
	return t.Owner == userID
}

// Validate checks the invariants that must hold before a task is persisted.
func (t *Task) Validate() error {
	if strings.TrimSpace(t.Description) == "" {
		return ErrEmptyDescription
	}
	if !t.Priority.IsValid() {
		return ErrInvalidPriority
	}
	return nil
}

// TaskUpdate lists the fields to change on a task. Nil fields are left as they are.
type TaskUpdate struct {
	Description *string
	Priority    *Priority
}

// IsEmpty returns true if no field is set.
func (u TaskUpdate) IsEmpty() bool {
	return u.Description == nil && u.Priority == nil
}

// TaskFilter specifies criteria for listing tasks.
type TaskFilter struct {
	Owner string // Only tasks created by this user (empty = all tasks)
}

// Visibility selects how tasks are shared between chat users.
type Visibility string

const (
	// VisibilityShared exposes one global task list that every user can edit.
	VisibilityShared Visibility = "shared"
	// VisibilityPersonal scopes every task to its owner.
	VisibilityPersonal Visibility = "personal"
)

// IsValid returns true if the visibility is a known mode.
func (v Visibility) IsValid() bool {
	return v == VisibilityShared || v == VisibilityPersonal
}

// Scope returns the owner that repository calls must be restricted to when
// the given user acts. Shared mode returns an empty scope.
func (v Visibility) Scope(userID string) string {
	if v == VisibilityPersonal {
		return userID
	}
	return ""
}
