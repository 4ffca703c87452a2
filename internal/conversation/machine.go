// Package conversation tracks the per-user dialog phase of the chat bot.
package conversation

import (
	"strings"
	"sync"
	"time"

	"github.com/runoshun/taskbot/internal/domain"
)

type entry struct {
	touched time.Time
	state   domain.ConversationState
}

// Machine holds one conversation record per user.
//
// Methods that consume input check the current phase and return
// domain.ErrInvalidTransition on a mismatch, leaving the record untouched.
// Records idle for longer than the configured timeout read as Idle.
// Fields are ordered to minimize memory padding.
type Machine struct {
	clock   domain.Clock
	records map[string]*entry
	mu      sync.Mutex
	idle    time.Duration
}

// NewMachine creates a Machine. An idle timeout of 0 keeps records until
// they are reset.
func NewMachine(clock domain.Clock, idle time.Duration) *Machine {
	if clock == nil {
		clock = domain.RealClock{}
	}
	return &Machine{
		clock:   clock,
		idle:    idle,
		records: make(map[string]*entry),
	}
}

// lookup returns the live record for user, dropping it if expired.
// Caller must hold mu.
func (m *Machine) lookup(user string, now time.Time) *entry {
	e, ok := m.records[user]
	if !ok {
		return nil
	}
	if m.expired(e, now) {
		delete(m.records, user)
		return nil
	}
	return e
}

func (m *Machine) expired(e *entry, now time.Time) bool {
	return m.idle > 0 && now.Sub(e.touched) > m.idle
}

func (m *Machine) set(user string, state domain.ConversationState, now time.Time) {
	if state.Phase == domain.PhaseIdle {
		delete(m.records, user)
		return
	}
	m.records[user] = &entry{state: state, touched: now}
}

// State returns a snapshot of the user's conversation.
func (m *Machine) State(user string) domain.ConversationState {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e := m.lookup(user, m.clock.Now()); e != nil {
		return e.state
	}
	return domain.ConversationState{Phase: domain.PhaseIdle}
}

// Phase returns the user's current phase.
func (m *Machine) Phase(user string) domain.Phase {
	return m.State(user).Phase
}

// Start begins the add dialog. Any pending dialog is discarded.
func (m *Machine) Start(user string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.set(user, domain.ConversationState{Phase: domain.PhaseAwaitingDescription}, m.clock.Now())
}

// ProvideDescription records the description typed during the add dialog
// and moves on to priority selection.
func (m *Machine) ProvideDescription(user, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.clock.Now()
	e := m.lookup(user, now)
	if e == nil || e.state.Phase != domain.PhaseAwaitingDescription {
		return domain.ErrInvalidTransition
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.ErrEmptyDescription
	}
	m.set(user, domain.ConversationState{
		Phase:              domain.PhaseAwaitingPriority,
		PendingDescription: text,
	}, now)
	return nil
}

// PendingDescription returns the description waiting for a priority.
// The record stays in place until Reset so a failed create can be retried.
func (m *Machine) PendingDescription(user string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.clock.Now()
	e := m.lookup(user, now)
	if e == nil || e.state.Phase != domain.PhaseAwaitingPriority {
		return "", domain.ErrInvalidTransition
	}
	e.touched = now
	return e.state.PendingDescription, nil
}

// BeginEdit waits for a new description of the given task.
// Any pending dialog is discarded.
func (m *Machine) BeginEdit(user string, taskID int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.set(user, domain.ConversationState{
		Phase:  domain.PhaseAwaitingEditField,
		TaskID: taskID,
	}, m.clock.Now())
}

// EditTarget returns the task whose description is being edited.
func (m *Machine) EditTarget(user string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.clock.Now()
	e := m.lookup(user, now)
	if e == nil || e.state.Phase != domain.PhaseAwaitingEditField {
		return 0, domain.ErrInvalidTransition
	}
	e.touched = now
	return e.state.TaskID, nil
}

// Reset returns the user to Idle.
func (m *Machine) Reset(user string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, user)
}

// Sweep drops every expired record and returns how many were removed.
func (m *Machine) Sweep() int {
	if m.idle <= 0 {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.clock.Now()
	n := 0
	for user, e := range m.records {
		if m.expired(e, now) {
			delete(m.records, user)
			n++
		}
	}
	return n
}

// Len returns the number of users with a non-idle conversation,
// including records that expired but were not swept yet.
func (m *Machine) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}
