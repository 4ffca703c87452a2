// Package testutil provides shared test utilities and mock implementations.
package testutil

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/runoshun/taskbot/internal/domain"
)

// MockClock is a test double for domain.Clock.
type MockClock struct {
	NowTime time.Time
}

// Now returns the configured time.
func (m *MockClock) Now() time.Time {
	return m.NowTime
}

// Advance moves the clock forward.
func (m *MockClock) Advance(d time.Duration) {
	m.NowTime = m.NowTime.Add(d)
}

// MockTaskRepository is an in-memory domain.TaskRepository.
// It honours owner scoping and the listing order of the real store.
// Fields are ordered to minimize memory padding.
type MockTaskRepository struct {
	Tasks     map[int]*domain.Task
	CreateErr error
	GetErr    error
	ListErr   error
	UpdateErr error
	DeleteErr error
	NextIDN   int
	// Calls counts mutating calls that reached the repository.
	Calls int
}

// NewMockTaskRepository creates a new MockTaskRepository with initialized maps.
func NewMockTaskRepository() *MockTaskRepository {
	return &MockTaskRepository{
		Tasks:   make(map[int]*domain.Task),
		NextIDN: 1,
	}
}

// Ensure MockTaskRepository implements domain.TaskRepository interface.
var _ domain.TaskRepository = (*MockTaskRepository)(nil)

// Put stores a task as-is, bypassing ID assignment.
func (m *MockTaskRepository) Put(task *domain.Task) {
	cp := *task
	m.Tasks[task.ID] = &cp
	if task.ID >= m.NextIDN {
		m.NextIDN = task.ID + 1
	}
}

// Create stores a copy of the task under a fresh ID.
func (m *MockTaskRepository) Create(_ context.Context, task *domain.Task) (int, error) {
	m.Calls++
	if m.CreateErr != nil {
		return 0, m.CreateErr
	}
	if err := task.Validate(); err != nil {
		return 0, err
	}
	id := m.NextIDN
	m.NextIDN++
	cp := *task
	cp.ID = id
	m.Tasks[id] = &cp
	return id, nil
}

// Get retrieves a copy of the task by ID.
func (m *MockTaskRepository) Get(_ context.Context, id int) (*domain.Task, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	task, ok := m.Tasks[id]
	if !ok {
		return nil, nil
	}
	cp := *task
	return &cp, nil
}

// List returns tasks matching the owner filter in listing order.
func (m *MockTaskRepository) List(_ context.Context, filter domain.TaskFilter) ([]*domain.Task, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	tasks := make([]*domain.Task, 0, len(m.Tasks))
	for _, t := range m.Tasks {
		if filter.Owner != "" && t.Owner != filter.Owner {
			continue
		}
		cp := *t
		tasks = append(tasks, &cp)
	}
	slices.SortFunc(tasks, domain.ComparePriority)
	return tasks, nil
}

func (m *MockTaskRepository) match(id int, owner string) (*domain.Task, bool) {
	task, ok := m.Tasks[id]
	if !ok || (owner != "" && task.Owner != owner) {
		return nil, false
	}
	return task, true
}

// UpdateDescription replaces the description of a matching task.
func (m *MockTaskRepository) UpdateDescription(_ context.Context, id int, owner, description string) (bool, error) {
	m.Calls++
	if m.UpdateErr != nil {
		return false, m.UpdateErr
	}
	task, ok := m.match(id, owner)
	if !ok {
		return false, nil
	}
	task.Description = description
	return true, nil
}

// UpdatePriority replaces the priority of a matching task.
func (m *MockTaskRepository) UpdatePriority(_ context.Context, id int, owner string, priority domain.Priority) (bool, error) {
	m.Calls++
	if !priority.IsValid() {
		return false, domain.ErrInvalidPriority
	}
	if m.UpdateErr != nil {
		return false, m.UpdateErr
	}
	task, ok := m.match(id, owner)
	if !ok {
		return false, nil
	}
	task.Priority = priority
	return true, nil
}

// Update applies the set fields of upd to a matching task.
func (m *MockTaskRepository) Update(_ context.Context, id int, owner string, upd domain.TaskUpdate) (bool, error) {
	m.Calls++
	if upd.IsEmpty() {
		return false, domain.ErrNoFieldsToUpdate
	}
	if upd.Priority != nil && !upd.Priority.IsValid() {
		return false, domain.ErrInvalidPriority
	}
	if m.UpdateErr != nil {
		return false, m.UpdateErr
	}
	task, ok := m.match(id, owner)
	if !ok {
		return false, nil
	}
	if upd.Description != nil {
		task.Description = *upd.Description
	}
	if upd.Priority != nil {
		task.Priority = *upd.Priority
	}
	return true, nil
}

// Delete removes a matching task.
func (m *MockTaskRepository) Delete(_ context.Context, id int, owner string) (bool, error) {
	m.Calls++
	if m.DeleteErr != nil {
		return false, m.DeleteErr
	}
	if _, ok := m.match(id, owner); !ok {
		return false, nil
	}
	delete(m.Tasks, id)
	return true, nil
}

// MockStoreInitializer is a test double for domain.StoreInitializer.
type MockStoreInitializer struct {
	Err     error
	Version int
	Calls   int
}

// Initialize records the call and returns the configured version.
func (m *MockStoreInitializer) Initialize(_ context.Context) (int, error) {
	m.Calls++
	if m.Err != nil {
		return 0, m.Err
	}
	return m.Version, nil
}

// LogEntry is one line captured by MockLogger.
type LogEntry struct {
	Level    string
	Category string
	Msg      string
	TaskID   int
}

// MockLogger records log lines for assertions.
type MockLogger struct {
	Entries []LogEntry
	mu      sync.Mutex
}

var _ domain.Logger = (*MockLogger)(nil)

func (m *MockLogger) add(level string, taskID int, category, msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Entries = append(m.Entries, LogEntry{Level: level, TaskID: taskID, Category: category, Msg: msg})
}

// Info records an info line.
func (m *MockLogger) Info(taskID int, category, msg string) { m.add("INFO", taskID, category, msg) }

// Debug records a debug line.
func (m *MockLogger) Debug(taskID int, category, msg string) { m.add("DEBUG", taskID, category, msg) }

// Warn records a warning line.
func (m *MockLogger) Warn(taskID int, category, msg string) { m.add("WARN", taskID, category, msg) }

// Error records an error line.
func (m *MockLogger) Error(taskID int, category, msg string) { m.add("ERROR", taskID, category, msg) }

// ForTask returns the entries attributed to one task.
func (m *MockLogger) ForTask(taskID int) []LogEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []LogEntry
	for _, e := range m.Entries {
		if e.TaskID == taskID {
			out = append(out, e)
		}
	}
	return out
}

// SentMessage is one message delivered through RecordingSender.
type SentMessage struct {
	ChatID string
	Text   string
}

// RecordingSender is a domain.Sender that records every message.
// Chats listed in Fail return an error instead.
type RecordingSender struct {
	Fail map[string]bool
	Sent []SentMessage
	mu   sync.Mutex
}

var _ domain.Sender = (*RecordingSender)(nil)

// Send records the message or fails for configured chats.
func (s *RecordingSender) Send(_ context.Context, chatID, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail[chatID] {
		return fmt.Errorf("send to %s: %w", chatID, errSendFailed)
	}
	s.Sent = append(s.Sent, SentMessage{ChatID: chatID, Text: text})
	return nil
}

// To returns the texts delivered to one chat.
func (s *RecordingSender) To(chatID string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []string
	for _, m := range s.Sent {
		if m.ChatID == chatID {
			out = append(out, m.Text)
		}
	}
	return out
}

var errSendFailed = errors.New("chat unavailable")

// NotifyCall is one call captured by MockNotifier.
type NotifyCall struct {
	Exclude    string
	Text       string
	Recipients []domain.Recipient
}

// MockNotifier records broadcast requests.
type MockNotifier struct {
	Calls []NotifyCall
}

var _ domain.Notifier = (*MockNotifier)(nil)

// Notify records the call.
func (m *MockNotifier) Notify(_ context.Context, recipients []domain.Recipient, exclude, text string) {
	m.Calls = append(m.Calls, NotifyCall{
		Recipients: slices.Clone(recipients),
		Exclude:    exclude,
		Text:       text,
	})
}

// MockConfigLoader is a test double for domain.ConfigLoader.
type MockConfigLoader struct {
	Config  *domain.Config
	LoadErr error
}

// NewMockConfigLoader creates a new MockConfigLoader with default config.
func NewMockConfigLoader() *MockConfigLoader {
	return &MockConfigLoader{
		Config: domain.NewDefaultConfig(),
	}
}

// Ensure MockConfigLoader implements domain.ConfigLoader interface.
var _ domain.ConfigLoader = (*MockConfigLoader)(nil)

// Load returns the configured config or error.
func (m *MockConfigLoader) Load() (*domain.Config, error) {
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	return m.Config, nil
}

// MockConfigManager is a test double for domain.ConfigManager.
// Fields are ordered to minimize memory padding.
type MockConfigManager struct {
	InitLocalErr     error
	InitGlobalErr    error
	LocalConfigInfo  domain.ConfigInfo
	GlobalConfigInfo domain.ConfigInfo
	InitLocalCalled  bool
	InitGlobalCalled bool
}

// NewMockConfigManager creates a new MockConfigManager.
func NewMockConfigManager() *MockConfigManager {
	return &MockConfigManager{
		LocalConfigInfo: domain.ConfigInfo{
			Path: "/srv/taskbot/taskbot.toml",
		},
		GlobalConfigInfo: domain.ConfigInfo{
			Path: "/home/test/.config/taskbot/config.toml",
		},
	}
}

// Ensure MockConfigManager implements domain.ConfigManager interface.
var _ domain.ConfigManager = (*MockConfigManager)(nil)

// GetLocalConfigInfo returns the configured local config info.
func (m *MockConfigManager) GetLocalConfigInfo() domain.ConfigInfo {
	return m.LocalConfigInfo
}

// GetGlobalConfigInfo returns the configured global config info.
func (m *MockConfigManager) GetGlobalConfigInfo() domain.ConfigInfo {
	return m.GlobalConfigInfo
}

// InitLocalConfig records the call and returns configured error.
func (m *MockConfigManager) InitLocalConfig(_ *domain.Config) error {
	m.InitLocalCalled = true
	return m.InitLocalErr
}

// InitGlobalConfig records the call and returns configured error.
func (m *MockConfigManager) InitGlobalConfig(_ *domain.Config) error {
	m.InitGlobalCalled = true
	return m.InitGlobalErr
}
