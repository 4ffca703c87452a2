package domain

import (
	"context"
	"time"
)

// StoreInitializer initializes the data store.
type StoreInitializer interface {
	// Initialize creates or migrates the schema and returns the schema
	// version now in place. It is idempotent.
	Initialize(ctx context.Context) (int, error)
}

// TaskRepository manages task persistence.
//
// Every method taking an owner restricts the statement to tasks created by
// that user; an empty owner means the call is unscoped. A task that exists
// but belongs to someone else is reported exactly like a missing one.
// Failures of the underlying engine are returned as *StorageError.
type TaskRepository interface {
	// Create persists a new task and returns its freshly assigned ID.
	Create(ctx context.Context, task *Task) (int, error)

	// Get retrieves a task by ID. Returns nil if not found.
	Get(ctx context.Context, id int) (*Task, error)

	// List retrieves tasks matching the filter, ordered by priority tier
	// (High, Medium, Low) and then by creation order.
	List(ctx context.Context, filter TaskFilter) ([]*Task, error)

	// UpdateDescription replaces the description. Returns false if no task matched.
	UpdateDescription(ctx context.Context, id int, owner, description string) (bool, error)

	// UpdatePriority replaces the priority. Values outside the enumeration
	// are rejected with ErrInvalidPriority.
	UpdatePriority(ctx context.Context, id int, owner string, priority Priority) (bool, error)

	// Update applies every set field of upd in one statement, so either all
	// of them change or none does. Returns false if no task matched.
	Update(ctx context.Context, id int, owner string, upd TaskUpdate) (bool, error)

	// Delete removes a task permanently. Returns false if no task matched.
	Delete(ctx context.Context, id int, owner string) (bool, error)
}

// Logger writes audit and diagnostic lines, optionally attributed to a task.
// A taskID of 0 logs globally.
type Logger interface {
	Info(taskID int, category, msg string)
	Debug(taskID int, category, msg string)
	Warn(taskID int, category, msg string)
	Error(taskID int, category, msg string)
}

// NopLogger discards everything.
type NopLogger struct{}

func (NopLogger) Info(int, string, string)  {}
func (NopLogger) Debug(int, string, string) {}
func (NopLogger) Warn(int, string, string)  {}
func (NopLogger) Error(int, string, string) {}

// Sender delivers a plain text message to one chat.
type Sender interface {
	Send(ctx context.Context, chatID, text string) error
}

// Recipient is a chat participant that receives broadcast notifications.
type Recipient struct {
	UserID string
	ChatID string
}

// Notifier delivers a message to every recipient except the excluded user.
// Delivery is best effort: a failure for one recipient does not stop the rest.
type Notifier interface {
	Notify(ctx context.Context, recipients []Recipient, exclude, text string)
}

// UpdateHandler turns one decoded inbound chat event into a reply.
type UpdateHandler interface {
	Handle(ctx context.Context, in Inbound) Reply
}

// ConfigLoader loads configuration from files and the environment.
type ConfigLoader interface {
	// Load returns the merged configuration (defaults + global + local + env).
	Load() (*Config, error)
}

// ConfigInfo describes one configuration file.
type ConfigInfo struct {
	Path    string // Absolute path of the file
	Content string // File content (empty if missing)
	Exists  bool   // Whether the file exists
}

// ConfigManager inspects and creates configuration files.
type ConfigManager interface {
	// GetGlobalConfigInfo returns information about the global config file.
	GetGlobalConfigInfo() ConfigInfo
	// GetLocalConfigInfo returns information about the local config file.
	GetLocalConfigInfo() ConfigInfo
	// InitGlobalConfig writes the commented template to the global path.
	// Returns ErrConfigExists if the file is already there.
	InitGlobalConfig(cfg *Config) error
	// InitLocalConfig writes the commented template to the local path.
	InitLocalConfig(cfg *Config) error
}

// Clock provides time operations for testability.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}

// RealClock implements Clock using the system clock.
type RealClock struct{}

// Now returns the current time.
func (RealClock) Now() time.Time {
	return time.Now()
}
