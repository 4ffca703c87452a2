// Package logging writes the task audit trail.
// Every line goes to <dir>/taskbot.log; lines attributed to a task are also
// appended to <dir>/task-N.log so the history of one task can be read alone.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/runoshun/taskbot/internal/domain"
)

// Ensure Logger implements domain.Logger interface.
var _ domain.Logger = (*Logger)(nil)

// Logger is a file-backed domain.Logger that can also mirror lines into a
// process-level slog.Logger.
// Fields are ordered to minimize memory padding.
type Logger struct {
	clock      domain.Clock
	mirror     *slog.Logger
	globalFile *os.File
	taskFiles  map[int]*os.File
	dir        string
	mu         sync.Mutex
	level      slog.Level
}

// Option configures a Logger.
type Option func(*Logger)

// WithClock overrides the time source used for timestamps.
func WithClock(c domain.Clock) Option {
	return func(l *Logger) { l.clock = c }
}

// WithMirror forwards every accepted line to the given slog.Logger.
func WithMirror(m *slog.Logger) Option {
	return func(l *Logger) { l.mirror = m }
}

// New creates a Logger writing below dir.
// An empty dir disables the files; a mirror still receives lines.
func New(dir string, level slog.Level, opts ...Option) *Logger {
	l := &Logger{
		clock:     domain.RealClock{},
		dir:       dir,
		level:     level,
		taskFiles: make(map[int]*os.File),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// ParseLevel parses a log level string into slog.Level.
func ParseLevel(levelStr string) slog.Level {
	switch levelStr {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// openLocked opens path for appending. Caller holds l.mu.
func (l *Logger) openLocked(path string) (*os.File, error) {
	if err := os.MkdirAll(l.dir, 0o750); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o640) //nolint:gosec // Log file readable by owner and group
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}

func (l *Logger) write(taskID int, entry string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.globalFile == nil {
		f, err := l.openLocked(domain.GlobalLogPath(l.dir))
		if err != nil {
			return
		}
		l.globalFile = f
	}
	_, _ = io.WriteString(l.globalFile, entry)

	if taskID <= 0 {
		return
	}
	f, ok := l.taskFiles[taskID]
	if !ok {
		var err error
		if f, err = l.openLocked(domain.TaskLogPath(l.dir, taskID)); err != nil {
			return
		}
		l.taskFiles[taskID] = f
	}
	_, _ = io.WriteString(f, entry)
}

// Close closes all open log files.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	var lastErr error
	if l.globalFile != nil {
		if err := l.globalFile.Close(); err != nil {
			lastErr = err
		}
		l.globalFile = nil
	}
	for id, f := range l.taskFiles {
		if err := f.Close(); err != nil {
			lastErr = err
		}
		delete(l.taskFiles, id)
	}
	return lastErr
}

// formatLog formats one line.
// Format: [2025-12-30 09:32:51] [INFO] [task-1] [category] message
func formatLog(t time.Time, level slog.Level, taskID int, category, msg string) string {
	scope := "global"
	if taskID > 0 {
		scope = fmt.Sprintf("task-%d", taskID)
	}
	return fmt.Sprintf("[%s] [%s] [%s] [%s] %s\n",
		t.Format("2006-01-02 15:04:05"),
		levelToString(level),
		scope,
		category,
		msg,
	)
}

func levelToString(level slog.Level) string {
	switch level {
	case slog.LevelDebug:
		return "DEBUG"
	case slog.LevelWarn:
		return "WARN"
	case slog.LevelError:
		return "ERROR"
	default:
		return "INFO"
	}
}

func (l *Logger) log(level slog.Level, taskID int, category, msg string) {
	if level < l.level {
		return
	}
	if l.mirror != nil {
		attrs := []slog.Attr{slog.String("category", category)}
		if taskID > 0 {
			attrs = append(attrs, slog.Int("task", taskID))
		}
		l.mirror.LogAttrs(context.Background(), level, msg, attrs...)
	}
	if l.dir == "" {
		return
	}
	l.write(taskID, formatLog(l.clock.Now(), level, taskID, category, msg))
}

// Info logs an info message.
func (l *Logger) Info(taskID int, category, msg string) {
	l.log(slog.LevelInfo, taskID, category, msg)
}

// Debug logs a debug message.
func (l *Logger) Debug(taskID int, category, msg string) {
	l.log(slog.LevelDebug, taskID, category, msg)
}

// Warn logs a warning message.
func (l *Logger) Warn(taskID int, category, msg string) {
	l.log(slog.LevelWarn, taskID, category, msg)
}

// Error logs an error message.
func (l *Logger) Error(taskID int, category, msg string) {
	l.log(slog.LevelError, taskID, category, msg)
}
