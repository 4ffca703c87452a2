package domain

import (
	"bytes"
	_ "embed"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"text/template"
	"time"
)

//go:embed config_template.toml
var configTemplateContent string

// Config represents the application configuration.
// Fields are ordered to minimize memory padding.
type Config struct {
	Warnings     []string           `toml:"-"`
	Telegram     TelegramConfig     `toml:"telegram"`
	Store        StoreConfig        `toml:"store"`
	Log          LogConfig          `toml:"log"`
	Console      ConsoleConfig      `toml:"console"`
	Tasks        TasksConfig        `toml:"tasks"`
	Health       HealthConfig       `toml:"health"`
	Janitor      JanitorConfig      `toml:"janitor"`
	Notify       NotifyConfig       `toml:"notify"`
	Conversation ConversationConfig `toml:"conversation"`
}

// TelegramConfig holds Bot API settings from [telegram] section.
type TelegramConfig struct {
	Token       string   `toml:"token,omitempty"`        // Bot token (TELEGRAM_BOT_TOKEN overrides)
	APIRoot     string   `toml:"api_root,omitempty"`     // Bot API base URL
	PollTimeout Duration `toml:"poll_timeout,omitempty"` // Long polling timeout for getUpdates
}

// StoreConfig holds persistence settings from [store] section.
type StoreConfig struct {
	Driver  string   `toml:"driver,omitempty"`  // "sqlite" (default) or "postgres"
	Path    string   `toml:"path,omitempty"`    // SQLite database file
	DSN     string   `toml:"dsn,omitempty"`     // PostgreSQL connection string
	Timeout Duration `toml:"timeout,omitempty"` // Upper bound for a single store operation
}

// TasksConfig holds task visibility settings from [tasks] section.
type TasksConfig struct {
	Mode Visibility `toml:"mode,omitempty"` // "shared" (default) or "personal"
}

// ConversationConfig holds dialog settings from [conversation] section.
type ConversationConfig struct {
	IdleTimeout Duration `toml:"idle_timeout,omitempty"` // Pending dialogs older than this are dropped (0 = never)
}

// NotifyConfig holds broadcast settings from [notify] section.
type NotifyConfig struct {
	RecipientTTL Duration `toml:"recipient_ttl,omitempty"` // Forget users inactive this long (0 = never)
	Enabled      bool     `toml:"enabled"`                 // Broadcast task changes in shared mode
}

// HealthConfig holds liveness endpoint settings from [health] section.
type HealthConfig struct {
	Addr string `toml:"addr,omitempty"` // Listen address; empty disables the endpoint
}

// JanitorConfig holds housekeeping settings from [janitor] section.
type JanitorConfig struct {
	Schedule string `toml:"schedule,omitempty"` // Cron spec for eviction sweeps
}

// LogConfig holds logging settings from [log] section.
type LogConfig struct {
	Level string `toml:"level,omitempty"` // debug, info, warn, error
	Dir   string `toml:"dir,omitempty"`   // Directory for the file logs (empty = disabled)
}

// ConsoleConfig holds the identity used by the local console transport.
type ConsoleConfig struct {
	UserID   string `toml:"user_id,omitempty"`
	UserName string `toml:"user_name,omitempty"`
}

// Store drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Default configuration values.
const (
	DefaultLogLevel         = "info"
	DefaultAPIRoot          = "https://api.telegram.org"
	DefaultPollTimeout      = 20 * time.Second
	DefaultStoreTimeout     = 5 * time.Second
	DefaultIdleTimeout      = 30 * time.Minute
	DefaultHealthAddr       = ":8000"
	DefaultJanitorSchedule  = "@every 1m"
	DefaultConsoleUserID    = "console"
	DefaultConsoleUserName  = "Console"
	DefaultDatabaseFileName = "tasks.db"
)

// Directory and file names for taskbot.
const (
	AppDirName     = "taskbot"      // Directory name for global config and data
	ConfigFileName = "config.toml"  // Global config file name
	LocalFileName  = "taskbot.toml" // Config file looked up in the working directory
	LogFileName    = "taskbot.log"  // Global log file name
)

// GlobalConfigDir returns the global config directory path.
// configHome is typically XDG_CONFIG_HOME or ~/.config (resolved by caller).
func GlobalConfigDir(configHome string) string {
	return filepath.Join(configHome, AppDirName)
}

// GlobalConfigPath returns the global config path.
func GlobalConfigPath(configHome string) string {
	return filepath.Join(GlobalConfigDir(configHome), ConfigFileName)
}

// DataDir returns the directory holding the database and logs.
// dataHome is typically XDG_DATA_HOME or ~/.local/share (resolved by caller).
func DataDir(dataHome string) string {
	return filepath.Join(dataHome, AppDirName)
}

// GlobalLogPath returns the path to the global log file.
func GlobalLogPath(logDir string) string {
	return filepath.Join(logDir, LogFileName)
}

// TaskLogPath returns the path to the per-task audit log file.
func TaskLogPath(logDir string, taskID int) string {
	return filepath.Join(logDir, fmt.Sprintf("task-%d.log", taskID))
}

// NewDefaultConfig returns a Config with default values.
// Paths depending on the environment are filled in by the loader.
func NewDefaultConfig() *Config {
	return &Config{
		Telegram: TelegramConfig{
			APIRoot:     DefaultAPIRoot,
			PollTimeout: Duration(DefaultPollTimeout),
		},
		Store: StoreConfig{
			Driver:  DriverSQLite,
			Timeout: Duration(DefaultStoreTimeout),
		},
		Tasks: TasksConfig{
			Mode: VisibilityShared,
		},
		Conversation: ConversationConfig{
			IdleTimeout: Duration(DefaultIdleTimeout),
		},
		Notify: NotifyConfig{
			Enabled: true,
		},
		Health: HealthConfig{
			Addr: DefaultHealthAddr,
		},
		Janitor: JanitorConfig{
			Schedule: DefaultJanitorSchedule,
		},
		Log: LogConfig{
			Level: DefaultLogLevel,
		},
		Console: ConsoleConfig{
			UserID:   DefaultConsoleUserID,
			UserName: DefaultConsoleUserName,
		},
	}
}

var validLogLevels = []string{"debug", "info", "warn", "error"}

// Validate checks values that cannot be defaulted silently.
func (c *Config) Validate() error {
	if !c.Tasks.Mode.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidVisibility, c.Tasks.Mode)
	}
	switch c.Store.Driver {
	case DriverSQLite:
		if c.Store.Path == "" {
			return fmt.Errorf("store.path is required for driver %q", c.Store.Driver)
		}
	case DriverPostgres:
		if c.Store.DSN == "" {
			return fmt.Errorf("store.dsn is required for driver %q", c.Store.Driver)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownDriver, c.Store.Driver)
	}
	if !slices.Contains(validLogLevels, c.Log.Level) {
		return fmt.Errorf("log.level must be one of %s, got %q", strings.Join(validLogLevels, ", "), c.Log.Level)
	}
	return nil
}

// Redacted returns a copy safe for display, with secrets masked.
func (c *Config) Redacted() *Config {
	out := *c
	if out.Telegram.Token != "" {
		out.Telegram.Token = maskSecret(out.Telegram.Token)
	}
	if out.Store.DSN != "" {
		out.Store.DSN = maskSecret(out.Store.DSN)
	}
	out.Warnings = nil
	return &out
}

func maskSecret(s string) string {
	if len(s) <= 4 {
		return "****"
	}
	return s[:4] + strings.Repeat("*", 8)
}

// templateData holds all data for rendering the config template.
type templateData struct {
	LogLevel        string
	Mode            Visibility
	Driver          string
	IdleTimeout     string
	HealthAddr      string
	JanitorSchedule string
}

// RenderConfigTemplate renders the commented starter config from the given Config.
func RenderConfigTemplate(cfg *Config) string {
	data := templateData{
		LogLevel:        cfg.Log.Level,
		Mode:            cfg.Tasks.Mode,
		Driver:          cfg.Store.Driver,
		IdleTimeout:     cfg.Conversation.IdleTimeout.String(),
		HealthAddr:      cfg.Health.Addr,
		JanitorSchedule: cfg.Janitor.Schedule,
	}

	tmpl, err := template.New("config").Delims("<<", ">>").Parse(configTemplateContent)
	if err != nil {
		// Should never happen with embedded template
		panic(fmt.Sprintf("failed to parse config template: %v", err))
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		panic(fmt.Sprintf("failed to execute config template: %v", err))
	}

	return buf.String()
}

// Duration is a time.Duration written as a Go duration string ("30m") in TOML.
type Duration time.Duration

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// String implements fmt.Stringer.
func (d Duration) String() string {
	return time.Duration(d).String()
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	s := strings.TrimSpace(string(text))
	if s == "" || s == "0" {
		*d = 0
		return nil
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	if v < 0 {
		return fmt.Errorf("invalid duration %q: must not be negative", s)
	}
	*d = Duration(v)
	return nil
}
