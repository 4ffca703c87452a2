// Package config provides configuration loading functionality.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"

	"github.com/pelletier/go-toml/v2"
	"github.com/runoshun/taskbot/internal/domain"
)

// Ensure Loader implements domain.ConfigLoader.
var _ domain.ConfigLoader = (*Loader)(nil)

// Environment variables that override file values.
const (
	EnvToken       = "TELEGRAM_BOT_TOKEN"
	EnvPort        = "PORT"
	EnvStoreDriver = "TASKBOT_STORE_DRIVER"
	EnvStoreDSN    = "TASKBOT_STORE_DSN"
	EnvTasksMode   = "TASKBOT_TASKS_MODE"
	EnvLogLevel    = "TASKBOT_LOG_LEVEL"
)

// knownKeys lists the accepted keys per section. Anything else is reported
// as a warning instead of failing the load.
var knownKeys = map[string][]string{
	"telegram":     {"token", "api_root", "poll_timeout"},
	"store":        {"driver", "path", "dsn", "timeout"},
	"tasks":        {"mode"},
	"conversation": {"idle_timeout"},
	"notify":       {"enabled", "recipient_ttl"},
	"health":       {"addr"},
	"janitor":      {"schedule"},
	"log":          {"level", "dir"},
	"console":      {"user_id", "user_name"},
}

// Loader loads configuration from TOML files and the environment.
// Fields are ordered to minimize memory padding.
type Loader struct {
	getenv        func(string) string
	localPath     string // Config file given by --config or ./taskbot.toml
	globalConfDir string // Global config directory (e.g., ~/.config/taskbot)
	dataDir       string // Default home of the SQLite file (e.g., ~/.local/share/taskbot)
}

// NewLoader creates a Loader using the XDG base directories and the process environment.
func NewLoader(localPath string) *Loader {
	return &Loader{
		localPath:     localPath,
		globalConfDir: defaultGlobalConfigDir(),
		dataDir:       defaultDataDir(),
		getenv:        os.Getenv,
	}
}

// NewLoaderWithDirs creates a Loader with explicit directories and environment.
// This is useful for testing.
func NewLoaderWithDirs(localPath, globalConfDir, dataDir string, getenv func(string) string) *Loader {
	if getenv == nil {
		getenv = func(string) string { return "" }
	}
	return &Loader{
		localPath:     localPath,
		globalConfDir: globalConfDir,
		dataDir:       dataDir,
		getenv:        getenv,
	}
}

func xdgDir(env string, fallback ...string) string {
	if dir := os.Getenv(env); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(append([]string{home}, fallback...)...)
}

// defaultGlobalConfigDir returns the default global config directory.
func defaultGlobalConfigDir() string {
	configHome := xdgDir("XDG_CONFIG_HOME", ".config")
	if configHome == "" {
		return ""
	}
	return domain.GlobalConfigDir(configHome)
}

// defaultDataDir returns the default directory for the database file.
func defaultDataDir() string {
	dataHome := xdgDir("XDG_DATA_HOME", ".local", "share")
	if dataHome == "" {
		return ""
	}
	return domain.DataDir(dataHome)
}

// GlobalPath returns the path of the global config file, or "" if unknown.
func (l *Loader) GlobalPath() string {
	if l.globalConfDir == "" {
		return ""
	}
	return filepath.Join(l.globalConfDir, domain.ConfigFileName)
}

// LocalPath returns the path of the local config file.
func (l *Loader) LocalPath() string {
	return l.localPath
}

// Load returns the merged configuration.
// Precedence: defaults <- global file <- local file <- environment.
func (l *Loader) Load() (*domain.Config, error) {
	cfg := domain.NewDefaultConfig()

	for _, path := range []string{l.GlobalPath(), l.localPath} {
		if path == "" {
			continue
		}
		if err := l.mergeFile(cfg, path); err != nil {
			return nil, err
		}
	}

	l.applyEnv(cfg)
	l.fillPaths(cfg)
	sort.Strings(cfg.Warnings)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// mergeFile decodes path on top of cfg. Keys missing from the file keep
// their current value. A missing file is not an error.
func (l *Loader) mergeFile(cfg *domain.Config, path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	for _, w := range unknownKeys(raw) {
		cfg.Warnings = append(cfg.Warnings, fmt.Sprintf("%s: %s", path, w))
	}

	warnings := cfg.Warnings
	if err := toml.NewDecoder(bytes.NewReader(data)).Decode(cfg); err != nil {
		return fmt.Errorf("decode config %s: %w", path, err)
	}
	cfg.Warnings = warnings
	return nil
}

// unknownKeys collects warnings for sections and keys not in knownKeys.
func unknownKeys(raw map[string]any) []string {
	var warnings []string
	for section, value := range raw {
		keys, ok := knownKeys[section]
		if !ok {
			warnings = append(warnings, fmt.Sprintf("unknown section: %s", section))
			continue
		}
		m, ok := value.(map[string]any)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("[%s] must be a table", section))
			continue
		}
		for k := range m {
			if !slices.Contains(keys, k) {
				warnings = append(warnings, fmt.Sprintf("unknown key in [%s]: %s", section, k))
			}
		}
	}
	sort.Strings(warnings)
	return warnings
}

func (l *Loader) applyEnv(cfg *domain.Config) {
	if v := l.getenv(EnvToken); v != "" {
		cfg.Telegram.Token = v
	}
	if v := l.getenv(EnvPort); v != "" {
		cfg.Health.Addr = ":" + v
	}
	if v := l.getenv(EnvStoreDriver); v != "" {
		cfg.Store.Driver = v
	}
	if v := l.getenv(EnvStoreDSN); v != "" {
		cfg.Store.DSN = v
	}
	if v := l.getenv(EnvTasksMode); v != "" {
		cfg.Tasks.Mode = domain.Visibility(v)
	}
	if v := l.getenv(EnvLogLevel); v != "" {
		cfg.Log.Level = v
	}
}

func (l *Loader) fillPaths(cfg *domain.Config) {
	if cfg.Store.Driver == domain.DriverSQLite && cfg.Store.Path == "" && l.dataDir != "" {
		cfg.Store.Path = filepath.Join(l.dataDir, domain.DefaultDatabaseFileName)
	}
}
