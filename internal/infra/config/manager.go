package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/runoshun/taskbot/internal/domain"
)

// Ensure Manager implements domain.ConfigManager.
var _ domain.ConfigManager = (*Manager)(nil)

// Manager inspects and creates configuration files.
type Manager struct {
	localPath     string // Config file given by --config or ./taskbot.toml
	globalConfDir string // Global config directory (e.g., ~/.config/taskbot)
}

// NewManager creates a new Manager.
func NewManager(localPath string) *Manager {
	return &Manager{
		localPath:     localPath,
		globalConfDir: defaultGlobalConfigDir(),
	}
}

// NewManagerWithGlobalDir creates a new Manager with a custom global config directory.
// This is useful for testing.
func NewManagerWithGlobalDir(localPath, globalConfDir string) *Manager {
	return &Manager{
		localPath:     localPath,
		globalConfDir: globalConfDir,
	}
}

// GetLocalConfigInfo returns information about the local config file.
func (m *Manager) GetLocalConfigInfo() domain.ConfigInfo {
	return readConfigInfo(m.localPath)
}

// GetGlobalConfigInfo returns information about the global config file.
func (m *Manager) GetGlobalConfigInfo() domain.ConfigInfo {
	if m.globalConfDir == "" {
		return domain.ConfigInfo{}
	}
	return readConfigInfo(filepath.Join(m.globalConfDir, domain.ConfigFileName))
}

func readConfigInfo(path string) domain.ConfigInfo {
	if path == "" {
		return domain.ConfigInfo{}
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return domain.ConfigInfo{Path: path}
	}
	return domain.ConfigInfo{
		Path:    path,
		Content: string(content),
		Exists:  true,
	}
}

// InitLocalConfig writes the starter template to the local config path.
func (m *Manager) InitLocalConfig(cfg *domain.Config) error {
	if m.localPath == "" {
		return errors.New("local config path not set")
	}
	return writeTemplate(m.localPath, cfg)
}

// InitGlobalConfig writes the starter template to the global config path.
func (m *Manager) InitGlobalConfig(cfg *domain.Config) error {
	if m.globalConfDir == "" {
		return errors.New("global config directory not available")
	}
	return writeTemplate(filepath.Join(m.globalConfDir, domain.ConfigFileName), cfg)
}

func writeTemplate(path string, cfg *domain.Config) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s: %w", path, domain.ErrConfigExists)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	// The file may end up holding the bot token.
	return os.WriteFile(path, []byte(domain.RenderConfigTemplate(cfg)), 0o600)
}
