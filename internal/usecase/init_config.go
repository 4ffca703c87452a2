package usecase

import (
	"context"

	"github.com/runoshun/taskbot/internal/domain"
)

// InitConfigInput selects which taskbot config file to create.
type InitConfigInput struct {
	Config *domain.Config // Values rendered into the starter file
	Global bool           // $XDG_CONFIG_HOME/taskbot/config.toml instead of the local taskbot.toml
}

// InitConfigOutput contains the output of the InitConfig use case.
type InitConfigOutput struct {
	Path string // Where the starter file was written
}

// InitConfig writes a commented starter config for a taskbot deployment.
// The bot token and database DSN are never written; they are expected to
// come from TELEGRAM_BOT_TOKEN and TASKBOT_STORE_DSN.
type InitConfig struct {
	configManager domain.ConfigManager
}

// NewInitConfig creates a new InitConfig use case.
func NewInitConfig(configManager domain.ConfigManager) *InitConfig {
	return &InitConfig{configManager: configManager}
}

// Execute writes the starter file. An existing file is left untouched and
// domain.ErrConfigExists is returned.
func (uc *InitConfig) Execute(_ context.Context, in InitConfigInput) (*InitConfigOutput, error) {
	if in.Config == nil {
		return nil, domain.ErrConfigNil
	}

	info, write := uc.configManager.GetLocalConfigInfo(), uc.configManager.InitLocalConfig
	if in.Global {
		info, write = uc.configManager.GetGlobalConfigInfo(), uc.configManager.InitGlobalConfig
	}
	if err := write(in.Config); err != nil {
		return nil, err
	}
	return &InitConfigOutput{Path: info.Path}, nil
}
