package usecase_test

import (
	"context"
	"testing"

	"github.com/runoshun/taskbot/internal/domain"
	"github.com/runoshun/taskbot/internal/testutil"
	"github.com/runoshun/taskbot/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShowConfig_Execute(t *testing.T) {
	t.Run("returns file infos and redacted effective config", func(t *testing.T) {
		manager := testutil.NewMockConfigManager()
		manager.GlobalConfigInfo = domain.ConfigInfo{
			Path:    "/home/test/.config/taskbot/config.toml",
			Content: "[log]\nlevel = \"debug\"",
			Exists:  true,
		}
		loader := testutil.NewMockConfigLoader()
		loader.Config.Telegram.Token = "123456:SECRET"

		uc := usecase.NewShowConfig(manager, loader)
		out, err := uc.Execute(context.Background(), usecase.ShowConfigInput{})

		require.NoError(t, err)
		assert.True(t, out.GlobalConfig.Exists)
		assert.Equal(t, "[log]\nlevel = \"debug\"", out.GlobalConfig.Content)
		assert.False(t, out.LocalConfig.Exists)
		require.NotNil(t, out.EffectiveConfig)
		assert.NotContains(t, out.EffectiveConfig.Telegram.Token, "SECRET")
		// Loader's config is not mutated
		assert.Equal(t, "123456:SECRET", loader.Config.Telegram.Token)
	})

	t.Run("propagates load errors", func(t *testing.T) {
		loader := testutil.NewMockConfigLoader()
		loader.LoadErr = assert.AnError

		uc := usecase.NewShowConfig(testutil.NewMockConfigManager(), loader)
		_, err := uc.Execute(context.Background(), usecase.ShowConfigInput{})

		assert.ErrorIs(t, err, assert.AnError)
	})
}
