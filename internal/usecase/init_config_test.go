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

func TestInitConfig_Execute(t *testing.T) {
	t.Run("creates local config", func(t *testing.T) {
		manager := testutil.NewMockConfigManager()

		uc := usecase.NewInitConfig(manager)
		out, err := uc.Execute(context.Background(), usecase.InitConfigInput{
			Config: domain.NewDefaultConfig(),
		})

		require.NoError(t, err)
		assert.Equal(t, "/srv/taskbot/taskbot.toml", out.Path)
		assert.True(t, manager.InitLocalCalled)
		assert.False(t, manager.InitGlobalCalled)
	})

	t.Run("creates global config", func(t *testing.T) {
		manager := testutil.NewMockConfigManager()

		uc := usecase.NewInitConfig(manager)
		out, err := uc.Execute(context.Background(), usecase.InitConfigInput{
			Config: domain.NewDefaultConfig(),
			Global: true,
		})

		require.NoError(t, err)
		assert.Equal(t, "/home/test/.config/taskbot/config.toml", out.Path)
		assert.True(t, manager.InitGlobalCalled)
		assert.False(t, manager.InitLocalCalled)
	})

	t.Run("returns error when config already exists", func(t *testing.T) {
		manager := testutil.NewMockConfigManager()
		manager.InitLocalErr = domain.ErrConfigExists

		uc := usecase.NewInitConfig(manager)
		_, err := uc.Execute(context.Background(), usecase.InitConfigInput{
			Config: domain.NewDefaultConfig(),
		})

		assert.ErrorIs(t, err, domain.ErrConfigExists)
	})

	t.Run("keeps existing global config", func(t *testing.T) {
		manager := testutil.NewMockConfigManager()
		manager.InitGlobalErr = domain.ErrConfigExists

		uc := usecase.NewInitConfig(manager)
		out, err := uc.Execute(context.Background(), usecase.InitConfigInput{
			Config: domain.NewDefaultConfig(),
			Global: true,
		})

		assert.ErrorIs(t, err, domain.ErrConfigExists)
		assert.Nil(t, out)
		assert.False(t, manager.InitLocalCalled)
	})

	t.Run("rejects nil config", func(t *testing.T) {
		uc := usecase.NewInitConfig(testutil.NewMockConfigManager())

		_, err := uc.Execute(context.Background(), usecase.InitConfigInput{})

		assert.ErrorIs(t, err, domain.ErrConfigNil)
	})
}
