package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pelletier/go-toml/v2"
	"github.com/runoshun/taskbot/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_GetLocalConfigInfo(t *testing.T) {
	t.Run("returns info when file exists", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), domain.LocalFileName)
		content := "[tasks]\nmode = \"personal\"\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		info := NewManagerWithGlobalDir(path, "").GetLocalConfigInfo()

		assert.Equal(t, path, info.Path)
		assert.Equal(t, content, info.Content)
		assert.True(t, info.Exists)
	})

	t.Run("returns info when file does not exist", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), domain.LocalFileName)

		info := NewManagerWithGlobalDir(path, "").GetLocalConfigInfo()

		assert.Equal(t, path, info.Path)
		assert.Empty(t, info.Content)
		assert.False(t, info.Exists)
	})
}

func TestManager_GetGlobalConfigInfo(t *testing.T) {
	t.Run("returns info when file exists", func(t *testing.T) {
		globalDir := t.TempDir()
		content := "[log]\nlevel = \"debug\""
		require.NoError(t, os.WriteFile(filepath.Join(globalDir, domain.ConfigFileName), []byte(content), 0o644))

		info := NewManagerWithGlobalDir("", globalDir).GetGlobalConfigInfo()

		assert.Equal(t, filepath.Join(globalDir, domain.ConfigFileName), info.Path)
		assert.Equal(t, content, info.Content)
		assert.True(t, info.Exists)
	})

	t.Run("returns empty info when global dir is empty", func(t *testing.T) {
		info := NewManagerWithGlobalDir("", "").GetGlobalConfigInfo()

		assert.Empty(t, info.Path)
		assert.False(t, info.Exists)
	})
}

func TestManager_InitLocalConfig(t *testing.T) {
	t.Run("writes a template that loads back", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "etc", domain.LocalFileName)
		cfg := domain.NewDefaultConfig()
		cfg.Tasks.Mode = domain.VisibilityPersonal

		err := NewManagerWithGlobalDir(path, "").InitLocalConfig(cfg)
		require.NoError(t, err)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), "taskbot configuration")

		var decoded domain.Config
		require.NoError(t, toml.Unmarshal(data, &decoded))
		assert.Equal(t, domain.VisibilityPersonal, decoded.Tasks.Mode)

		stat, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), stat.Mode().Perm())
	})

	t.Run("refuses to overwrite", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), domain.LocalFileName)
		require.NoError(t, os.WriteFile(path, []byte("existing"), 0o644))

		err := NewManagerWithGlobalDir(path, "").InitLocalConfig(domain.NewDefaultConfig())

		assert.ErrorIs(t, err, domain.ErrConfigExists)
		data, _ := os.ReadFile(path)
		assert.Equal(t, "existing", string(data))
	})
}

func TestManager_InitGlobalConfig(t *testing.T) {
	t.Run("creates config file and parent directory", func(t *testing.T) {
		globalDir := filepath.Join(t.TempDir(), "taskbot")

		err := NewManagerWithGlobalDir("", globalDir).InitGlobalConfig(domain.NewDefaultConfig())

		require.NoError(t, err)
		assert.FileExists(t, filepath.Join(globalDir, domain.ConfigFileName))
	})

	t.Run("returns error if file already exists", func(t *testing.T) {
		globalDir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(globalDir, domain.ConfigFileName), []byte("existing"), 0o644))

		err := NewManagerWithGlobalDir("", globalDir).InitGlobalConfig(domain.NewDefaultConfig())

		assert.ErrorIs(t, err, domain.ErrConfigExists)
	})

	t.Run("returns error if global dir is empty", func(t *testing.T) {
		err := NewManagerWithGlobalDir("", "").InitGlobalConfig(domain.NewDefaultConfig())

		assert.Error(t, err)
	})
}
