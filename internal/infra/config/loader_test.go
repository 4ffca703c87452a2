package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/runoshun/taskbot/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type loaderFixture struct {
	env       map[string]string
	localPath string
	globalDir string
	dataDir   string
}

func newLoaderFixture(t *testing.T) *loaderFixture {
	t.Helper()
	root := t.TempDir()
	return &loaderFixture{
		env:       map[string]string{},
		localPath: filepath.Join(root, "work", domain.LocalFileName),
		globalDir: filepath.Join(root, "config", domain.AppDirName),
		dataDir:   filepath.Join(root, "data", domain.AppDirName),
	}
}

func (f *loaderFixture) writeLocal(t *testing.T, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(f.localPath), 0o755))
	require.NoError(t, os.WriteFile(f.localPath, []byte(content), 0o644))
}

func (f *loaderFixture) writeGlobal(t *testing.T, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(f.globalDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(f.globalDir, domain.ConfigFileName), []byte(content), 0o644))
}

func (f *loaderFixture) load() (*domain.Config, error) {
	getenv := func(key string) string { return f.env[key] }
	return NewLoaderWithDirs(f.localPath, f.globalDir, f.dataDir, getenv).Load()
}

func TestLoader_Load_Defaults(t *testing.T) {
	f := newLoaderFixture(t)

	cfg, err := f.load()

	require.NoError(t, err)
	assert.Equal(t, domain.VisibilityShared, cfg.Tasks.Mode)
	assert.Equal(t, domain.DriverSQLite, cfg.Store.Driver)
	assert.Equal(t, filepath.Join(f.dataDir, domain.DefaultDatabaseFileName), cfg.Store.Path)
	assert.Equal(t, domain.DefaultIdleTimeout, cfg.Conversation.IdleTimeout.Std())
	assert.Equal(t, ":8000", cfg.Health.Addr)
	assert.True(t, cfg.Notify.Enabled)
	assert.Empty(t, cfg.Warnings)
}

func TestLoader_Load_LocalConfigOnly(t *testing.T) {
	f := newLoaderFixture(t)
	f.writeLocal(t, `
[tasks]
mode = "personal"

[store]
path = "/srv/taskbot/tasks.db"
timeout = "2s"

[conversation]
idle_timeout = "0"

[log]
level = "debug"
dir = "/var/log/taskbot"
`)

	cfg, err := f.load()

	require.NoError(t, err)
	assert.Equal(t, domain.VisibilityPersonal, cfg.Tasks.Mode)
	assert.Equal(t, "/srv/taskbot/tasks.db", cfg.Store.Path)
	assert.Equal(t, 2*time.Second, cfg.Store.Timeout.Std())
	assert.Zero(t, cfg.Conversation.IdleTimeout)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "/var/log/taskbot", cfg.Log.Dir)
	// Untouched sections keep their defaults.
	assert.Equal(t, domain.DefaultAPIRoot, cfg.Telegram.APIRoot)
}

func TestLoader_Load_LocalOverridesGlobal(t *testing.T) {
	f := newLoaderFixture(t)
	f.writeGlobal(t, `
[tasks]
mode = "personal"

[notify]
recipient_ttl = "24h"

[log]
level = "warn"
`)
	f.writeLocal(t, `
[notify]
enabled = false

[log]
level = "error"
`)

	cfg, err := f.load()

	require.NoError(t, err)
	assert.Equal(t, domain.VisibilityPersonal, cfg.Tasks.Mode)
	assert.Equal(t, 24*time.Hour, cfg.Notify.RecipientTTL.Std())
	assert.False(t, cfg.Notify.Enabled)
	assert.Equal(t, "error", cfg.Log.Level)
}

func TestLoader_Load_EnvironmentWins(t *testing.T) {
	f := newLoaderFixture(t)
	f.writeLocal(t, `
[telegram]
token = "from-file"

[tasks]
mode = "shared"
`)
	f.env[EnvToken] = "from-env"
	f.env[EnvPort] = "9090"
	f.env[EnvTasksMode] = "personal"
	f.env[EnvLogLevel] = "debug"
	f.env[EnvStoreDriver] = "postgres"
	f.env[EnvStoreDSN] = "postgres://localhost/taskbot"

	cfg, err := f.load()

	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Telegram.Token)
	assert.Equal(t, ":9090", cfg.Health.Addr)
	assert.Equal(t, domain.VisibilityPersonal, cfg.Tasks.Mode)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, domain.DriverPostgres, cfg.Store.Driver)
	assert.Equal(t, "postgres://localhost/taskbot", cfg.Store.DSN)
	assert.Empty(t, cfg.Store.Path)
}

func TestLoader_Load_UnknownKeysWarn(t *testing.T) {
	f := newLoaderFixture(t)
	f.writeLocal(t, `
[tasks]
mode = "shared"
colour = "blue"

[workers]
default = "x"
`)

	cfg, err := f.load()

	require.NoError(t, err)
	require.Len(t, cfg.Warnings, 2)
	assert.Contains(t, cfg.Warnings[0], "unknown key in [tasks]: colour")
	assert.Contains(t, cfg.Warnings[1], "unknown section: workers")
}

func TestLoader_Load_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{name: "syntax", content: "[tasks\nmode = 1"},
		{name: "bad duration", content: "[conversation]\nidle_timeout = \"soon\""},
		{name: "wrong type", content: "[notify]\nenabled = \"yes\""},
		{name: "bad mode", content: "[tasks]\nmode = \"team\"", wantErr: domain.ErrInvalidVisibility},
		{name: "bad driver", content: "[store]\ndriver = \"mysql\"", wantErr: domain.ErrUnknownDriver},
		{name: "postgres without dsn", content: "[store]\ndriver = \"postgres\""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newLoaderFixture(t)
			f.writeLocal(t, tt.content)

			_, err := f.load()

			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestLoader_Paths(t *testing.T) {
	f := newLoaderFixture(t)
	loader := NewLoaderWithDirs(f.localPath, f.globalDir, f.dataDir, nil)

	assert.Equal(t, f.localPath, loader.LocalPath())
	assert.Equal(t, filepath.Join(f.globalDir, domain.ConfigFileName), loader.GlobalPath())
	assert.Empty(t, NewLoaderWithDirs("", "", "", nil).GlobalPath())
}

func TestUnknownKeys(t *testing.T) {
	raw := map[string]any{
		"log":    map[string]any{"level": "info", "format": "json"},
		"health": "oops",
		"store":  map[string]any{"driver": "sqlite"},
	}

	assert.Equal(t, []string{
		"[health] must be a table",
		"unknown key in [log]: format",
	}, unknownKeys(raw))
}
