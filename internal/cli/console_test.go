package cli

import (
	"testing"

	"github.com/runoshun/taskbot/internal/domain"
	"github.com/runoshun/taskbot/internal/testutil"
	"github.com/runoshun/taskbot/internal/tui/console"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubConsole(t *testing.T) *console.Config {
	t.Helper()
	original := runConsoleFunc
	t.Cleanup(func() { runConsoleFunc = original })

	var got console.Config
	runConsoleFunc = func(cfg console.Config) error {
		got = cfg
		return nil
	}
	return &got
}

func TestConsole_UsesConfiguredIdentity(t *testing.T) {
	got := stubConsole(t)

	_, err := runCommand(newConsoleCommand(newTestContainer(testutil.NewMockTaskRepository())))

	require.NoError(t, err)
	assert.Equal(t, domain.DefaultConsoleUserID, got.UserID)
	assert.Equal(t, domain.DefaultConsoleUserName, got.UserName)
	assert.Equal(t, domain.VisibilityShared, got.Mode)
	require.NotNil(t, got.Handler)
}

func TestConsole_FlagsOverrideIdentity(t *testing.T) {
	got := stubConsole(t)
	repo := testutil.NewMockTaskRepository()

	_, err := runCommand(newConsoleCommand(newTestContainer(repo)), "--user", "42", "--name", "Dana")

	require.NoError(t, err)
	assert.Equal(t, "42", got.UserID)
	assert.Equal(t, "Dana", got.UserName)

	// The handler is the live bot backed by the container's store
	reply := got.Handler.Handle(t.Context(), domain.Inbound{UserID: "42", ChatID: "42", Command: "list"})
	assert.NotEmpty(t, reply.Text)
}
