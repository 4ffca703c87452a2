package cli

import (
	"github.com/runoshun/taskbot/internal/app"
	"github.com/runoshun/taskbot/internal/tui/console"
	"github.com/spf13/cobra"
)

// runConsoleFunc starts the console TUI, allowing it to be mocked in tests.
var runConsoleFunc = console.Run

// newConsoleCommand creates the console command.
func newConsoleCommand(c *app.Container) *cobra.Command {
	var opts struct {
		UserID   string
		UserName string
	}

	cmd := &cobra.Command{
		Use:   "console",
		Short: "Chat with the bot from the terminal",
		Long: `Open an interactive chat with the bot in the terminal.

The console acts as a single chat user and uses the same task store as
"taskbot serve". Options offered by the bot are chosen with the number
keys. Notifications are not delivered to the console.

Keybindings:
  Enter       Send the typed line
  1-9         Choose an option
  PgUp/PgDn   Scroll the history
  Esc         Quit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.Open(cmd.Context()); err != nil {
				return err
			}
			cfg := c.AppConfig.Console
			if opts.UserID != "" {
				cfg.UserID = opts.UserID
			}
			if opts.UserName != "" {
				cfg.UserName = opts.UserName
			}

			rt := c.NewRuntime(nil)
			return runConsoleFunc(console.Config{
				Handler:  rt.Bot,
				Clock:    c.Clock,
				UserID:   cfg.UserID,
				UserName: cfg.UserName,
				Mode:     c.Mode(),
			})
		},
	}

	cmd.Flags().StringVar(&opts.UserID, "user", "", "User ID to chat as (default from [console] user_id)")
	cmd.Flags().StringVar(&opts.UserName, "name", "", "Display name (default from [console] user_name)")

	return cmd
}
