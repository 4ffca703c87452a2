// Package cli provides the command-line interface for taskbot.
package cli

import (
	"fmt"

	"github.com/runoshun/taskbot/internal/app"
	"github.com/spf13/cobra"
)

// Command group IDs.
const (
	groupRun   = "run"
	groupTask  = "task"
	groupSetup = "setup"
)

// NewRootCommand creates the root command for taskbot.
// It receives the container for dependency injection and version for display.
func NewRootCommand(c *app.Container, version string) *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:   "taskbot",
		Short: "Chat bot for managing a shared to-do list",
		Long: `taskbot is a chat bot that keeps a prioritized to-do list.

Users add, list, edit and delete tasks through a short guided dialog.
Run "taskbot serve" to connect to Telegram, or "taskbot console" to
talk to the bot from this terminal.`,
		Version: version,
		// SilenceUsage prevents usage from being printed on errors
		SilenceUsage: true,
		// SilenceErrors prevents Cobra from printing errors (we handle it in main)
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip if container is nil (e.g. in tests)
			if c == nil {
				return nil
			}
			if cmd.Flags().Changed("config") {
				c.SetConfigPath(configPath)
			}
			if c.ConfigLoader == nil {
				return nil
			}

			cfg, err := c.ConfigLoader.Load()
			if err != nil {
				// Reported by the command that needs the config
				return nil
			}
			for _, w := range cfg.Warnings {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s\n", w)
			}
			return nil
		},
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to the config file (default ./taskbot.toml)")

	root.AddGroup(
		&cobra.Group{ID: groupRun, Title: "Run Commands:"},
		&cobra.Group{ID: groupTask, Title: "Task Management:"},
		&cobra.Group{ID: groupSetup, Title: "Setup Commands:"},
	)

	serveCmd := newServeCommand(c)
	serveCmd.GroupID = groupRun

	consoleCmd := newConsoleCommand(c)
	consoleCmd.GroupID = groupRun

	taskCmd := newTaskCommand(c)
	taskCmd.GroupID = groupTask

	configCmd := newConfigCommand(c)
	configCmd.GroupID = groupSetup

	migrateCmd := newMigrateCommand(c)
	migrateCmd.GroupID = groupSetup

	root.AddCommand(
		serveCmd,
		consoleCmd,
		taskCmd,
		configCmd,
		migrateCmd,
	)

	return root
}
