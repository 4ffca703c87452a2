package cli

import (
	"fmt"

	"github.com/runoshun/taskbot/internal/app"
	"github.com/runoshun/taskbot/internal/usecase"
	"github.com/spf13/cobra"
)

// newMigrateCommand creates the migrate command.
func newMigrateCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create or upgrade the task store schema",
		Long: `Create the task store schema, or upgrade an older one in place.

The store configured in [store] is used. Running it again is harmless.
"serve" and "console" apply pending migrations on start as well.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.Open(cmd.Context()); err != nil {
				return err
			}

			out, err := c.MigrateStoreUseCase().Execute(cmd.Context(), usecase.MigrateStoreInput{})
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Task store is at schema version %d\n", out.SchemaVersion)
			return nil
		},
	}

	return cmd
}
