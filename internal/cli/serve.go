package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/runoshun/taskbot/internal/app"
	"github.com/runoshun/taskbot/internal/domain"
	"github.com/runoshun/taskbot/internal/infra/health"
	"github.com/runoshun/taskbot/internal/infra/telegram"
	"github.com/spf13/cobra"
)

// shutdownTimeout bounds the graceful stop of the health endpoint.
const shutdownTimeout = 5 * time.Second

// newServeCommand creates the serve command.
func newServeCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the Telegram bot",
		Long: `Run the bot against the Telegram Bot API using long polling.

The bot token is read from [telegram] token or TELEGRAM_BOT_TOKEN.
A liveness endpoint answers GET /health on [health] addr (PORT overrides
the port). Idle dialogs are evicted on the [janitor] schedule.

Stop with Ctrl+C or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, c)
		},
	}

	return cmd
}

func runServe(ctx context.Context, c *app.Container) error {
	if err := c.Open(ctx); err != nil {
		return err
	}
	cfg := c.AppConfig
	if cfg.Telegram.Token == "" {
		return domain.ErrMissingToken
	}

	client := telegram.NewClient(cfg.Telegram.APIRoot, cfg.Telegram.Token, telegram.NewHTTPClient(cfg.Telegram.PollTimeout.Std()))
	rt := c.NewRuntime(client)

	j, err := c.NewJanitor(rt)
	if err != nil {
		return err
	}
	j.Start()
	defer j.Stop()

	if cfg.Health.Addr != "" {
		srv := health.NewServer(cfg.Health.Addr, c.Logger)
		go func() {
			if err := srv.Start(); err != nil {
				c.Logger.Error("health endpoint stopped", "error", err)
			}
		}()
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			_ = srv.Shutdown(sctx)
		}()
	}

	c.Logger.Info("taskbot started",
		"mode", cfg.Tasks.Mode,
		"store", cfg.Store.Driver,
		"notify", cfg.Notify.Enabled,
	)
	poller := telegram.NewPoller(client, rt.Bot, cfg.Telegram.PollTimeout.Std(), c.Logger)
	err = poller.Run(ctx)
	c.Logger.Info("taskbot stopped")
	return err
}
