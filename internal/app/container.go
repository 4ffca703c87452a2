// Package app provides the dependency injection container for the application.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/runoshun/taskbot/internal/bot"
	"github.com/runoshun/taskbot/internal/conversation"
	"github.com/runoshun/taskbot/internal/domain"
	"github.com/runoshun/taskbot/internal/infra/config"
	"github.com/runoshun/taskbot/internal/infra/janitor"
	"github.com/runoshun/taskbot/internal/infra/logging"
	"github.com/runoshun/taskbot/internal/infra/sqlstore"
	"github.com/runoshun/taskbot/internal/notify"
	"github.com/runoshun/taskbot/internal/usecase"
)

// Config holds the paths the container was created with.
type Config struct {
	ConfigPath string // Local config file (--config or ./taskbot.toml)
}

// Container provides dependency injection for the application.
// It holds all port implementations and provides factory methods for use cases.
type Container struct {
	// Ports (interfaces bound to implementations)
	Tasks            domain.TaskRepository
	StoreInitializer domain.StoreInitializer
	Clock            domain.Clock
	ConfigLoader     domain.ConfigLoader
	ConfigManager    domain.ConfigManager
	AuditLog         domain.Logger

	// Pointer fields
	Logger    *slog.Logger
	AppConfig *domain.Config

	closers []io.Closer

	// Configuration
	Config Config
}

// New creates a Container for the given local config file.
// Nothing is loaded or opened until Open is called.
func New(configPath string) *Container {
	c := &Container{
		Clock:    domain.RealClock{},
		AuditLog: domain.NopLogger{},
		Logger:   newStderrLogger(slog.LevelInfo),
	}
	c.SetConfigPath(configPath)
	return c
}

// NewWithDeps creates a new Container with custom dependencies for testing.
// The returned container is already open.
func NewWithDeps(appCfg *domain.Config, tasks domain.TaskRepository, storeInit domain.StoreInitializer, clock domain.Clock, logger *slog.Logger) *Container {
	if appCfg == nil {
		appCfg = domain.NewDefaultConfig()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Container{
		Tasks:            tasks,
		StoreInitializer: storeInit,
		Clock:            clock,
		AuditLog:         domain.NopLogger{},
		Logger:           logger,
		AppConfig:        appCfg,
	}
}

func newStderrLogger(level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// SetConfigPath points the config loader and manager at another local file.
// It has no effect once the container is open.
func (c *Container) SetConfigPath(path string) {
	if c.AppConfig != nil {
		return
	}
	c.Config.ConfigPath = path
	c.ConfigLoader = config.NewLoader(path)
	c.ConfigManager = config.NewManager(path)
}

// Open loads the configuration, opens the task store and brings its schema
// up to date. Calling it again is a no-op.
func (c *Container) Open(ctx context.Context) error {
	if c.AppConfig == nil {
		cfg, err := c.ConfigLoader.Load()
		if err != nil {
			return err
		}
		c.AppConfig = cfg
		c.Logger = newStderrLogger(logging.ParseLevel(cfg.Log.Level))

		var opts []logging.Option
		if cfg.Log.Dir == "" {
			opts = append(opts, logging.WithMirror(c.Logger))
		}
		audit := logging.New(cfg.Log.Dir, logging.ParseLevel(cfg.Log.Level), opts...)
		c.AuditLog = audit
		c.closers = append(c.closers, audit)
	}

	if c.Tasks == nil {
		store, err := sqlstore.Open(ctx, c.AppConfig.Store)
		if err != nil {
			return err
		}
		c.closers = append(c.closers, store)
		c.Tasks = store
		c.StoreInitializer = store

		version, err := store.Initialize(ctx)
		if err != nil {
			return err
		}
		c.AuditLog.Debug(0, "store", fmt.Sprintf("schema at version %d (%s)", version, c.AppConfig.Store.Driver))
	}
	return nil
}

// Close releases the store and log files.
func (c *Container) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return errors.Join(errs...)
}

// Mode returns the configured task visibility.
func (c *Container) Mode() domain.Visibility {
	if c.AppConfig == nil {
		return domain.VisibilityShared
	}
	return c.AppConfig.Tasks.Mode
}

// UseCase factory methods

// NewTaskUseCase returns a new NewTask use case.
func (c *Container) NewTaskUseCase() *usecase.NewTask {
	return usecase.NewNewTask(c.Tasks, c.Clock, c.AuditLog)
}

// ShowTaskUseCase returns a new ShowTask use case.
func (c *Container) ShowTaskUseCase() *usecase.ShowTask {
	return usecase.NewShowTask(c.Tasks, c.Mode())
}

// ListTasksUseCase returns a new ListTasks use case.
func (c *Container) ListTasksUseCase() *usecase.ListTasks {
	return usecase.NewListTasks(c.Tasks, c.Mode())
}

// EditTaskUseCase returns a new EditTask use case.
func (c *Container) EditTaskUseCase() *usecase.EditTask {
	return usecase.NewEditTask(c.Tasks, c.Mode(), c.AuditLog)
}

// DeleteTaskUseCase returns a new DeleteTask use case.
func (c *Container) DeleteTaskUseCase() *usecase.DeleteTask {
	return usecase.NewDeleteTask(c.Tasks, c.Mode(), c.AuditLog)
}

// MigrateStoreUseCase returns a new MigrateStore use case.
func (c *Container) MigrateStoreUseCase() *usecase.MigrateStore {
	return usecase.NewMigrateStore(c.StoreInitializer)
}

// ShowConfigUseCase returns a new ShowConfig use case.
func (c *Container) ShowConfigUseCase() *usecase.ShowConfig {
	return usecase.NewShowConfig(c.ConfigManager, c.ConfigLoader)
}

// InitConfigUseCase returns a new InitConfig use case.
func (c *Container) InitConfigUseCase() *usecase.InitConfig {
	return usecase.NewInitConfig(c.ConfigManager)
}

// ShowConfigTemplateUseCase returns a new ShowConfigTemplate use case.
func (c *Container) ShowConfigTemplateUseCase() *usecase.ShowConfigTemplate {
	return usecase.NewShowConfigTemplate()
}

// Runtime is the chat-facing part of the application for one transport.
type Runtime struct {
	Bot           *bot.Bot
	Conversations *conversation.Machine
	Recipients    *notify.Registry
}

// NewRuntime wires the dispatcher, its state and the broadcaster that
// delivers notifications through sender. The container must be open.
func (c *Container) NewRuntime(sender domain.Sender) *Runtime {
	cfg := c.AppConfig
	convo := conversation.NewMachine(c.Clock, cfg.Conversation.IdleTimeout.Std())
	registry := notify.NewRegistry(c.Clock, cfg.Notify.RecipientTTL.Std())

	var notifier domain.Notifier
	if sender != nil {
		notifier = notify.NewBroadcaster(sender, c.Logger.With("component", "notify"))
	}

	b := bot.New(bot.UseCases{
		NewTask:    c.NewTaskUseCase(),
		ShowTask:   c.ShowTaskUseCase(),
		ListTasks:  c.ListTasksUseCase(),
		EditTask:   c.EditTaskUseCase(),
		DeleteTask: c.DeleteTaskUseCase(),
	}, convo, registry, notifier, bot.Options{
		Log:       c.Logger,
		Mode:      c.Mode(),
		Broadcast: cfg.Notify.Enabled,
	})

	return &Runtime{Bot: b, Conversations: convo, Recipients: registry}
}

// NewJanitor schedules eviction of idle dialogs and stale recipients.
func (c *Container) NewJanitor(rt *Runtime) (*janitor.Janitor, error) {
	return janitor.New(c.AppConfig.Janitor.Schedule, c.Logger,
		janitor.Job{Name: "conversations", Run: rt.Conversations.Sweep},
		janitor.Job{Name: "recipients", Run: rt.Recipients.Prune},
	)
}
