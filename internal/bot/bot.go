// Package bot turns decoded chat events into replies. It drives the
// conversation state machine and the task use cases and triggers
// broadcasts; transports only decode updates and render replies.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/google/uuid"

	"github.com/runoshun/taskbot/internal/conversation"
	"github.com/runoshun/taskbot/internal/domain"
	"github.com/runoshun/taskbot/internal/notify"
	"github.com/runoshun/taskbot/internal/usecase"
)

// UseCases groups the task operations the bot drives.
type UseCases struct {
	NewTask    *usecase.NewTask
	ShowTask   *usecase.ShowTask
	ListTasks  *usecase.ListTasks
	EditTask   *usecase.EditTask
	DeleteTask *usecase.DeleteTask
}

// Options configures a Bot.
type Options struct {
	Log  *slog.Logger
	Mode domain.Visibility
	// Broadcast sends task changes to registered users. It only takes
	// effect in shared mode.
	Broadcast bool
}

// Bot is the command dispatcher.
// Fields are ordered to minimize memory padding.
type Bot struct {
	notifier domain.Notifier
	uc       UseCases
	convo    *conversation.Machine
	registry *notify.Registry
	log      *slog.Logger
	mode     domain.Visibility
	notify   bool
}

// Ensure Bot implements domain.UpdateHandler interface.
var _ domain.UpdateHandler = (*Bot)(nil)

// New creates a Bot.
func New(uc UseCases, convo *conversation.Machine, registry *notify.Registry, notifier domain.Notifier, opts Options) *Bot {
	log := opts.Log
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	mode := opts.Mode
	if mode == "" {
		mode = domain.VisibilityShared
	}
	return &Bot{
		uc:       uc,
		convo:    convo,
		registry: registry,
		notifier: notifier,
		log:      log,
		mode:     mode,
		notify:   opts.Broadcast,
	}
}

// Mode returns the task visibility the bot runs with.
func (b *Bot) Mode() domain.Visibility {
	return b.mode
}

// Handle processes one inbound event. It never panics; unexpected failures
// are logged and answered with a generic apology.
func (b *Bot) Handle(ctx context.Context, in domain.Inbound) (reply domain.Reply) {
	log := b.log.With("trace", uuid.NewString(), "user", in.UserID)
	defer func() {
		if r := recover(); r != nil {
			log.Error("panic while handling update", "panic", r, "stack", string(debug.Stack()))
			reply = domain.Reply{Text: msgGenericError}
		}
	}()

	b.registry.Touch(in.UserID)

	switch {
	case in.IsCommand():
		log.Debug("command", "command", in.Command, "phase", b.convo.Phase(in.UserID))
		return b.handleCommand(ctx, log, in)
	case in.IsAction():
		log.Debug("action", "action", in.Action, "phase", b.convo.Phase(in.UserID))
		return b.handleAction(ctx, log, in)
	default:
		return b.handleText(ctx, log, in)
	}
}

func (b *Bot) handleCommand(ctx context.Context, log *slog.Logger, in domain.Inbound) domain.Reply {
	switch in.Command {
	case "start":
		b.registry.Add(in.UserID, in.ChatID)
		return domain.Reply{Text: b.welcomeText()}
	case "help":
		return domain.Reply{Text: b.helpText()}
	case "add":
		b.convo.Start(in.UserID)
		return domain.Reply{Text: b.descriptionPrompt()}
	case "list":
		tasks, ok := b.listTasks(ctx, log, in)
		if !ok {
			return domain.Reply{Text: msgListFailed}
		}
		return domain.Reply{Text: b.listText(tasks)}
	case "edit":
		b.convo.Reset(in.UserID)
		tasks, ok := b.listTasks(ctx, log, in)
		if !ok {
			return domain.Reply{Text: msgListFailed}
		}
		if len(tasks) == 0 {
			return domain.Reply{Text: msgNoTasksToEdit}
		}
		return domain.Reply{Text: msgSelectEdit, Options: editPickOptions(tasks)}
	case "delete":
		b.convo.Reset(in.UserID)
		tasks, ok := b.listTasks(ctx, log, in)
		if !ok {
			return domain.Reply{Text: msgListFailed}
		}
		if len(tasks) == 0 {
			return domain.Reply{Text: msgNoTasksToDelete}
		}
		return domain.Reply{Text: msgSelectDelete, Options: deletePickOptions(tasks)}
	case "cancel":
		if b.convo.Phase(in.UserID) == domain.PhaseIdle {
			return domain.Reply{Text: msgNothingToCancel}
		}
		b.convo.Reset(in.UserID)
		return domain.Reply{Text: msgCancelled}
	default:
		return domain.Reply{Text: msgUnknownCommand}
	}
}

func (b *Bot) listTasks(ctx context.Context, log *slog.Logger, in domain.Inbound) ([]*domain.Task, bool) {
	out, err := b.uc.ListTasks.Execute(ctx, usecase.ListTasksInput{Actor: in.UserID})
	if err != nil {
		log.Error("list tasks failed", "error", err)
		return nil, false
	}
	return out.Tasks, true
}

func (b *Bot) handleAction(ctx context.Context, log *slog.Logger, in domain.Inbound) domain.Reply {
	action, err := ParseAction(in.Action)
	if err != nil {
		log.Debug("ignoring action", "error", err)
		return domain.Reply{}
	}

	switch action.Kind {
	case ActionPriority:
		return b.choosePriority(ctx, log, in, action.Priority)
	case ActionDelete:
		return b.deleteTask(ctx, log, in, action.TaskID)
	case ActionEditSelect:
		task, reply, ok := b.showTask(ctx, log, in, action.TaskID)
		if !ok {
			return reply
		}
		return domain.Reply{Text: editMenuText(task), Options: editMenuOptions(task.ID), Edit: true}
	case ActionEditDescription:
		task, reply, ok := b.showTask(ctx, log, in, action.TaskID)
		if !ok {
			return reply
		}
		b.convo.BeginEdit(in.UserID, task.ID)
		return domain.Reply{Text: msgSendNewDesc, Edit: true}
	case ActionEditPriority:
		task, reply, ok := b.showTask(ctx, log, in, action.TaskID)
		if !ok {
			return reply
		}
		return domain.Reply{Text: msgSelectNewPriority, Options: setPriorityOptions(task.ID), Edit: true}
	case ActionEditSetPriority:
		return b.setPriority(ctx, log, in, action.TaskID, action.Priority)
	case ActionEditCancel:
		b.convo.Reset(in.UserID)
		return domain.Reply{Text: msgEditCancelled, Edit: true}
	case ActionCancel:
		b.convo.Reset(in.UserID)
		return domain.Reply{Text: msgCancelled, Edit: true}
	default:
		return domain.Reply{}
	}
}

func (b *Bot) handleText(ctx context.Context, log *slog.Logger, in domain.Inbound) domain.Reply {
	switch b.convo.Phase(in.UserID) {
	case domain.PhaseAwaitingDescription:
		err := b.convo.ProvideDescription(in.UserID, in.Text)
		switch {
		case errors.Is(err, domain.ErrEmptyDescription):
			return domain.Reply{Text: msgEmptyDescription + " " + b.descriptionPrompt()}
		case err != nil:
			return domain.Reply{}
		}
		return domain.Reply{Text: msgSelectPriority, Options: priorityOptions(true)}
	case domain.PhaseAwaitingEditField:
		return b.updateDescription(ctx, log, in)
	default:
		// Nothing pending; free text is ignored.
		return domain.Reply{}
	}
}

func (b *Bot) choosePriority(ctx context.Context, log *slog.Logger, in domain.Inbound, p domain.Priority) domain.Reply {
	desc, err := b.convo.PendingDescription(in.UserID)
	if err != nil {
		// Stale button from a finished or abandoned dialog
		log.Debug("ignoring priority selection", "error", err)
		return domain.Reply{}
	}

	out, err := b.uc.NewTask.Execute(ctx, usecase.NewTaskInput{
		Owner:       in.UserID,
		OwnerName:   displayName(in),
		Description: desc,
		Priority:    p,
	})
	if err != nil {
		log.Error("create task failed", "error", err)
		return domain.Reply{Text: msgAddFailed, Options: priorityOptions(true), Edit: true}
	}

	b.convo.Reset(in.UserID)
	b.broadcast(ctx, in, addedNotice(displayName(in), out.Task))
	return domain.Reply{Text: b.addedText(p), Edit: true}
}

func (b *Bot) updateDescription(ctx context.Context, log *slog.Logger, in domain.Inbound) domain.Reply {
	taskID, err := b.convo.EditTarget(in.UserID)
	if err != nil {
		return domain.Reply{}
	}

	out, err := b.uc.EditTask.Execute(ctx, usecase.EditTaskInput{
		TaskID:      taskID,
		Actor:       in.UserID,
		Description: &in.Text,
	})
	switch {
	case errors.Is(err, domain.ErrEmptyDescription):
		return domain.Reply{Text: msgEmptyDescription + " " + msgSendNewDesc}
	case err != nil:
		return b.failure(log, in, err, msgDescriptionFailed, false)
	}

	b.convo.Reset(in.UserID)
	b.broadcast(ctx, in, descriptionNotice(displayName(in), out.Before.Description, out.After.Description))
	return domain.Reply{Text: msgDescUpdated}
}

func (b *Bot) setPriority(ctx context.Context, log *slog.Logger, in domain.Inbound, taskID int, p domain.Priority) domain.Reply {
	out, err := b.uc.EditTask.Execute(ctx, usecase.EditTaskInput{
		TaskID:   taskID,
		Actor:    in.UserID,
		Priority: &p,
	})
	if err != nil {
		reply := b.failure(log, in, err, msgPriorityFailed, true)
		if domain.IsStorageError(err) {
			reply.Options = setPriorityOptions(taskID)
		}
		return reply
	}

	b.convo.Reset(in.UserID)
	b.broadcast(ctx, in, priorityNotice(displayName(in), out.After))
	return domain.Reply{Text: fmt.Sprintf("✅ Priority updated to %s!", p), Edit: true}
}

func (b *Bot) deleteTask(ctx context.Context, log *slog.Logger, in domain.Inbound, taskID int) domain.Reply {
	out, err := b.uc.DeleteTask.Execute(ctx, usecase.DeleteTaskInput{TaskID: taskID, Actor: in.UserID})
	if err != nil {
		return b.failure(log, in, err, msgDeleteFailed, true)
	}

	b.broadcast(ctx, in, deletedNotice(displayName(in), out.Task))
	return domain.Reply{Text: "🗑 Task deleted: " + out.Task.Description, Edit: true}
}

// showTask loads a task for a read-only step. A read failure is reported
// as a missing task.
func (b *Bot) showTask(ctx context.Context, log *slog.Logger, in domain.Inbound, taskID int) (*domain.Task, domain.Reply, bool) {
	out, err := b.uc.ShowTask.Execute(ctx, usecase.ShowTaskInput{TaskID: taskID, Actor: in.UserID})
	if err != nil {
		if !errors.Is(err, domain.ErrTaskNotFound) {
			log.Error("read task failed", "task", taskID, "error", err)
		}
		b.convo.Reset(in.UserID)
		return nil, domain.Reply{Text: msgNotFound, Edit: true}, false
	}
	return out.Task, domain.Reply{}, true
}

// failure maps a use case error to a reply. NotFound resets the dialog;
// storage failures keep it so the same step can be retried.
func (b *Bot) failure(log *slog.Logger, in domain.Inbound, err error, retryText string, edit bool) domain.Reply {
	switch {
	case errors.Is(err, domain.ErrTaskNotFound):
		b.convo.Reset(in.UserID)
		return domain.Reply{Text: msgNotFound, Edit: edit}
	case domain.IsStorageError(err):
		log.Error("storage failure", "error", err)
		return domain.Reply{Text: retryText, Edit: edit}
	default:
		log.Error("unexpected failure", "error", err)
		return domain.Reply{Text: msgGenericError, Edit: edit}
	}
}

func (b *Bot) broadcasting() bool {
	return b.notify && b.mode == domain.VisibilityShared && b.notifier != nil
}

func (b *Bot) broadcast(ctx context.Context, in domain.Inbound, text string) {
	if !b.broadcasting() {
		return
	}
	b.notifier.Notify(ctx, b.registry.Active(), in.UserID, text)
}

func displayName(in domain.Inbound) string {
	if in.UserName != "" {
		return in.UserName
	}
	return in.UserID
}
