package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/runoshun/taskbot/internal/domain"
	"github.com/runoshun/taskbot/internal/usecase/shared"
)

// EditTaskInput contains the parameters for editing a task.
// All fields except TaskID and Actor are optional. Only non-nil fields will be updated.
type EditTaskInput struct {
	Description *string          // New description (nil = no change)
	Priority    *domain.Priority // New priority (nil = no change)
	Actor       string           // Acting user (used for scoping in personal mode)
	TaskID      int              // Task ID to edit (required)
}

// EditTaskOutput contains the result of editing a task.
type EditTaskOutput struct {
	Before *domain.Task // The task as it was read before the update
	After  *domain.Task // The task with the updates applied
}

// EditTask is the use case for editing an existing task.
type EditTask struct {
	tasks  domain.TaskRepository
	logger domain.Logger
	mode   domain.Visibility
}

// NewEditTask creates a new EditTask use case.
func NewEditTask(tasks domain.TaskRepository, mode domain.Visibility, logger domain.Logger) *EditTask {
	return &EditTask{
		tasks:  tasks,
		mode:   mode,
		logger: logger,
	}
}

// Execute edits a task with the given input.
func (uc *EditTask) Execute(ctx context.Context, in EditTaskInput) (*EditTaskOutput, error) {
	// Validate that at least one field is being updated
	if in.Description == nil && in.Priority == nil {
		return nil, domain.ErrNoFieldsToUpdate
	}

	var description string
	if in.Description != nil {
		description = strings.TrimSpace(*in.Description)
		if description == "" {
			return nil, domain.ErrEmptyDescription
		}
	}
	if in.Priority != nil && !in.Priority.IsValid() {
		return nil, domain.ErrInvalidPriority
	}

	owner := uc.mode.Scope(in.Actor)
	before, err := shared.GetTask(ctx, uc.tasks, in.TaskID, owner)
	if err != nil {
		return nil, err
	}
	after := *before

	upd := domain.TaskUpdate{Priority: in.Priority}
	if in.Description != nil {
		upd.Description = &description
	}
	ok, err := uc.tasks.Update(ctx, in.TaskID, owner, upd)
	if err != nil {
		return nil, fmt.Errorf("update task: %w", shared.StorageFailure("update task", err))
	}
	if !ok {
		return nil, domain.ErrTaskNotFound
	}

	if in.Description != nil {
		after.Description = description
		uc.log(in.TaskID, fmt.Sprintf("description changed by %s: %q -> %q", in.Actor, before.Description, description))
	}
	if in.Priority != nil {
		after.Priority = *in.Priority
		uc.log(in.TaskID, fmt.Sprintf("priority changed by %s: %s -> %s", in.Actor, before.Priority, *in.Priority))
	}

	return &EditTaskOutput{Before: before, After: &after}, nil
}

func (uc *EditTask) log(taskID int, msg string) {
	if uc.logger != nil {
		uc.logger.Info(taskID, "task", msg)
	}
}
