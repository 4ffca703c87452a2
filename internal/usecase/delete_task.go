package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/taskbot/internal/domain"
	"github.com/runoshun/taskbot/internal/usecase/shared"
)

// DeleteTaskInput contains the parameters for deleting a task.
type DeleteTaskInput struct {
	Actor  string // Acting user (used for scoping in personal mode)
	TaskID int    // Task ID to delete
}

// DeleteTaskOutput contains the result of deleting a task.
type DeleteTaskOutput struct {
	Task *domain.Task // The task as it was before deletion
}

// DeleteTask is the use case for deleting a task.
type DeleteTask struct {
	tasks  domain.TaskRepository
	logger domain.Logger
	mode   domain.Visibility
}

// NewDeleteTask creates a new DeleteTask use case.
func NewDeleteTask(tasks domain.TaskRepository, mode domain.Visibility, logger domain.Logger) *DeleteTask {
	return &DeleteTask{
		tasks:  tasks,
		mode:   mode,
		logger: logger,
	}
}

// Execute deletes a task with the given ID.
func (uc *DeleteTask) Execute(ctx context.Context, in DeleteTaskInput) (*DeleteTaskOutput, error) {
	owner := uc.mode.Scope(in.Actor)

	// Read first so the caller can report what was removed
	task, err := shared.GetTask(ctx, uc.tasks, in.TaskID, owner)
	if err != nil {
		return nil, err
	}

	ok, err := uc.tasks.Delete(ctx, in.TaskID, owner)
	if err != nil {
		return nil, fmt.Errorf("delete task: %w", shared.StorageFailure("delete", err))
	}
	if !ok {
		// Removed concurrently between the read and the delete
		return nil, domain.ErrTaskNotFound
	}

	if uc.logger != nil {
		uc.logger.Info(in.TaskID, "task", fmt.Sprintf("deleted by %s: %q", in.Actor, task.Description))
	}

	return &DeleteTaskOutput{Task: task}, nil
}
