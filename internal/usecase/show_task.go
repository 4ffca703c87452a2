package usecase

import (
	"context"

	"github.com/runoshun/taskbot/internal/domain"
	"github.com/runoshun/taskbot/internal/usecase/shared"
)

// ShowTaskInput contains the parameters for showing a task.
type ShowTaskInput struct {
	Actor  string // Acting user (used for scoping in personal mode)
	TaskID int    // Task ID to show
}

// ShowTaskOutput contains the result of showing a task.
type ShowTaskOutput struct {
	Task *domain.Task
}

// ShowTask is the use case for reading a single task.
type ShowTask struct {
	tasks domain.TaskRepository
	mode  domain.Visibility
}

// NewShowTask creates a new ShowTask use case.
func NewShowTask(tasks domain.TaskRepository, mode domain.Visibility) *ShowTask {
	return &ShowTask{
		tasks: tasks,
		mode:  mode,
	}
}

// Execute returns the task, or domain.ErrTaskNotFound if the actor cannot see it.
func (uc *ShowTask) Execute(ctx context.Context, in ShowTaskInput) (*ShowTaskOutput, error) {
	task, err := shared.GetTask(ctx, uc.tasks, in.TaskID, uc.mode.Scope(in.Actor))
	if err != nil {
		return nil, err
	}
	return &ShowTaskOutput{Task: task}, nil
}
