// Package usecase contains application use cases.
package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/runoshun/taskbot/internal/domain"
	"github.com/runoshun/taskbot/internal/usecase/shared"
)

// NewTaskInput contains the parameters for creating a new task.
// Fields are ordered to minimize memory padding.
type NewTaskInput struct {
	Owner       string          // Creating user ID (required)
	OwnerName   string          // Display name of the creator (optional)
	Description string          // Task description (required)
	Priority    domain.Priority // High, Medium or Low (required)
}

// NewTaskOutput contains the result of creating a new task.
type NewTaskOutput struct {
	Task   *domain.Task // The created task
	TaskID int          // The ID of the created task
}

// NewTask is the use case for creating a new task.
type NewTask struct {
	tasks  domain.TaskRepository
	clock  domain.Clock
	logger domain.Logger
}

// NewNewTask creates a new NewTask use case.
func NewNewTask(tasks domain.TaskRepository, clock domain.Clock, logger domain.Logger) *NewTask {
	return &NewTask{
		tasks:  tasks,
		clock:  clock,
		logger: logger,
	}
}

// Execute creates a new task with the given input.
func (uc *NewTask) Execute(ctx context.Context, in NewTaskInput) (*NewTaskOutput, error) {
	task := &domain.Task{
		Description: strings.TrimSpace(in.Description),
		Priority:    in.Priority,
		Owner:       in.Owner,
		OwnerName:   in.OwnerName,
		Created:     uc.clock.Now(),
	}
	if err := task.Validate(); err != nil {
		return nil, err
	}

	id, err := uc.tasks.Create(ctx, task)
	if err != nil {
		return nil, fmt.Errorf("create task: %w", shared.StorageFailure("create", err))
	}
	task.ID = id

	if uc.logger != nil {
		uc.logger.Info(id, "task", fmt.Sprintf("created by %s: %q (%s)", in.Owner, task.Description, task.Priority))
	}

	return &NewTaskOutput{TaskID: id, Task: task}, nil
}
