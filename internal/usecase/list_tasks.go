package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/taskbot/internal/domain"
	"github.com/runoshun/taskbot/internal/usecase/shared"
)

// ListTasksInput contains the parameters for listing tasks.
type ListTasksInput struct {
	Actor string // Acting user (used for scoping in personal mode)
	// Owner restricts the list to one user regardless of mode.
	// Used by the admin CLI; chat users never set it.
	Owner string
}

// ListTasksOutput contains the result of listing tasks.
type ListTasksOutput struct {
	Tasks []*domain.Task // Tasks in listing order (High first, then oldest first)
}

// ListTasks is the use case for listing tasks.
type ListTasks struct {
	tasks domain.TaskRepository
	mode  domain.Visibility
}

// NewListTasks creates a new ListTasks use case.
func NewListTasks(tasks domain.TaskRepository, mode domain.Visibility) *ListTasks {
	return &ListTasks{
		tasks: tasks,
		mode:  mode,
	}
}

// Execute lists the tasks visible to the actor.
func (uc *ListTasks) Execute(ctx context.Context, in ListTasksInput) (*ListTasksOutput, error) {
	filter := domain.TaskFilter{Owner: uc.mode.Scope(in.Actor)}
	if in.Owner != "" {
		filter.Owner = in.Owner
	}

	tasks, err := uc.tasks.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", shared.StorageFailure("list", err))
	}

	return &ListTasksOutput{Tasks: tasks}, nil
}
