package shared

import (
	"context"
	"errors"
	"fmt"

	"github.com/runoshun/taskbot/internal/domain"
)

// GetTask retrieves a task by ID and returns domain.ErrTaskNotFound if it is
// missing or, when owner is set, belongs to another user. This centralizes
// the common pattern of:
//
//	task, err := repo.Get(ctx, taskID)
//	if err != nil { return nil, fmt.Errorf("get task: %w", err) }
//	if task == nil || !task.IsOwnedBy(owner) { return nil, domain.ErrTaskNotFound }
func GetTask(ctx context.Context, repo domain.TaskRepository, taskID int, owner string) (*domain.Task, error) {
	task, err := repo.Get(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("get task: %w", StorageFailure("get", err))
	}
	if task == nil {
		return nil, domain.ErrTaskNotFound
	}
	if owner != "" && !task.IsOwnedBy(owner) {
		return nil, domain.ErrTaskNotFound
	}
	return task, nil
}

// StorageFailure classifies a repository error. Validation sentinels pass
// through unchanged; anything else is reported as a *domain.StorageError.
func StorageFailure(op string, err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, domain.ErrInvalidPriority),
		errors.Is(err, domain.ErrEmptyDescription),
		errors.Is(err, domain.ErrTaskNotFound):
		return err
	}
	return domain.NewStorageError(op, err)
}
