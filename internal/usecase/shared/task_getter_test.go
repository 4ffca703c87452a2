package shared

import (
	"context"
	"testing"

	"github.com/runoshun/taskbot/internal/domain"
	"github.com/runoshun/taskbot/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetTask_Success(t *testing.T) {
	repo := testutil.NewMockTaskRepository()
	repo.Put(&domain.Task{ID: 1, Description: "Buy milk", Priority: domain.PriorityHigh, Owner: "u1"})

	task, err := GetTask(context.Background(), repo, 1, "")

	require.NoError(t, err)
	assert.Equal(t, "Buy milk", task.Description)
}

func TestGetTask_NotFound(t *testing.T) {
	repo := testutil.NewMockTaskRepository()

	task, err := GetTask(context.Background(), repo, 99, "")

	assert.Nil(t, task)
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestGetTask_OtherOwnerLooksMissing(t *testing.T) {
	repo := testutil.NewMockTaskRepository()
	repo.Put(&domain.Task{ID: 1, Description: "Buy milk", Priority: domain.PriorityHigh, Owner: "u1"})

	_, err := GetTask(context.Background(), repo, 1, "u2")
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)

	task, err := GetTask(context.Background(), repo, 1, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, task.ID)
}

func TestGetTask_RepositoryError(t *testing.T) {
	repo := testutil.NewMockTaskRepository()
	repo.GetErr = assert.AnError

	_, err := GetTask(context.Background(), repo, 1, "")

	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
	assert.True(t, domain.IsStorageError(err))
	assert.Contains(t, err.Error(), "get task")
}

func TestStorageFailure(t *testing.T) {
	assert.NoError(t, StorageFailure("create", nil))
	assert.Equal(t, domain.ErrInvalidPriority, StorageFailure("update", domain.ErrInvalidPriority))
	assert.Equal(t, domain.ErrEmptyDescription, StorageFailure("create", domain.ErrEmptyDescription))
	assert.True(t, domain.IsStorageError(StorageFailure("create", assert.AnError)))
}
