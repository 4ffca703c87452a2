package usecase_test

import (
	"context"
	"testing"

	"github.com/runoshun/taskbot/internal/domain"
	"github.com/runoshun/taskbot/internal/testutil"
	"github.com/runoshun/taskbot/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedTask(repo *testutil.MockTaskRepository, id int, owner, desc string, p domain.Priority) {
	repo.Put(&domain.Task{ID: id, Owner: owner, Description: desc, Priority: p})
}

func TestShowTask_Execute(t *testing.T) {
	repo := testutil.NewMockTaskRepository()
	seedTask(repo, 1, "alice", "Buy milk", domain.PriorityHigh)

	t.Run("shared mode shows any task", func(t *testing.T) {
		uc := usecase.NewShowTask(repo, domain.VisibilityShared)

		out, err := uc.Execute(context.Background(), usecase.ShowTaskInput{TaskID: 1, Actor: "bob"})

		require.NoError(t, err)
		assert.Equal(t, "Buy milk", out.Task.Description)
	})

	t.Run("personal mode hides other users' tasks", func(t *testing.T) {
		uc := usecase.NewShowTask(repo, domain.VisibilityPersonal)

		_, err := uc.Execute(context.Background(), usecase.ShowTaskInput{TaskID: 1, Actor: "bob"})

		assert.ErrorIs(t, err, domain.ErrTaskNotFound)
	})

	t.Run("personal mode shows own task", func(t *testing.T) {
		uc := usecase.NewShowTask(repo, domain.VisibilityPersonal)

		out, err := uc.Execute(context.Background(), usecase.ShowTaskInput{TaskID: 1, Actor: "alice"})

		require.NoError(t, err)
		assert.Equal(t, 1, out.Task.ID)
	})

	t.Run("missing task", func(t *testing.T) {
		uc := usecase.NewShowTask(repo, domain.VisibilityShared)

		_, err := uc.Execute(context.Background(), usecase.ShowTaskInput{TaskID: 42})

		assert.ErrorIs(t, err, domain.ErrTaskNotFound)
	})
}

func TestShowTask_Execute_StorageError(t *testing.T) {
	repo := testutil.NewMockTaskRepository()
	repo.GetErr = assert.AnError
	uc := usecase.NewShowTask(repo, domain.VisibilityShared)

	_, err := uc.Execute(context.Background(), usecase.ShowTaskInput{TaskID: 1})

	require.Error(t, err)
	assert.True(t, domain.IsStorageError(err))
	assert.NotErrorIs(t, err, domain.ErrTaskNotFound)
}
