package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/runoshun/taskbot/internal/domain"
)

// MigrateStoreInput contains parameters for MigrateStore.
type MigrateStoreInput struct{}

// MigrateStoreOutput contains migration results.
type MigrateStoreOutput struct {
	SchemaVersion int // Schema version in place after the run
}

// MigrateStore creates or upgrades the task store schema.
type MigrateStore struct {
	store domain.StoreInitializer
}

// NewMigrateStore creates a new MigrateStore use case.
func NewMigrateStore(store domain.StoreInitializer) *MigrateStore {
	return &MigrateStore{store: store}
}

// Execute applies pending schema migrations. Running it twice is a no-op.
func (uc *MigrateStore) Execute(ctx context.Context, _ MigrateStoreInput) (*MigrateStoreOutput, error) {
	if uc.store == nil {
		return nil, errors.New("store initializer is nil")
	}

	version, err := uc.store.Initialize(ctx)
	if err != nil {
		return nil, fmt.Errorf("initialize store: %w", err)
	}

	return &MigrateStoreOutput{SchemaVersion: version}, nil
}
