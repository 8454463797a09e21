package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dylan/pm/internal/pipeline/ports"
)

// Repository is a mock for ports.Repository.
type Repository struct {
	mock.Mock
}

func (m *Repository) Load(ctx context.Context) (*ports.Snapshot, error) {
	args := m.Called(ctx)
	if snap, ok := args.Get(0).(*ports.Snapshot); ok {
		return snap, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Repository) Save(ctx context.Context, snapshot *ports.Snapshot) error {
	args := m.Called(ctx, snapshot)
	return args.Error(0)
}
