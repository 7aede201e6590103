package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// JobRepository defines the interface for job data operations.
// This allows services to depend on an abstraction rather than concrete implementation,
// improving testability and modularity.
type JobRepository interface {
	GetByID(ctx context.Context, contractorID, id uuid.UUID) (Job, error)
	List(ctx context.Context, contractorID uuid.UUID) ([]Job, error)
	ListScheduledBetween(ctx context.Context, contractorID uuid.UUID, from, to time.Time) ([]Job, error)
	Patch(ctx context.Context, contractorID, id uuid.UUID, params PatchParams) (Job, error)
	Delete(ctx context.Context, contractorID, id uuid.UUID) error
}

// Ensure Repository implements JobRepository
var _ JobRepository = (*Repository)(nil)
