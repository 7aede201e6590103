package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// LeadRepository defines the interface for lead data operations.
// This allows services to depend on an abstraction rather than concrete implementation,
// improving testability and modularity.
type LeadRepository interface {
	// Capture operations
	GetCampaignForCapture(ctx context.Context, captureToken string) (CampaignRef, error)
	Create(ctx context.Context, params CreateParams) (Lead, error)

	// Lifecycle operations
	GetByID(ctx context.Context, contractorID, id uuid.UUID) (Lead, error)
	List(ctx context.Context, contractorID uuid.UUID) ([]Lead, error)
	ListTentativeBetween(ctx context.Context, contractorID uuid.UUID, from, to time.Time) ([]Lead, error)
	Patch(ctx context.Context, contractorID, id uuid.UUID, params PatchParams) (Lead, error)
	Promote(ctx context.Context, contractorID, leadID uuid.UUID, params PromoteParams) (uuid.UUID, error)

	// Maintenance operations
	ListForPhoneBackfill(ctx context.Context) (map[uuid.UUID]string, error)
	UpdatePhone(ctx context.Context, id uuid.UUID, phone string) error
}

// Ensure Repository implements LeadRepository
var _ LeadRepository = (*Repository)(nil)
