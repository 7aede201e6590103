package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"leadgrid_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Campaign statuses. Only active campaigns accept public lead capture.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// Campaign is a marketing campaign row.
type Campaign struct {
	ID           uuid.UUID
	ContractorID uuid.UUID
	Name         string
	Description  string
	Status       string
	CaptureToken string
	HeroImageKey *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UpdateParams is a patch: nil fields are left unchanged.
type UpdateParams struct {
	Name        *string
	Description *string
	Status      *string
}

// Repository implements campaign persistence with PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new campaigns repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const campaignColumns = `id, contractor_id, name, description, status, capture_token, hero_image_key, created_at, updated_at`

func scanCampaign(row pgx.Row) (Campaign, error) {
	var c Campaign
	err := row.Scan(
		&c.ID, &c.ContractorID, &c.Name, &c.Description, &c.Status,
		&c.CaptureToken, &c.HeroImageKey, &c.CreatedAt, &c.UpdatedAt,
	)
	return c, err
}

// Create inserts a new campaign for a contractor.
func (r *Repository) Create(ctx context.Context, contractorID uuid.UUID, name, description, status, captureToken string) (Campaign, error) {
	query := `
		INSERT INTO campaigns (contractor_id, name, description, status, capture_token)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + campaignColumns

	c, err := scanCampaign(r.pool.QueryRow(ctx, query, contractorID, name, description, status, captureToken))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Campaign{}, apperr.Conflict("a campaign with this name already exists")
		}
		return Campaign{}, fmt.Errorf("create campaign: %w", err)
	}

	return c, nil
}

// GetByID retrieves a campaign scoped to its owning contractor.
func (r *Repository) GetByID(ctx context.Context, contractorID, id uuid.UUID) (Campaign, error) {
	query := `
		SELECT ` + campaignColumns + `
		FROM campaigns
		WHERE id = $1 AND contractor_id = $2`

	c, err := scanCampaign(r.pool.QueryRow(ctx, query, id, contractorID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Campaign{}, apperr.NotFound("campaign not found")
		}
		return Campaign{}, fmt.Errorf("get campaign by id: %w", err)
	}

	return c, nil
}

// GetByCaptureToken retrieves a campaign by its public capture token.
func (r *Repository) GetByCaptureToken(ctx context.Context, captureToken string) (Campaign, error) {
	query := `
		SELECT ` + campaignColumns + `
		FROM campaigns
		WHERE capture_token = $1`

	c, err := scanCampaign(r.pool.QueryRow(ctx, query, captureToken))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Campaign{}, apperr.NotFound("campaign not found")
		}
		return Campaign{}, fmt.Errorf("get campaign by capture token: %w", err)
	}

	return c, nil
}

// PublicLanding is a campaign joined with its contractor's company name,
// as needed by the public landing page.
type PublicLanding struct {
	Campaign    Campaign
	CompanyName string
}

// GetPublicByCaptureToken retrieves a campaign and the owning company name
// by public capture token.
func (r *Repository) GetPublicByCaptureToken(ctx context.Context, captureToken string) (PublicLanding, error) {
	query := `
		SELECT c.id, c.contractor_id, c.name, c.description, c.status,
		       c.capture_token, c.hero_image_key, c.created_at, c.updated_at,
		       ct.company_name
		FROM campaigns c
		JOIN contractors ct ON ct.id = c.contractor_id
		WHERE c.capture_token = $1`

	var pl PublicLanding
	err := r.pool.QueryRow(ctx, query, captureToken).Scan(
		&pl.Campaign.ID, &pl.Campaign.ContractorID, &pl.Campaign.Name,
		&pl.Campaign.Description, &pl.Campaign.Status, &pl.Campaign.CaptureToken,
		&pl.Campaign.HeroImageKey, &pl.Campaign.CreatedAt, &pl.Campaign.UpdatedAt,
		&pl.CompanyName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return PublicLanding{}, apperr.NotFound("campaign not found")
		}
		return PublicLanding{}, fmt.Errorf("get public landing: %w", err)
	}

	return pl, nil
}

// List returns all campaigns of a contractor, newest first.
func (r *Repository) List(ctx context.Context, contractorID uuid.UUID) ([]Campaign, error) {
	query := `
		SELECT ` + campaignColumns + `
		FROM campaigns
		WHERE contractor_id = $1
		ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, contractorID)
	if err != nil {
		return nil, fmt.Errorf("list campaigns: %w", err)
	}
	defer rows.Close()

	campaigns := make([]Campaign, 0)
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, fmt.Errorf("scan campaign: %w", err)
		}
		campaigns = append(campaigns, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list campaigns rows: %w", err)
	}

	return campaigns, nil
}

// Update applies a partial update and returns the updated campaign.
func (r *Repository) Update(ctx context.Context, contractorID, id uuid.UUID, params UpdateParams) (Campaign, error) {
	sets := make([]string, 0, 4)
	args := make([]any, 0, 6)

	addSet := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if params.Name != nil {
		addSet("name", *params.Name)
	}
	if params.Description != nil {
		addSet("description", *params.Description)
	}
	if params.Status != nil {
		addSet("status", *params.Status)
	}
	if len(sets) == 0 {
		return r.GetByID(ctx, contractorID, id)
	}
	sets = append(sets, "updated_at = now()")

	args = append(args, id, contractorID)
	query := fmt.Sprintf(`
		UPDATE campaigns
		SET %s
		WHERE id = $%d AND contractor_id = $%d
		RETURNING %s`, strings.Join(sets, ", "), len(args)-1, len(args), campaignColumns)

	c, err := scanCampaign(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Campaign{}, apperr.NotFound("campaign not found")
		}
		return Campaign{}, fmt.Errorf("update campaign: %w", err)
	}

	return c, nil
}

// SetHeroImageKey stores the object key of the uploaded hero image.
func (r *Repository) SetHeroImageKey(ctx context.Context, contractorID, id uuid.UUID, key string) error {
	query := `
		UPDATE campaigns
		SET hero_image_key = $1, updated_at = now()
		WHERE id = $2 AND contractor_id = $3`

	result, err := r.pool.Exec(ctx, query, key, id, contractorID)
	if err != nil {
		return fmt.Errorf("set hero image key: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound("campaign not found")
	}
	return nil
}

// Delete removes a campaign. Campaigns with leads cannot be deleted.
func (r *Repository) Delete(ctx context.Context, contractorID, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx,
		`DELETE FROM campaigns WHERE id = $1 AND contractor_id = $2`, id, contractorID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return apperr.Conflict("campaign has leads and cannot be deleted; deactivate it instead")
		}
		return fmt.Errorf("delete campaign: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound("campaign not found")
	}
	return nil
}
