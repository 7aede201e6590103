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
	"github.com/jackc/pgx/v5/pgxpool"
)

// Lead is a homeowner inquiry row, joined with its campaign name for display.
type Lead struct {
	ID             uuid.UUID
	ContractorID   uuid.UUID
	CampaignID     uuid.UUID
	CampaignName   string
	Name           string
	Email          string
	Phone          string
	Address        *string
	Notes          *string
	ContactAttempt int
	IsColdLead     bool
	TentativeDate  *time.Time
	JobStatus      string
	Inspector      *string
	InternalNotes  *string
	PromotedAt     *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// CreateParams holds the submission-time fields of a new lead.
type CreateParams struct {
	ContractorID uuid.UUID
	CampaignID   uuid.UUID
	Name         string
	Email        string
	Phone        string
	Address      *string
	Notes        *string
}

// PatchParams is a partial lead update: nil fields are left unchanged.
// ClearTentativeDate removes the tentative placement; it wins over
// TentativeDate when both are set.
type PatchParams struct {
	Name               *string
	Email              *string
	Phone              *string
	Address            *string
	Notes              *string
	ContactAttempt     *int
	IsColdLead         *bool
	TentativeDate      *time.Time
	ClearTentativeDate bool
	JobStatus          *string
	Inspector          *string
	InternalNotes      *string
}

// PromoteParams are the inputs of the lead-to-job promotion transaction.
type PromoteParams struct {
	Status                  string
	ScheduledInspectionDate *time.Time
	Inspector               *string
	InternalNotes           *string
}

// CampaignRef identifies the campaign behind a public capture token.
type CampaignRef struct {
	ID           uuid.UUID
	ContractorID uuid.UUID
	Name         string
	Status       string
}

// Repository implements lead persistence with PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new leads repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const leadColumns = `
	l.id, l.contractor_id, l.campaign_id, c.name,
	l.name, l.email, l.phone, l.address, l.notes,
	l.contact_attempt, l.is_cold_lead, l.tentative_date, l.job_status,
	l.inspector, l.internal_notes, l.promoted_at, l.created_at, l.updated_at`

func scanLead(row pgx.Row) (Lead, error) {
	var l Lead
	err := row.Scan(
		&l.ID, &l.ContractorID, &l.CampaignID, &l.CampaignName,
		&l.Name, &l.Email, &l.Phone, &l.Address, &l.Notes,
		&l.ContactAttempt, &l.IsColdLead, &l.TentativeDate, &l.JobStatus,
		&l.Inspector, &l.InternalNotes, &l.PromotedAt, &l.CreatedAt, &l.UpdatedAt,
	)
	return l, err
}

// GetCampaignForCapture resolves a public capture token to its campaign.
func (r *Repository) GetCampaignForCapture(ctx context.Context, captureToken string) (CampaignRef, error) {
	query := `
		SELECT id, contractor_id, name, status
		FROM campaigns
		WHERE capture_token = $1`

	var ref CampaignRef
	err := r.pool.QueryRow(ctx, query, captureToken).Scan(&ref.ID, &ref.ContractorID, &ref.Name, &ref.Status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return CampaignRef{}, apperr.NotFound("campaign not found")
		}
		return CampaignRef{}, fmt.Errorf("get campaign for capture: %w", err)
	}

	return ref, nil
}

// Create inserts a new lead in the uncontacted state.
func (r *Repository) Create(ctx context.Context, params CreateParams) (Lead, error) {
	query := `
		WITH inserted AS (
			INSERT INTO leads (contractor_id, campaign_id, name, email, phone, address, notes)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING *
		)
		SELECT ` + leadColumns + `
		FROM inserted l
		JOIN campaigns c ON c.id = l.campaign_id`

	l, err := scanLead(r.pool.QueryRow(ctx, query,
		params.ContractorID, params.CampaignID, params.Name, params.Email,
		params.Phone, params.Address, params.Notes,
	))
	if err != nil {
		return Lead{}, fmt.Errorf("create lead: %w", err)
	}

	return l, nil
}

// GetByID retrieves a lead scoped to its owning contractor.
func (r *Repository) GetByID(ctx context.Context, contractorID, id uuid.UUID) (Lead, error) {
	query := `
		SELECT ` + leadColumns + `
		FROM leads l
		JOIN campaigns c ON c.id = l.campaign_id
		WHERE l.id = $1 AND l.contractor_id = $2`

	l, err := scanLead(r.pool.QueryRow(ctx, query, id, contractorID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Lead{}, apperr.NotFound("lead not found")
		}
		return Lead{}, fmt.Errorf("get lead by id: %w", err)
	}

	return l, nil
}

// List returns all non-promoted leads of a contractor, newest first.
// Promoted leads are retired from active tracking but never deleted.
func (r *Repository) List(ctx context.Context, contractorID uuid.UUID) ([]Lead, error) {
	query := `
		SELECT ` + leadColumns + `
		FROM leads l
		JOIN campaigns c ON c.id = l.campaign_id
		WHERE l.contractor_id = $1 AND l.promoted_at IS NULL
		ORDER BY l.created_at DESC`

	return r.queryLeads(ctx, query, contractorID)
}

// ListTentativeBetween returns leads with a tentative date inside [from, to),
// excluding promoted leads.
func (r *Repository) ListTentativeBetween(ctx context.Context, contractorID uuid.UUID, from, to time.Time) ([]Lead, error) {
	query := `
		SELECT ` + leadColumns + `
		FROM leads l
		JOIN campaigns c ON c.id = l.campaign_id
		WHERE l.contractor_id = $1
		  AND l.promoted_at IS NULL
		  AND l.tentative_date >= $2 AND l.tentative_date < $3
		ORDER BY l.tentative_date`

	return r.queryLeads(ctx, query, contractorID, from, to)
}

func (r *Repository) queryLeads(ctx context.Context, query string, args ...any) ([]Lead, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query leads: %w", err)
	}
	defer rows.Close()

	leads := make([]Lead, 0)
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lead: %w", err)
		}
		leads = append(leads, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query leads rows: %w", err)
	}

	return leads, nil
}

// Patch applies a partial update and returns the updated lead.
func (r *Repository) Patch(ctx context.Context, contractorID, id uuid.UUID, params PatchParams) (Lead, error) {
	sets := make([]string, 0, 12)
	args := make([]any, 0, 14)

	addSet := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if params.Name != nil {
		addSet("name", *params.Name)
	}
	if params.Email != nil {
		addSet("email", *params.Email)
	}
	if params.Phone != nil {
		addSet("phone", *params.Phone)
	}
	if params.Address != nil {
		addSet("address", *params.Address)
	}
	if params.Notes != nil {
		addSet("notes", *params.Notes)
	}
	if params.ContactAttempt != nil {
		addSet("contact_attempt", *params.ContactAttempt)
	}
	if params.IsColdLead != nil {
		addSet("is_cold_lead", *params.IsColdLead)
	}
	if params.ClearTentativeDate {
		sets = append(sets, "tentative_date = NULL")
	} else if params.TentativeDate != nil {
		addSet("tentative_date", *params.TentativeDate)
	}
	if params.JobStatus != nil {
		addSet("job_status", *params.JobStatus)
	}
	if params.Inspector != nil {
		addSet("inspector", *params.Inspector)
	}
	if params.InternalNotes != nil {
		addSet("internal_notes", *params.InternalNotes)
	}
	if len(sets) == 0 {
		return r.GetByID(ctx, contractorID, id)
	}
	sets = append(sets, "updated_at = now()")

	args = append(args, id, contractorID)
	query := fmt.Sprintf(`
		WITH updated AS (
			UPDATE leads
			SET %s
			WHERE id = $%d AND contractor_id = $%d AND promoted_at IS NULL
			RETURNING *
		)
		SELECT %s
		FROM updated l
		JOIN campaigns c ON c.id = l.campaign_id`,
		strings.Join(sets, ", "), len(args)-1, len(args), leadColumns)

	l, err := scanLead(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Lead{}, apperr.NotFound("lead not found")
		}
		return Lead{}, fmt.Errorf("patch lead: %w", err)
	}

	return l, nil
}

// Promote atomically retires a lead and creates the job it becomes: the
// lead's tentative date is cleared and promoted_at is stamped, and a job row
// is inserted with the lead's contact fields denormalized. Either both
// writes land or neither does. The job carries no lead back-reference.
func (r *Repository) Promote(ctx context.Context, contractorID, leadID uuid.UUID, params PromoteParams) (uuid.UUID, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return uuid.Nil, fmt.Errorf("promote lead begin: %w", err)
	}
	defer tx.Rollback(ctx)

	var lead Lead
	err = tx.QueryRow(ctx, `
		UPDATE leads
		SET tentative_date = NULL, promoted_at = now(), job_status = $1, updated_at = now()
		WHERE id = $2 AND contractor_id = $3 AND promoted_at IS NULL
		RETURNING id, campaign_id, name, email, phone, address, notes`,
		params.Status, leadID, contractorID,
	).Scan(&lead.ID, &lead.CampaignID, &lead.Name, &lead.Email, &lead.Phone, &lead.Address, &lead.Notes)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, apperr.NotFound("lead not found")
		}
		return uuid.Nil, fmt.Errorf("promote lead update: %w", err)
	}

	var jobID uuid.UUID
	err = tx.QueryRow(ctx, `
		INSERT INTO jobs (contractor_id, campaign_id, customer_name, customer_email, customer_phone,
		                  customer_address, customer_notes, status, scheduled_inspection_date,
		                  inspector, internal_notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`,
		contractorID, lead.CampaignID, lead.Name, lead.Email, lead.Phone,
		lead.Address, lead.Notes, params.Status, params.ScheduledInspectionDate,
		params.Inspector, params.InternalNotes,
	).Scan(&jobID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("promote lead insert job: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return uuid.Nil, fmt.Errorf("promote lead commit: %w", err)
	}

	return jobID, nil
}

// ListForPhoneBackfill returns every lead id and raw phone value.
// Used by the one-off phone normalization backfill tool.
func (r *Repository) ListForPhoneBackfill(ctx context.Context) (map[uuid.UUID]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, phone FROM leads`)
	if err != nil {
		return nil, fmt.Errorf("list leads for backfill: %w", err)
	}
	defer rows.Close()

	phones := make(map[uuid.UUID]string)
	for rows.Next() {
		var id uuid.UUID
		var phone string
		if err := rows.Scan(&id, &phone); err != nil {
			return nil, fmt.Errorf("scan lead phone: %w", err)
		}
		phones[id] = phone
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list leads for backfill rows: %w", err)
	}

	return phones, nil
}

// UpdatePhone rewrites a single lead's phone number.
func (r *Repository) UpdatePhone(ctx context.Context, id uuid.UUID, phone string) error {
	if _, err := r.pool.Exec(ctx,
		`UPDATE leads SET phone = $1, updated_at = now() WHERE id = $2`, phone, id); err != nil {
		return fmt.Errorf("update lead phone: %w", err)
	}
	return nil
}
