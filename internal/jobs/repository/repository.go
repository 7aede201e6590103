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

// Job statuses. Scheduled and completed are the only states; there is no
// cancelled state. Cancellation is modeled by deleting the job.
const (
	StatusScheduled = "scheduled"
	StatusCompleted = "completed"
)

// Job is a promoted engagement row. Customer fields were denormalized from
// the source lead at promotion time; there is no back-reference to the lead.
type Job struct {
	ID                      uuid.UUID
	ContractorID            uuid.UUID
	CampaignID              uuid.UUID
	CampaignName            string
	CustomerName            string
	CustomerEmail           string
	CustomerPhone           string
	CustomerAddress         *string
	CustomerNotes           *string
	Status                  string
	ScheduledInspectionDate *time.Time
	Inspector               *string
	InternalNotes           *string
	CompletedAt             *time.Time
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

// PatchParams is a partial job update: nil fields are left unchanged.
type PatchParams struct {
	Status                  *string
	ScheduledInspectionDate *time.Time
	Inspector               *string
	InternalNotes           *string
	CompletedAt             *time.Time
}

// Repository implements job persistence with PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new jobs repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const jobColumns = `
	j.id, j.contractor_id, j.campaign_id, c.name,
	j.customer_name, j.customer_email, j.customer_phone, j.customer_address, j.customer_notes,
	j.status, j.scheduled_inspection_date, j.inspector, j.internal_notes,
	j.completed_at, j.created_at, j.updated_at`

func scanJob(row pgx.Row) (Job, error) {
	var j Job
	err := row.Scan(
		&j.ID, &j.ContractorID, &j.CampaignID, &j.CampaignName,
		&j.CustomerName, &j.CustomerEmail, &j.CustomerPhone, &j.CustomerAddress, &j.CustomerNotes,
		&j.Status, &j.ScheduledInspectionDate, &j.Inspector, &j.InternalNotes,
		&j.CompletedAt, &j.CreatedAt, &j.UpdatedAt,
	)
	return j, err
}

// GetByID retrieves a job scoped to its owning contractor.
func (r *Repository) GetByID(ctx context.Context, contractorID, id uuid.UUID) (Job, error) {
	query := `
		SELECT ` + jobColumns + `
		FROM jobs j
		JOIN campaigns c ON c.id = j.campaign_id
		WHERE j.id = $1 AND j.contractor_id = $2`

	j, err := scanJob(r.pool.QueryRow(ctx, query, id, contractorID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Job{}, apperr.NotFound("job not found")
		}
		return Job{}, fmt.Errorf("get job by id: %w", err)
	}

	return j, nil
}

// List returns all jobs of a contractor, most recently created first.
func (r *Repository) List(ctx context.Context, contractorID uuid.UUID) ([]Job, error) {
	query := `
		SELECT ` + jobColumns + `
		FROM jobs j
		JOIN campaigns c ON c.id = j.campaign_id
		WHERE j.contractor_id = $1
		ORDER BY j.created_at DESC`

	return r.queryJobs(ctx, query, contractorID)
}

// ListScheduledBetween returns jobs whose inspection date falls inside
// [from, to). Completed jobs keep their date and stay visible.
func (r *Repository) ListScheduledBetween(ctx context.Context, contractorID uuid.UUID, from, to time.Time) ([]Job, error) {
	query := `
		SELECT ` + jobColumns + `
		FROM jobs j
		JOIN campaigns c ON c.id = j.campaign_id
		WHERE j.contractor_id = $1
		  AND j.scheduled_inspection_date >= $2 AND j.scheduled_inspection_date < $3
		ORDER BY j.scheduled_inspection_date`

	return r.queryJobs(ctx, query, contractorID, from, to)
}

func (r *Repository) queryJobs(ctx context.Context, query string, args ...any) ([]Job, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query jobs: %w", err)
	}
	defer rows.Close()

	jobs := make([]Job, 0)
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		jobs = append(jobs, j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query jobs rows: %w", err)
	}

	return jobs, nil
}

// Patch applies a partial update and returns the updated job.
func (r *Repository) Patch(ctx context.Context, contractorID, id uuid.UUID, params PatchParams) (Job, error) {
	sets := make([]string, 0, 5)
	args := make([]any, 0, 7)

	addSet := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if params.Status != nil {
		addSet("status", *params.Status)
	}
	if params.ScheduledInspectionDate != nil {
		addSet("scheduled_inspection_date", *params.ScheduledInspectionDate)
	}
	if params.Inspector != nil {
		addSet("inspector", *params.Inspector)
	}
	if params.InternalNotes != nil {
		addSet("internal_notes", *params.InternalNotes)
	}
	if params.CompletedAt != nil {
		addSet("completed_at", *params.CompletedAt)
	}
	if len(sets) == 0 {
		return r.GetByID(ctx, contractorID, id)
	}
	sets = append(sets, "updated_at = now()")

	args = append(args, id, contractorID)
	query := fmt.Sprintf(`
		WITH updated AS (
			UPDATE jobs
			SET %s
			WHERE id = $%d AND contractor_id = $%d
			RETURNING *
		)
		SELECT %s
		FROM updated j
		JOIN campaigns c ON c.id = j.campaign_id`,
		strings.Join(sets, ", "), len(args)-1, len(args), jobColumns)

	j, err := scanJob(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Job{}, apperr.NotFound("job not found")
		}
		return Job{}, fmt.Errorf("patch job: %w", err)
	}

	return j, nil
}

// Delete removes a job. Used by unschedule and cold-marking; the
// denormalized customer fields are discarded with the row.
func (r *Repository) Delete(ctx context.Context, contractorID, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx,
		`DELETE FROM jobs WHERE id = $1 AND contractor_id = $2`, id, contractorID)
	if err != nil {
		return fmt.Errorf("delete job: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound("job not found")
	}
	return nil
}
