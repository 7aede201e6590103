package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"leadgrid_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Contractor is a contractor account row.
type Contractor struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	CompanyName  string
	CreatedAt    time.Time
}

// RefreshToken is a persisted (hashed) refresh token.
type RefreshToken struct {
	TokenHash    string
	ContractorID uuid.UUID
	ExpiresAt    time.Time
}

// Repository implements contractor account persistence with PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new auth repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// CreateContractor inserts a new contractor account.
func (r *Repository) CreateContractor(ctx context.Context, email, passwordHash, companyName string) (Contractor, error) {
	query := `
		INSERT INTO contractors (email, password_hash, company_name)
		VALUES ($1, $2, $3)
		RETURNING id, email, password_hash, company_name, created_at`

	var c Contractor
	err := r.pool.QueryRow(ctx, query, email, passwordHash, companyName).Scan(
		&c.ID, &c.Email, &c.PasswordHash, &c.CompanyName, &c.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Contractor{}, apperr.Conflict("an account with this email already exists")
		}
		return Contractor{}, fmt.Errorf("create contractor: %w", err)
	}

	return c, nil
}

// GetContractorByEmail retrieves a contractor by email.
func (r *Repository) GetContractorByEmail(ctx context.Context, email string) (Contractor, error) {
	query := `
		SELECT id, email, password_hash, company_name, created_at
		FROM contractors
		WHERE email = $1`

	var c Contractor
	err := r.pool.QueryRow(ctx, query, email).Scan(
		&c.ID, &c.Email, &c.PasswordHash, &c.CompanyName, &c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Contractor{}, apperr.NotFound("contractor not found")
		}
		return Contractor{}, fmt.Errorf("get contractor by email: %w", err)
	}

	return c, nil
}

// GetContractorByID retrieves a contractor by id.
func (r *Repository) GetContractorByID(ctx context.Context, id uuid.UUID) (Contractor, error) {
	query := `
		SELECT id, email, password_hash, company_name, created_at
		FROM contractors
		WHERE id = $1`

	var c Contractor
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.Email, &c.PasswordHash, &c.CompanyName, &c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Contractor{}, apperr.NotFound("contractor not found")
		}
		return Contractor{}, fmt.Errorf("get contractor by id: %w", err)
	}

	return c, nil
}

// StoreRefreshToken persists a hashed refresh token.
func (r *Repository) StoreRefreshToken(ctx context.Context, tokenHash string, contractorID uuid.UUID, expiresAt time.Time) error {
	query := `
		INSERT INTO refresh_tokens (token_hash, contractor_id, expires_at)
		VALUES ($1, $2, $3)`

	if _, err := r.pool.Exec(ctx, query, tokenHash, contractorID, expiresAt); err != nil {
		return fmt.Errorf("store refresh token: %w", err)
	}
	return nil
}

// ConsumeRefreshToken deletes and returns a refresh token by hash.
// Consuming enforces single use; a reused token no longer exists.
func (r *Repository) ConsumeRefreshToken(ctx context.Context, tokenHash string) (RefreshToken, error) {
	query := `
		DELETE FROM refresh_tokens
		WHERE token_hash = $1
		RETURNING token_hash, contractor_id, expires_at`

	var rt RefreshToken
	err := r.pool.QueryRow(ctx, query, tokenHash).Scan(&rt.TokenHash, &rt.ContractorID, &rt.ExpiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return RefreshToken{}, apperr.Unauthorized("invalid refresh token")
		}
		return RefreshToken{}, fmt.Errorf("consume refresh token: %w", err)
	}

	return rt, nil
}

// DeleteExpiredRefreshTokens removes stale refresh tokens.
func (r *Repository) DeleteExpiredRefreshTokens(ctx context.Context) (int64, error) {
	result, err := r.pool.Exec(ctx, `DELETE FROM refresh_tokens WHERE expires_at < now()`)
	if err != nil {
		return 0, fmt.Errorf("delete expired refresh tokens: %w", err)
	}
	return result.RowsAffected(), nil
}
