package service

import (
	"context"
	"strings"
	"time"

	"leadgrid_backend/internal/auth/password"
	"leadgrid_backend/internal/auth/repository"
	"leadgrid_backend/internal/auth/token"
	"leadgrid_backend/internal/auth/transport"
	"leadgrid_backend/internal/events"
	"leadgrid_backend/platform/apperr"
	"leadgrid_backend/platform/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	accessTokenType  = "access"
	refreshTokenSize = 32
)

// Service implements contractor authentication.
type Service struct {
	repo *repository.Repository
	cfg  config.AuthServiceConfig
	bus  events.Bus
}

// New creates a new auth service.
func New(repo *repository.Repository, cfg config.AuthServiceConfig, bus events.Bus) *Service {
	return &Service{repo: repo, cfg: cfg, bus: bus}
}

// SignUp registers a new contractor account and returns a token pair.
func (s *Service) SignUp(ctx context.Context, req transport.SignUpRequest) (transport.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	hash, err := password.Hash(req.Password)
	if err != nil {
		return transport.AuthResponse{}, apperr.Wrap(apperr.KindInternal, "failed to hash password", err)
	}

	contractor, err := s.repo.CreateContractor(ctx, email, hash, strings.TrimSpace(req.CompanyName))
	if err != nil {
		return transport.AuthResponse{}, err
	}

	s.bus.Publish(ctx, events.ContractorSignedUp{
		BaseEvent:    events.NewBaseEvent(),
		ContractorID: contractor.ID,
		Email:        contractor.Email,
		CompanyName:  contractor.CompanyName,
	})

	return s.issueTokens(ctx, contractor.ID)
}

// SignIn validates credentials and returns a token pair.
func (s *Service) SignIn(ctx context.Context, req transport.SignInRequest) (transport.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	contractor, err := s.repo.GetContractorByEmail(ctx, email)
	if err != nil {
		// Same response for unknown email and wrong password.
		return transport.AuthResponse{}, apperr.Unauthorized("invalid credentials")
	}

	if !password.Verify(contractor.PasswordHash, req.Password) {
		return transport.AuthResponse{}, apperr.Unauthorized("invalid credentials")
	}

	return s.issueTokens(ctx, contractor.ID)
}

// Refresh rotates a refresh token, returning a fresh token pair.
func (s *Service) Refresh(ctx context.Context, rawRefreshToken string) (transport.AuthResponse, error) {
	stored, err := s.repo.ConsumeRefreshToken(ctx, token.HashSHA256(rawRefreshToken))
	if err != nil {
		return transport.AuthResponse{}, err
	}

	if time.Now().After(stored.ExpiresAt) {
		return transport.AuthResponse{}, apperr.Unauthorized("refresh token expired")
	}

	return s.issueTokens(ctx, stored.ContractorID)
}

// Me returns the authenticated contractor's profile.
func (s *Service) Me(ctx context.Context, contractorID uuid.UUID) (transport.MeResponse, error) {
	contractor, err := s.repo.GetContractorByID(ctx, contractorID)
	if err != nil {
		return transport.MeResponse{}, err
	}

	return transport.MeResponse{
		ID:          contractor.ID,
		Email:       contractor.Email,
		CompanyName: contractor.CompanyName,
		CreatedAt:   contractor.CreatedAt,
	}, nil
}

func (s *Service) issueTokens(ctx context.Context, contractorID uuid.UUID) (transport.AuthResponse, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  contractorID.String(),
		"type": accessTokenType,
		"iat":  now.Unix(),
		"exp":  now.Add(s.cfg.GetAccessTokenTTL()).Unix(),
	}

	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString([]byte(s.cfg.GetJWTAccessSecret()))
	if err != nil {
		return transport.AuthResponse{}, apperr.Wrap(apperr.KindInternal, "failed to sign access token", err)
	}

	refreshToken, err := token.GenerateRandomToken(refreshTokenSize)
	if err != nil {
		return transport.AuthResponse{}, apperr.Wrap(apperr.KindInternal, "failed to generate refresh token", err)
	}

	expiresAt := now.Add(s.cfg.GetRefreshTokenTTL())
	if err := s.repo.StoreRefreshToken(ctx, token.HashSHA256(refreshToken), contractorID, expiresAt); err != nil {
		return transport.AuthResponse{}, err
	}

	return transport.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}
