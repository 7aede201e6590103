// Package service contains the campaign business logic.
package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"leadgrid_backend/internal/auth/token"
	"leadgrid_backend/internal/campaigns/repository"
	"leadgrid_backend/internal/campaigns/transport"
	"leadgrid_backend/internal/storage"
	"leadgrid_backend/platform/apperr"
	"leadgrid_backend/platform/logger"
	"leadgrid_backend/platform/sanitize"

	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"
)

const (
	captureTokenBytes = 16
	qrImageSize       = 512
	heroURLExpiry     = time.Hour
)

var allowedImageTypes = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/webp": ".webp",
}

// Config provides the settings the campaign service needs.
type Config interface {
	GetAppBaseURL() string
	GetMinioBucketCampaignImages() string
	GetMinIOMaxFileSize() int64
	IsMinIOEnabled() bool
}

// Service implements campaign management.
type Service struct {
	repo    *repository.Repository
	storage storage.Service
	cfg     Config
	log     *logger.Logger
}

// New creates a new campaign service. storageSvc may be nil when object
// storage is disabled; image upload then returns an unavailable error.
func New(repo *repository.Repository, storageSvc storage.Service, cfg Config, log *logger.Logger) *Service {
	return &Service{repo: repo, storage: storageSvc, cfg: cfg, log: log}
}

// Create creates a campaign with a fresh public capture token.
// New campaigns start active.
func (s *Service) Create(ctx context.Context, contractorID uuid.UUID, req transport.CreateCampaignRequest) (transport.CampaignResponse, error) {
	captureToken, err := token.GenerateRandomToken(captureTokenBytes)
	if err != nil {
		return transport.CampaignResponse{}, fmt.Errorf("generate capture token: %w", err)
	}

	campaign, err := s.repo.Create(ctx, contractorID,
		sanitize.Text(req.Name),
		sanitize.Text(req.Description),
		repository.StatusActive,
		captureToken,
	)
	if err != nil {
		return transport.CampaignResponse{}, err
	}

	s.log.LifecycleEvent("campaign_created", campaign.ID.String())

	return s.toResponse(ctx, campaign), nil
}

// Get returns a single campaign owned by the contractor.
func (s *Service) Get(ctx context.Context, contractorID, id uuid.UUID) (transport.CampaignResponse, error) {
	campaign, err := s.repo.GetByID(ctx, contractorID, id)
	if err != nil {
		return transport.CampaignResponse{}, err
	}
	return s.toResponse(ctx, campaign), nil
}

// List returns all campaigns of the contractor.
func (s *Service) List(ctx context.Context, contractorID uuid.UUID) ([]transport.CampaignResponse, error) {
	campaigns, err := s.repo.List(ctx, contractorID)
	if err != nil {
		return nil, err
	}

	responses := make([]transport.CampaignResponse, 0, len(campaigns))
	for _, campaign := range campaigns {
		responses = append(responses, s.toResponse(ctx, campaign))
	}
	return responses, nil
}

// Update applies a partial update to a campaign.
func (s *Service) Update(ctx context.Context, contractorID, id uuid.UUID, req transport.UpdateCampaignRequest) (transport.CampaignResponse, error) {
	params := repository.UpdateParams{Status: req.Status}
	if req.Name != nil {
		params.Name = sanitize.TextPtr(req.Name)
	}
	if req.Description != nil {
		params.Description = sanitize.TextPtr(req.Description)
	}

	campaign, err := s.repo.Update(ctx, contractorID, id, params)
	if err != nil {
		return transport.CampaignResponse{}, err
	}

	if req.Status != nil {
		s.log.LifecycleEvent("campaign_status_changed", campaign.ID.String())
	}

	return s.toResponse(ctx, campaign), nil
}

// Delete removes a campaign that has no leads.
func (s *Service) Delete(ctx context.Context, contractorID, id uuid.UUID) error {
	return s.repo.Delete(ctx, contractorID, id)
}

// QRCodePNG renders the campaign's public landing URL as a PNG QR code,
// suitable for print material (yard signs, door hangers).
func (s *Service) QRCodePNG(ctx context.Context, contractorID, id uuid.UUID) ([]byte, error) {
	campaign, err := s.repo.GetByID(ctx, contractorID, id)
	if err != nil {
		return nil, err
	}

	png, err := qrcode.Encode(s.publicURL(campaign.CaptureToken), qrcode.Medium, qrImageSize)
	if err != nil {
		return nil, fmt.Errorf("encode qr code: %w", err)
	}
	return png, nil
}

// UploadHeroImage stores a landing-page hero image for the campaign.
func (s *Service) UploadHeroImage(ctx context.Context, contractorID, id uuid.UUID, reader io.Reader, size int64, contentType string) error {
	if s.storage == nil || !s.cfg.IsMinIOEnabled() {
		return apperr.Internal("image storage is not configured")
	}

	ext, ok := allowedImageTypes[contentType]
	if !ok {
		return apperr.Validation("image must be PNG, JPEG or WebP")
	}
	if size <= 0 || size > s.cfg.GetMinIOMaxFileSize() {
		return apperr.Validation(fmt.Sprintf("image must be between 1 byte and %d bytes", s.cfg.GetMinIOMaxFileSize()))
	}

	campaign, err := s.repo.GetByID(ctx, contractorID, id)
	if err != nil {
		return err
	}

	bucket := s.cfg.GetMinioBucketCampaignImages()
	key := fmt.Sprintf("%s/hero%s", campaign.ID, ext)
	if err := s.storage.Upload(ctx, bucket, key, reader, size, contentType); err != nil {
		return err
	}

	return s.repo.SetHeroImageKey(ctx, contractorID, id, key)
}

// PublicLanding resolves the landing-page data for an active campaign
// by its capture token. Inactive campaigns are reported as not found so
// the token does not leak campaign existence.
func (s *Service) PublicLanding(ctx context.Context, captureToken string) (transport.PublicCampaignResponse, error) {
	landing, err := s.repo.GetPublicByCaptureToken(ctx, captureToken)
	if err != nil {
		return transport.PublicCampaignResponse{}, err
	}
	if landing.Campaign.Status != repository.StatusActive {
		return transport.PublicCampaignResponse{}, apperr.NotFound("campaign not found")
	}

	return transport.PublicCampaignResponse{
		Name:         landing.Campaign.Name,
		Description:  landing.Campaign.Description,
		CompanyName:  landing.CompanyName,
		HeroImageURL: s.heroImageURL(ctx, landing.Campaign),
	}, nil
}

func (s *Service) publicURL(captureToken string) string {
	return fmt.Sprintf("%s/c/%s", s.cfg.GetAppBaseURL(), captureToken)
}

func (s *Service) heroImageURL(ctx context.Context, campaign repository.Campaign) *string {
	if campaign.HeroImageKey == nil || s.storage == nil {
		return nil
	}

	u, err := s.storage.PresignedGetURL(ctx, s.cfg.GetMinioBucketCampaignImages(), *campaign.HeroImageKey, heroURLExpiry)
	if err != nil {
		// A broken presign should not fail the whole response.
		s.log.Warn("presign hero image failed", "campaignId", campaign.ID.String(), "error", err.Error())
		return nil
	}
	return &u
}

func (s *Service) toResponse(ctx context.Context, campaign repository.Campaign) transport.CampaignResponse {
	return transport.CampaignResponse{
		ID:           campaign.ID,
		Name:         campaign.Name,
		Description:  campaign.Description,
		Status:       campaign.Status,
		PublicURL:    s.publicURL(campaign.CaptureToken),
		HeroImageURL: s.heroImageURL(ctx, campaign),
		CreatedAt:    campaign.CreatedAt,
		UpdatedAt:    campaign.UpdatedAt,
	}
}
