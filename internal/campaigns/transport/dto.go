// Package transport defines request and response DTOs for the campaigns API.
package transport

import (
	"time"

	"github.com/google/uuid"
)

// CreateCampaignRequest creates a new campaign.
type CreateCampaignRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=120"`
	Description string `json:"description" validate:"max=2000"`
}

// UpdateCampaignRequest partially updates a campaign. Nil fields are ignored.
type UpdateCampaignRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=2,max=120"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	Status      *string `json:"status" validate:"omitempty,oneof=active inactive"`
}

// CampaignResponse is the contractor-facing campaign representation.
type CampaignResponse struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Status       string    `json:"status"`
	PublicURL    string    `json:"publicUrl"`
	HeroImageURL *string   `json:"heroImageUrl,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// PublicCampaignResponse is what the public landing page sees.
// It deliberately exposes no identifiers beyond the capture token
// already present in the URL.
type PublicCampaignResponse struct {
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	CompanyName  string  `json:"companyName"`
	HeroImageURL *string `json:"heroImageUrl,omitempty"`
}
