package handler

import (
	"net/http"
	"strconv"

	"leadgrid_backend/internal/dashboard/service"
	"leadgrid_backend/internal/dashboard/transport"
	"leadgrid_backend/internal/dashboard/view"
	"leadgrid_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Handler handles HTTP requests for the dashboard views.
type Handler struct {
	svc *service.Service
}

// New creates a new dashboard handler.
func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// Summaries handles GET /api/v1/dashboard/summaries
func (h *Handler) Summaries(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.Summaries(c.Request.Context(), identity.ContractorID())
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

// Buckets handles GET /api/v1/dashboard/buckets
// Query: campaignId (optional), sort (newest|oldest), page, pageSize.
func (h *Handler) Buckets(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	query := transport.BucketsQuery{
		Sort:     c.DefaultQuery("sort", view.SortNewestFirst),
		Page:     intQuery(c, "page", 0),
		PageSize: intQuery(c, "pageSize", service.DefaultPageSize),
	}
	if query.Sort != view.SortNewestFirst && query.Sort != view.SortOldestFirst {
		httpkit.Error(c, http.StatusBadRequest, "sort must be newest or oldest", nil)
		return
	}
	if raw := c.Query("campaignId"); raw != "" {
		campaignID, err := uuid.Parse(raw)
		if err != nil {
			httpkit.Error(c, http.StatusBadRequest, "invalid campaign id", nil)
			return
		}
		query.CampaignID = &campaignID
	}

	result, err := h.svc.Buckets(c.Request.Context(), identity.ContractorID(), query)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

func intQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
