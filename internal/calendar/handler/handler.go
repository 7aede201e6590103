package handler

import (
	"net/http"
	"time"

	"leadgrid_backend/internal/calendar/service"
	"leadgrid_backend/internal/calendar/transport"
	"leadgrid_backend/platform/httpkit"
	"leadgrid_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"

	dateLayout = "2006-01-02"
)

// Handler handles HTTP requests for the calendar.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new calendar handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// Events handles GET /api/v1/calendar/events?from=YYYY-MM-DD&to=YYYY-MM-DD
// with an optional campaignId filter.
func (h *Handler) Events(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	from, err := time.Parse(dateLayout, c.Query("from"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "from must be formatted as YYYY-MM-DD", nil)
		return
	}
	to, err := time.Parse(dateLayout, c.Query("to"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "to must be formatted as YYYY-MM-DD", nil)
		return
	}

	var campaignID *uuid.UUID
	if raw := c.Query("campaignId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			httpkit.Error(c, http.StatusBadRequest, "invalid campaign id", nil)
			return
		}
		campaignID = &id
	}

	// The range is [from, to]: extend the end date to cover its whole day.
	result, err := h.svc.Events(c.Request.Context(), identity.ContractorID(), from, to.AddDate(0, 0, 1), campaignID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

// Drop handles POST /api/v1/calendar/drop
func (h *Handler) Drop(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	var req transport.DropRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.Drop(c.Request.Context(), identity.ContractorID(), req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}
