package handler

import (
	"context"
	"net/http"

	"leadgrid_backend/internal/jobs/service"
	"leadgrid_backend/internal/jobs/transport"
	"leadgrid_backend/platform/httpkit"
	"leadgrid_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidID        = "invalid job id"
)

// Handler handles HTTP requests for job management.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new jobs handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

func jobID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return uuid.Nil, false
	}
	return id, true
}

// List handles GET /api/v1/jobs
func (h *Handler) List(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.List(c.Request.Context(), identity.ContractorID())
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

// Get handles GET /api/v1/jobs/:id
func (h *Handler) Get(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}
	id, ok := jobID(c)
	if !ok {
		return
	}

	result, err := h.svc.Get(c.Request.Context(), identity.ContractorID(), id)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

// Update handles PATCH /api/v1/jobs/:id
func (h *Handler) Update(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}
	id, ok := jobID(c)
	if !ok {
		return
	}

	var req transport.UpdateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.Update(c.Request.Context(), identity.ContractorID(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

// Complete handles POST /api/v1/jobs/:id/complete
func (h *Handler) Complete(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}
	id, ok := jobID(c)
	if !ok {
		return
	}

	result, err := h.svc.Complete(c.Request.Context(), identity.ContractorID(), id)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

// Unschedule handles POST /api/v1/jobs/:id/unschedule
func (h *Handler) Unschedule(c *gin.Context) {
	h.removeJob(c, h.svc.Unschedule)
}

// MarkCold handles POST /api/v1/jobs/:id/cold
func (h *Handler) MarkCold(c *gin.Context) {
	h.removeJob(c, h.svc.MarkCold)
}

func (h *Handler) removeJob(c *gin.Context, remove func(ctx context.Context, contractorID, id uuid.UUID, reactivateLeadID *uuid.UUID) error) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}
	id, ok := jobID(c)
	if !ok {
		return
	}

	var req transport.RemoveJobRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
			return
		}
	}

	if err := remove(c.Request.Context(), identity.ContractorID(), id, req.ReactivateLeadID); httpkit.HandleError(c, err) {
		return
	}

	httpkit.NoContent(c)
}

// Actions handles GET /api/v1/jobs/:id/actions
func (h *Handler) Actions(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}
	id, ok := jobID(c)
	if !ok {
		return
	}

	result, err := h.svc.Actions(c.Request.Context(), identity.ContractorID(), id)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

// Dispatch handles POST /api/v1/jobs/:id/actions
func (h *Handler) Dispatch(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}
	id, ok := jobID(c)
	if !ok {
		return
	}

	var req transport.JobActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.Dispatch(c.Request.Context(), identity.ContractorID(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}
