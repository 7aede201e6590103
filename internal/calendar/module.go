// Package calendar provides the scheduling surface: the merged
// tentative/confirmed event projection and the drag-and-drop placement
// endpoint.
package calendar

import (
	"leadgrid_backend/internal/calendar/handler"
	"leadgrid_backend/internal/calendar/service"
	apphttp "leadgrid_backend/internal/http"
	"leadgrid_backend/platform/logger"
	"leadgrid_backend/platform/validator"
)

// Module is the calendar bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the calendar module. It consumes the
// leads and jobs services rather than owning any storage of its own.
func NewModule(leads service.LeadSource, jobs service.JobSource, val *validator.Validator, log *logger.Logger) *Module {
	svc := service.New(leads, jobs, log)
	h := handler.New(svc, val)

	return &Module{handler: h, service: svc}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "calendar"
}

// RegisterRoutes mounts calendar routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/calendar")
	group.GET("/events", m.handler.Events)
	group.POST("/drop", m.handler.Drop)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
