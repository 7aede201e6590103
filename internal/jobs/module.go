// Package jobs provides the job bounded context: promoted engagements,
// completion, and the delete-based unschedule and cold-marking transitions.
package jobs

import (
	"leadgrid_backend/internal/events"
	apphttp "leadgrid_backend/internal/http"
	"leadgrid_backend/internal/jobs/handler"
	"leadgrid_backend/internal/jobs/repository"
	"leadgrid_backend/internal/jobs/service"
	"leadgrid_backend/platform/logger"
	"leadgrid_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the jobs bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the jobs module with all its dependencies.
// reactivator may be nil; job removal then never touches leads.
func NewModule(pool *pgxpool.Pool, bus events.Bus, val *validator.Validator, log *logger.Logger, reactivator service.LeadReactivator) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, bus, log, reactivator)
	h := handler.New(svc, val)

	return &Module{handler: h, service: svc}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "jobs"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts job routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/jobs")
	group.GET("", m.handler.List)
	group.GET("/:id", m.handler.Get)
	group.PATCH("/:id", m.handler.Update)
	group.POST("/:id/complete", m.handler.Complete)
	group.POST("/:id/unschedule", m.handler.Unschedule)
	group.POST("/:id/cold", m.handler.MarkCold)
	group.GET("/:id/actions", m.handler.Actions)
	group.POST("/:id/actions", m.handler.Dispatch)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
