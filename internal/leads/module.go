// Package leads provides the lead lifecycle bounded context: public capture,
// contact-attempt tracking, tentative calendar placement, and promotion of
// leads into jobs.
package leads

import (
	"leadgrid_backend/internal/events"
	apphttp "leadgrid_backend/internal/http"
	"leadgrid_backend/internal/leads/handler"
	"leadgrid_backend/internal/leads/repository"
	"leadgrid_backend/internal/leads/service"
	"leadgrid_backend/platform/logger"
	"leadgrid_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the leads bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the leads module with all its dependencies.
func NewModule(pool *pgxpool.Pool, bus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, bus, log)
	h := handler.New(svc, val)

	return &Module{handler: h, service: svc}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "leads"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts lead routes on the provided router context.
// The public capture endpoint carries its own, stricter rate limiter.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Public.POST("/campaigns/:token/leads", ctx.CaptureRateLimiter.RateLimit(), m.handler.Capture)

	group := ctx.Protected.Group("/leads")
	group.GET("", m.handler.List)
	group.GET("/:id", m.handler.Get)
	group.PATCH("/:id", m.handler.Update)
	group.POST("/:id/contact-attempt", m.handler.RecordContactAttempt)
	group.POST("/:id/calendar", m.handler.PlaceOnCalendar)
	group.DELETE("/:id/calendar", m.handler.RemoveFromCalendar)
	group.POST("/:id/promote", m.handler.Promote)
	group.GET("/:id/actions", m.handler.Actions)
	group.POST("/:id/actions", m.handler.Dispatch)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
