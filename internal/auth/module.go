// Package auth provides the contractor authentication bounded context.
package auth

import (
	"leadgrid_backend/internal/auth/handler"
	"leadgrid_backend/internal/auth/repository"
	"leadgrid_backend/internal/auth/service"
	"leadgrid_backend/internal/events"
	apphttp "leadgrid_backend/internal/http"
	"leadgrid_backend/platform/config"
	"leadgrid_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the auth bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the auth module with all its dependencies.
func NewModule(pool *pgxpool.Pool, cfg config.AuthServiceConfig, bus events.Bus, val *validator.Validator) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, cfg, bus)
	h := handler.New(svc, val)

	return &Module{handler: h, service: svc}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "auth"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts auth routes on the provided router context.
// Credential endpoints sit behind the stricter auth rate limiter.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.V1.Group("/auth")
	group.Use(ctx.AuthRateLimiter.RateLimit())
	group.POST("/signup", m.handler.SignUp)
	group.POST("/login", m.handler.SignIn)
	group.POST("/refresh", m.handler.Refresh)

	ctx.Protected.GET("/auth/me", m.handler.Me)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
