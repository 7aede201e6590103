// Package campaigns provides the marketing campaign bounded context:
// campaign CRUD, public landing data, QR codes and hero images.
package campaigns

import (
	"leadgrid_backend/internal/campaigns/handler"
	"leadgrid_backend/internal/campaigns/repository"
	"leadgrid_backend/internal/campaigns/service"
	apphttp "leadgrid_backend/internal/http"
	"leadgrid_backend/internal/storage"
	"leadgrid_backend/platform/logger"
	"leadgrid_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the campaigns bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the campaigns module with all its dependencies.
// storageSvc may be nil when object storage is disabled.
func NewModule(pool *pgxpool.Pool, cfg service.Config, storageSvc storage.Service, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, storageSvc, cfg, log)
	h := handler.New(svc, val)

	return &Module{handler: h, service: svc}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "campaigns"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts campaign routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/campaigns")
	group.POST("", m.handler.Create)
	group.GET("", m.handler.List)
	group.GET("/:id", m.handler.Get)
	group.PATCH("/:id", m.handler.Update)
	group.DELETE("/:id", m.handler.Delete)
	group.GET("/:id/qr.png", m.handler.QRCode)
	group.POST("/:id/image", m.handler.UploadImage)

	ctx.Public.GET("/campaigns/:token", m.handler.PublicLanding)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
