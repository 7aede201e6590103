// Package dashboard provides the derived dashboard views: campaign
// summaries and the bucketed sidebar lists, computed from the leads, jobs
// and campaigns modules.
package dashboard

import (
	"leadgrid_backend/internal/dashboard/cache"
	"leadgrid_backend/internal/dashboard/handler"
	"leadgrid_backend/internal/dashboard/service"
	"leadgrid_backend/internal/events"
	apphttp "leadgrid_backend/internal/http"
	"leadgrid_backend/platform/logger"
)

// Module is the dashboard bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the dashboard module. It owns no storage
// of its own; it consumes the other modules' services and subscribes its
// summary cache to their mutation events.
func NewModule(leads service.LeadSource, jobs service.JobSource, campaigns service.CampaignSource,
	summaryCache *cache.SummaryCache, bus events.Bus, log *logger.Logger) *Module {

	summaryCache.RegisterInvalidation(bus)

	svc := service.New(leads, jobs, campaigns, summaryCache, log)
	h := handler.New(svc)

	return &Module{handler: h, service: svc}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "dashboard"
}

// RegisterRoutes mounts dashboard routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/dashboard")
	group.GET("/summaries", m.handler.Summaries)
	group.GET("/buckets", m.handler.Buckets)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
