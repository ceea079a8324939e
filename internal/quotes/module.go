// Package quotes provides the quote bounded context: tiered pricing,
// option assembly, draft persistence and the admin read API.
package quotes

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"rental_leads_backend/internal/events"
	apphttp "rental_leads_backend/internal/http"
	"rental_leads_backend/internal/pricing"
	"rental_leads_backend/internal/quotes/handler"
	"rental_leads_backend/internal/quotes/repository"
	"rental_leads_backend/internal/quotes/service"
	"rental_leads_backend/platform/config"
	"rental_leads_backend/platform/logger"
	"rental_leads_backend/platform/validator"
)

// Module is the quotes bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule wires the pricing engine, repository, service and handler.
// Renderer and archiver are optional collaborators owned by other modules.
func NewModule(
	pool *pgxpool.Pool,
	engine *pricing.Engine,
	renderer service.PDFRenderer,
	archiver service.Archiver,
	eventBus events.Bus,
	val *validator.Validator,
	cfg config.CompanyConfig,
	log *logger.Logger,
) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, engine, renderer, archiver, eventBus, log)
	h := handler.New(svc, val, cfg.GetCompanyID())

	return &Module{handler: h, service: svc}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "quotes"
}

// Service returns the quote service for use by the webhook module.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts the admin quote routes; all of them require auth.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/quotes"))
}

var _ apphttp.Module = (*Module)(nil)
