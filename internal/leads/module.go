// Package leads provides the lead bounded context: one row per WhatsApp
// contact, created on first inbound message.
package leads

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"rental_leads_backend/internal/events"
	apphttp "rental_leads_backend/internal/http"
	"rental_leads_backend/internal/leads/handler"
	"rental_leads_backend/internal/leads/repository"
	"rental_leads_backend/internal/leads/service"
	"rental_leads_backend/platform/config"
	"rental_leads_backend/platform/validator"
)

// Module is the leads bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule wires the leads repository, service and handler.
func NewModule(pool *pgxpool.Pool, eventBus events.Bus, val *validator.Validator, cfg config.CompanyConfig) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, eventBus)
	h := handler.New(svc, val, cfg.GetCompanyID())

	return &Module{handler: h, service: svc}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "leads"
}

// Service returns the lead service for use by the webhook module.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts the admin lead routes; all of them require auth.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/leads"))
}

var _ apphttp.Module = (*Module)(nil)
