// Package webhook is the WhatsApp message-intake bounded context: signature
// verification, duplicate filtering, and the per-message qualification flow.
package webhook

import (
	"github.com/redis/go-redis/v9"

	apphttp "rental_leads_backend/internal/http"
	"rental_leads_backend/platform/config"
	"rental_leads_backend/platform/logger"
	"rental_leads_backend/platform/validator"
)

// ModuleConfig combines the config interfaces the webhook module reads.
type ModuleConfig interface {
	config.CompanyConfig
	config.WebhookConfig
	config.SchedulerConfig
	config.PricingConfig
}

// Module is the webhook bounded context module implementing http.Module.
type Module struct {
	handler *Handler
	secret  string
}

// NewModule wires the message-intake service from its collaborators. The
// Redis client may be nil; deduplication is then disabled.
func NewModule(
	cfg ModuleConfig,
	svcCfg Config,
	redisClient *redis.Client,
	val *validator.Validator,
	log *logger.Logger,
) *Module {
	svcCfg.CompanyID = cfg.GetCompanyID()
	svcCfg.RequireEmail = cfg.GetRequireContactEmail()
	svcCfg.Deduper = NewDeduper(redisClient, cfg.GetDedupeTTL())
	svcCfg.FollowupDelay = cfg.GetFollowupDelay()
	svcCfg.Logger = log

	service := NewService(svcCfg)

	return &Module{
		handler: NewHandler(service, val, log),
		secret:  cfg.GetWebhookSecret(),
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "webhook"
}

// RegisterRoutes mounts the public webhook endpoint. It is signature
// authenticated, not JWT authenticated.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.V1.Group("/webhook")
	group.Use(SignatureMiddleware(m.secret))
	group.POST("/whatsapp", m.handler.HandleInboundMessage)
}

var _ apphttp.Module = (*Module)(nil)
