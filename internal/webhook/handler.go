package webhook

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rental_leads_backend/platform/logger"
	"rental_leads_backend/platform/validator"
)

// Handler handles webhook HTTP requests.
type Handler struct {
	service *Service
	val     *validator.Validator
	log     *logger.Logger
}

func NewHandler(service *Service, val *validator.Validator, log *logger.Logger) *Handler {
	return &Handler{service: service, val: val, log: log}
}

// HandleInboundMessage processes one WhatsApp delivery.
// POST /api/v1/webhook/whatsapp
// Authenticated via the X-Hub-Signature-256 header (checked by middleware).
//
// The gateway retries on non-2xx responses, so processing failures are
// logged and acknowledged anyway; the turn is silently failed rather than
// replayed into the same error.
func (h *Handler) HandleInboundMessage(c *gin.Context) {
	var msg InboundMessage
	if err := c.ShouldBindJSON(&msg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := h.val.Struct(msg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation error"})
		return
	}

	if err := h.service.ProcessInbound(c.Request.Context(), msg); err != nil {
		h.log.TurnFailed(msg.MessageID, msg.From, err)
	}

	c.JSON(http.StatusOK, InboundResponse{Status: "accepted"})
}
