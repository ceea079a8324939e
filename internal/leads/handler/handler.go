package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"rental_leads_backend/internal/leads/service"
	"rental_leads_backend/internal/leads/transport"
	"rental_leads_backend/platform/httpkit"
	"rental_leads_backend/platform/validator"
)

// Handler handles the admin read API for leads.
type Handler struct {
	svc       *service.Service
	val       *validator.Validator
	companyID uuid.UUID
}

func New(svc *service.Service, val *validator.Validator, companyID uuid.UUID) *Handler {
	return &Handler{svc: svc, val: val, companyID: companyID}
}

// List returns a page of leads, newest first.
// GET /api/v1/leads
func (h *Handler) List(c *gin.Context) {
	var req transport.ListLeadsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	items, err := h.svc.List(c.Request.Context(), h.companyID, req.Limit, req.Offset)
	if httpkit.HandleError(c, err) {
		return
	}

	resp := transport.LeadListResponse{Items: make([]transport.LeadResponse, 0, len(items))}
	for _, lead := range items {
		resp.Items = append(resp.Items, transport.ToLeadResponse(lead))
	}
	resp.Total = len(resp.Items)
	httpkit.OK(c, resp)
}

// GetByID returns one lead.
// GET /api/v1/leads/:id
func (h *Handler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid lead ID", nil)
		return
	}

	lead, err := h.svc.GetByID(c.Request.Context(), h.companyID, id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToLeadResponse(lead))
}

// RegisterRoutes mounts the lead routes on the given group.
func (h *Handler) RegisterRoutes(g *gin.RouterGroup) {
	g.GET("", h.List)
	g.GET("/:id", h.GetByID)
}
