package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"rental_leads_backend/internal/quotes/service"
	"rental_leads_backend/internal/quotes/transport"
	"rental_leads_backend/platform/httpkit"
	"rental_leads_backend/platform/validator"
)

// Handler handles the admin read API for quotes.
type Handler struct {
	svc       *service.Service
	val       *validator.Validator
	companyID uuid.UUID
}

func New(svc *service.Service, val *validator.Validator, companyID uuid.UUID) *Handler {
	return &Handler{svc: svc, val: val, companyID: companyID}
}

// List returns a page of quote headers, newest first.
// GET /api/v1/quotes
func (h *Handler) List(c *gin.Context) {
	var req transport.ListQuotesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	quotes, err := h.svc.List(c.Request.Context(), h.companyID, req.Limit, req.Offset)
	if httpkit.HandleError(c, err) {
		return
	}

	resp := transport.QuoteListResponse{Items: make([]transport.QuoteResponse, 0, len(quotes))}
	for _, quote := range quotes {
		resp.Items = append(resp.Items, transport.ToQuoteResponse(quote, nil))
	}
	resp.Total = len(resp.Items)
	httpkit.OK(c, resp)
}

// GetByID returns one quote with its option lines.
// GET /api/v1/quotes/:id
func (h *Handler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid quote ID", nil)
		return
	}

	quote, lines, err := h.svc.GetByID(c.Request.Context(), h.companyID, id)
	if httpkit.HandleError(c, err) {
		return
	}

	resp := transport.ToQuoteResponse(quote, lines)
	resp.PDFURL = h.svc.PDFDownloadURL(c.Request.Context(), quote)
	httpkit.OK(c, resp)
}

// LatestForLead returns the newest quote for a lead, without lines.
// GET /api/v1/quotes/leads/:leadId/latest
func (h *Handler) LatestForLead(c *gin.Context) {
	leadID, err := uuid.Parse(c.Param("leadId"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid lead ID", nil)
		return
	}

	quote, found, err := h.svc.LatestForLead(c.Request.Context(), h.companyID, leadID)
	if httpkit.HandleError(c, err) {
		return
	}
	if !found {
		httpkit.Error(c, http.StatusNotFound, "no quote for lead", nil)
		return
	}
	httpkit.OK(c, transport.ToQuoteResponse(quote, nil))
}

// RegisterRoutes mounts the quote routes on the given group.
func (h *Handler) RegisterRoutes(g *gin.RouterGroup) {
	g.GET("", h.List)
	g.GET("/:id", h.GetByID)
	g.GET("/leads/:leadId/latest", h.LatestForLead)
}
