package transport

import (
	"time"

	"github.com/google/uuid"

	"rental_leads_backend/internal/leads/repository"
)

// ListLeadsRequest carries pagination for the admin lead list.
type ListLeadsRequest struct {
	Limit  int `form:"limit" validate:"omitempty,min=1,max=100"`
	Offset int `form:"offset" validate:"omitempty,min=0"`
}

// LeadResponse represents a lead in API responses.
type LeadResponse struct {
	ID        uuid.UUID `json:"id"`
	Phone     string    `json:"phone"`
	Name      *string   `json:"name,omitempty"`
	Source    string    `json:"source"`
	CreatedAt string    `json:"createdAt"`
	UpdatedAt string    `json:"updatedAt"`
}

// LeadListResponse wraps a page of leads.
type LeadListResponse struct {
	Items []LeadResponse `json:"items"`
	Total int            `json:"total"`
}

// ToLeadResponse maps a repository lead to its API shape.
func ToLeadResponse(lead repository.Lead) LeadResponse {
	return LeadResponse{
		ID:        lead.ID,
		Phone:     lead.Phone,
		Name:      lead.Name,
		Source:    lead.Source,
		CreatedAt: lead.CreatedAt.Format(time.RFC3339),
		UpdatedAt: lead.UpdatedAt.Format(time.RFC3339),
	}
}
