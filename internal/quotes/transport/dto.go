package transport

import (
	"time"

	"github.com/google/uuid"

	"rental_leads_backend/internal/quotes/repository"
)

// ListQuotesRequest carries pagination for the admin quote list.
type ListQuotesRequest struct {
	Limit  int `form:"limit" validate:"omitempty,min=1,max=100"`
	Offset int `form:"offset" validate:"omitempty,min=0"`
}

// QuoteLineResponse is one priced option on a quote.
type QuoteLineResponse struct {
	Label        string `json:"label"`
	DurationDays int    `json:"durationDays"`
	RentalBase   int64  `json:"rentalBase"`
	Transport    int64  `json:"transport"`
	Subtotal     int64  `json:"subtotal"`
	VAT          int64  `json:"vat"`
	Total        int64  `json:"total"`
	PerDayCost   int64  `json:"perDayCost"`
	IsPrimary    bool   `json:"isPrimary"`
	IsCheapest   bool   `json:"isCheapest"`
}

// QuoteResponse is the quote header, optionally with its lines.
type QuoteResponse struct {
	ID           uuid.UUID           `json:"id"`
	LeadID       uuid.UUID           `json:"leadId"`
	QuoteNumber  string              `json:"quoteNumber"`
	Status       string              `json:"status"`
	Currency     string              `json:"currency"`
	DurationDays int                 `json:"durationDays"`
	Subtotal     int64               `json:"subtotal"`
	VAT          int64               `json:"vat"`
	Total        int64               `json:"total"`
	PDFObject    *string             `json:"pdfObject,omitempty"`
	PDFURL       *string             `json:"pdfUrl,omitempty"`
	Lines        []QuoteLineResponse `json:"lines,omitempty"`
	CreatedAt    string              `json:"createdAt"`
}

// QuoteListResponse wraps a page of quote headers.
type QuoteListResponse struct {
	Items []QuoteResponse `json:"items"`
	Total int             `json:"total"`
}

// ToQuoteResponse maps a quote and its lines to the API shape.
func ToQuoteResponse(quote repository.Quote, lines []repository.QuoteLine) QuoteResponse {
	resp := QuoteResponse{
		ID:           quote.ID,
		LeadID:       quote.LeadID,
		QuoteNumber:  quote.QuoteNumber,
		Status:       quote.Status,
		Currency:     quote.Currency,
		DurationDays: quote.DurationDays,
		Subtotal:     quote.Subtotal,
		VAT:          quote.VAT,
		Total:        quote.Total,
		PDFObject:    quote.PDFObject,
		CreatedAt:    quote.CreatedAt.Format(time.RFC3339),
	}
	for _, line := range lines {
		resp.Lines = append(resp.Lines, QuoteLineResponse{
			Label:        line.Label,
			DurationDays: line.DurationDays,
			RentalBase:   line.RentalBase,
			Transport:    line.Transport,
			Subtotal:     line.Subtotal,
			VAT:          line.VAT,
			Total:        line.Total,
			PerDayCost:   line.PerDayCost,
			IsPrimary:    line.IsPrimary,
			IsCheapest:   line.IsCheapest,
		})
	}
	return resp
}
