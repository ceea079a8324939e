// Package events defines the application-level domain events and re-exports
// the platform bus types so modules only import one events package.
package events

import (
	"time"

	"github.com/google/uuid"

	"rental_leads_backend/platform/events"
	"rental_leads_backend/platform/logger"
)

// Re-exported bus contract types.
type (
	Event       = events.Event
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	Bus         = events.Bus
	InMemoryBus = events.InMemoryBus
)

// NewInMemoryBus creates the default in-process bus.
func NewInMemoryBus(log *logger.Logger) *InMemoryBus {
	return events.NewInMemoryBus(log)
}

// LeadCreated fires when a previously unknown phone number sends its first
// message and a lead row is created for it.
type LeadCreated struct {
	LeadID    uuid.UUID
	CompanyID uuid.UUID
	Phone     string
	CreatedAt time.Time
}

func (LeadCreated) EventName() string { return "leads.lead.created" }

func (e LeadCreated) OccurredAt() time.Time { return e.CreatedAt }

// LeadQualified fires when the qualification record has every required
// field and the conversation is ready for pricing.
type LeadQualified struct {
	LeadID       uuid.UUID
	CompanyID    uuid.UUID
	City         string
	DurationDays int
	QualifiedAt  time.Time
}

func (LeadQualified) EventName() string { return "leads.lead.qualified" }

func (e LeadQualified) OccurredAt() time.Time { return e.QualifiedAt }

// QuoteDrafted fires after a quote and its lines have been committed. The
// notification module emails the sales team from this event.
type QuoteDrafted struct {
	QuoteID     uuid.UUID
	LeadID      uuid.UUID
	CompanyID   uuid.UUID
	QuoteNumber string
	TotalAmount int64
	Currency    string
	PDFObject   string
	DraftedAt   time.Time
}

func (QuoteDrafted) EventName() string { return "quotes.quote.drafted" }

func (e QuoteDrafted) OccurredAt() time.Time { return e.DraftedAt }
