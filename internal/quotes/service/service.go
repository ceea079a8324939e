package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"rental_leads_backend/internal/events"
	"rental_leads_backend/internal/pricing"
	"rental_leads_backend/internal/qualification"
	"rental_leads_backend/internal/quotes/repository"
	"rental_leads_backend/platform/apperr"
	"rental_leads_backend/platform/logger"
)

// RenderPayload is the input contract for quote rendering. Lines keeps the
// engine's order; the Subtotal/VAT/Total summary block always comes from
// the primary option.
type RenderPayload struct {
	QuoteNumber  string
	LeadName     string
	LeadPhone    string
	DurationDays int
	Currency     string
	Lines        []repository.QuoteLine
	Subtotal     int64
	VAT          int64
	Total        int64
	Terms        string
	IssuedAt     time.Time
}

// PDFRenderer renders the quote payload to a PDF document.
type PDFRenderer interface {
	RenderQuotePDF(ctx context.Context, payload RenderPayload) ([]byte, error)
}

// Archiver stores the rendered PDF and serves short-lived download links.
type Archiver interface {
	UploadQuotePDF(ctx context.Context, quoteNumber string, data []byte) (string, error)
	GenerateDownloadURL(ctx context.Context, fileKey string) (string, error)
}

// DraftParams carries everything needed to draft a quote for a qualified
// lead. Qualification is the record the pricing ran on; it is frozen onto
// the quote as a snapshot. Transport overrides the table's flat fee when
// positive.
type DraftParams struct {
	CompanyID      uuid.UUID
	LeadID         uuid.UUID
	ConversationID uuid.UUID
	LeadName       string
	LeadPhone      string
	DurationDays   int
	EquipmentModel string
	Transport      int64
	Qualification  *qualification.Qualification
}

// DraftResult is the committed quote plus its rendered artifact.
type DraftResult struct {
	Quote   repository.Quote
	Lines   []repository.QuoteLine
	PDFData []byte
	Payload RenderPayload
}

const quoteTerms = "Precios en MXN, IVA incluido en el total. Vigencia de 7 días. Sujeto a disponibilidad de equipo."

type Service struct {
	repo     *repository.Repository
	engine   *pricing.Engine
	renderer PDFRenderer
	archiver Archiver
	eventBus events.Bus
	log      *logger.Logger
}

// New creates the quote service. Renderer and archiver may be nil; drafting
// then skips the PDF stage.
func New(repo *repository.Repository, engine *pricing.Engine, renderer PDFRenderer, archiver Archiver, eventBus events.Bus, log *logger.Logger) *Service {
	return &Service{
		repo:     repo,
		engine:   engine,
		renderer: renderer,
		archiver: archiver,
		eventBus: eventBus,
		log:      log,
	}
}

// Draft prices the requested rental, assembles the option lines and commits
// the quote in a single transaction that also advances the conversation to
// QUOTE_DRAFTED. A concurrent draft for the same conversation loses the
// conditional state update and surfaces as a conflict; the caller treats
// that as "quote already exists", not a failure. PDF rendering and archival
// run after the commit and are best effort: a drafted quote without a PDF
// is still a drafted quote.
func (s *Service) Draft(ctx context.Context, params DraftParams) (DraftResult, error) {
	const op = "quotes.Draft"

	model := params.EquipmentModel
	if model == "" {
		model = s.engine.Table().DefaultModel()
	}
	result, err := s.engine.ComputeOptions(params.DurationDays, model, transportFee(params.Transport, s.engine.Table().TransportFlat), s.engine.Table().VATRate)
	if err != nil {
		return DraftResult{}, err
	}

	number, err := s.repo.NextQuoteNumber(ctx, params.CompanyID)
	if err != nil {
		return DraftResult{}, apperr.Wrap(apperr.KindInternal, "failed to generate quote number", err).WithOp(op)
	}

	quote := repository.Quote{
		CompanyID:             params.CompanyID,
		LeadID:                params.LeadID,
		QuoteNumber:           number,
		Status:                repository.StatusDraft,
		Currency:              s.engine.Table().Currency,
		DurationDays:          params.DurationDays,
		Subtotal:              result.Primary.Subtotal,
		VAT:                   result.Primary.VAT,
		Total:                 result.Primary.Total,
		QualificationSnapshot: snapshotQualification(params.Qualification),
	}
	lines := AssembleLines(result)

	if err := s.repo.CreateDraftWithLines(ctx, &quote, lines, params.ConversationID); err != nil {
		if errors.Is(err, repository.ErrStateChanged) {
			return DraftResult{}, apperr.Wrap(apperr.KindConflict, "quote was already drafted for this conversation", err).WithOp(op)
		}
		return DraftResult{}, apperr.Wrap(apperr.KindInternal, "failed to persist quote", err).WithOp(op)
	}

	payload := RenderPayload{
		QuoteNumber:  quote.QuoteNumber,
		LeadName:     params.LeadName,
		LeadPhone:    params.LeadPhone,
		DurationDays: params.DurationDays,
		Currency:     quote.Currency,
		Lines:        lines,
		Subtotal:     quote.Subtotal,
		VAT:          quote.VAT,
		Total:        quote.Total,
		Terms:        quoteTerms,
		IssuedAt:     quote.CreatedAt,
	}

	draft := DraftResult{Quote: quote, Lines: lines, Payload: payload}
	draft.PDFData = s.renderAndArchive(ctx, &draft.Quote, payload)

	s.eventBus.Publish(ctx, events.QuoteDrafted{
		QuoteID:     quote.ID,
		LeadID:      quote.LeadID,
		CompanyID:   quote.CompanyID,
		QuoteNumber: quote.QuoteNumber,
		TotalAmount: quote.Total,
		Currency:    quote.Currency,
		PDFObject:   objectOrEmpty(draft.Quote.PDFObject),
		DraftedAt:   quote.CreatedAt,
	})

	return draft, nil
}

func (s *Service) renderAndArchive(ctx context.Context, quote *repository.Quote, payload RenderPayload) []byte {
	if s.renderer == nil {
		return nil
	}

	data, err := s.renderer.RenderQuotePDF(ctx, payload)
	if err != nil {
		s.log.Error("quote pdf rendering failed", "error", err, "quoteNumber", quote.QuoteNumber)
		return nil
	}

	if s.archiver != nil {
		object, err := s.archiver.UploadQuotePDF(ctx, quote.QuoteNumber, data)
		if err != nil {
			s.log.Error("quote pdf archive failed", "error", err, "quoteNumber", quote.QuoteNumber)
		} else if err := s.repo.SetPDFObject(ctx, quote.CompanyID, quote.ID, object); err != nil {
			s.log.Error("failed to record pdf object on quote", "error", err, "quoteNumber", quote.QuoteNumber)
		} else {
			quote.PDFObject = &object
		}
	}

	return data
}

// GetByID loads a quote header with its lines.
func (s *Service) GetByID(ctx context.Context, companyID, id uuid.UUID) (repository.Quote, []repository.QuoteLine, error) {
	const op = "quotes.GetByID"

	quote, err := s.repo.GetByID(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return repository.Quote{}, nil, apperr.NotFound("quote not found").WithOp(op)
		}
		return repository.Quote{}, nil, apperr.Wrap(apperr.KindInternal, "failed to load quote", err).WithOp(op)
	}

	lines, err := s.repo.ListLines(ctx, quote.ID)
	if err != nil {
		return repository.Quote{}, nil, apperr.Wrap(apperr.KindInternal, "failed to load quote lines", err).WithOp(op)
	}
	return quote, lines, nil
}

// PDFDownloadURL returns a presigned link for the quote's archived PDF, or
// nil when no archive exists. Presign failures are logged, not surfaced.
func (s *Service) PDFDownloadURL(ctx context.Context, quote repository.Quote) *string {
	if s.archiver == nil || quote.PDFObject == nil {
		return nil
	}
	link, err := s.archiver.GenerateDownloadURL(ctx, *quote.PDFObject)
	if err != nil {
		s.log.Error("failed to presign quote pdf", "error", err, "quoteNumber", quote.QuoteNumber)
		return nil
	}
	return &link
}

// LatestForLead returns the newest quote for a lead, if any.
func (s *Service) LatestForLead(ctx context.Context, companyID, leadID uuid.UUID) (repository.Quote, bool, error) {
	quote, err := s.repo.GetLatestByLead(ctx, companyID, leadID)
	if errors.Is(err, repository.ErrNotFound) {
		return repository.Quote{}, false, nil
	}
	if err != nil {
		return repository.Quote{}, false, fmt.Errorf("latest quote lookup: %w", err)
	}
	return quote, true, nil
}

func (s *Service) List(ctx context.Context, companyID uuid.UUID, limit, offset int) ([]repository.Quote, error) {
	const op = "quotes.List"
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	quotes, err := s.repo.List(ctx, companyID, limit, offset)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to list quotes", err).WithOp(op)
	}
	return quotes, nil
}

// transportFee picks the per-quote transport override when one was given.
func transportFee(requested, tableFlat int64) int64 {
	if requested > 0 {
		return requested
	}
	return tableFlat
}

// snapshotQualification freezes the priced requirement record as JSON.
// It returns nil for a nil record; marshaling a valid record cannot fail.
func snapshotQualification(q *qualification.Qualification) []byte {
	if q == nil {
		return nil
	}
	data, err := json.Marshal(q)
	if err != nil {
		return nil
	}
	return data
}

func objectOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
