// Package service implements lead lifecycle operations on top of the
// repository: first-contact creation and name capture.
package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"rental_leads_backend/internal/events"
	"rental_leads_backend/internal/leads/repository"
	"rental_leads_backend/platform/apperr"
	"rental_leads_backend/platform/phone"
)

type Service struct {
	repo     *repository.Repository
	eventBus events.Bus
}

func New(repo *repository.Repository, eventBus events.Bus) *Service {
	return &Service{repo: repo, eventBus: eventBus}
}

// GetOrCreateByPhone normalizes the phone to E.164 and returns the lead for
// it, creating one on first contact. A LeadCreated event fires only for a
// fresh insert.
func (s *Service) GetOrCreateByPhone(ctx context.Context, companyID uuid.UUID, rawPhone, source string) (repository.Lead, error) {
	const op = "leads.GetOrCreateByPhone"

	normalized := phone.NormalizeE164(rawPhone)
	if normalized == "" {
		return repository.Lead{}, apperr.New(apperr.KindValidation, "phone number is required").WithOp(op)
	}

	lead, created, err := s.repo.GetOrCreateByPhone(ctx, companyID, normalized, source)
	if err != nil {
		return repository.Lead{}, apperr.Wrap(apperr.KindInternal, "failed to get or create lead", err).WithOp(op)
	}

	if created {
		s.eventBus.Publish(ctx, events.LeadCreated{
			LeadID:    lead.ID,
			CompanyID: lead.CompanyID,
			Phone:     lead.Phone,
			CreatedAt: time.Now(),
		})
	}
	return lead, nil
}

// SetName stores the captured name on the lead. A name already on record is
// left alone.
func (s *Service) SetName(ctx context.Context, companyID, leadID uuid.UUID, name string) error {
	const op = "leads.SetName"
	if name == "" {
		return apperr.New(apperr.KindValidation, "name must not be empty").WithOp(op)
	}
	if err := s.repo.UpdateName(ctx, companyID, leadID, name); err != nil {
		return apperr.Wrap(apperr.KindInternal, "failed to update lead name", err).WithOp(op)
	}
	return nil
}

func (s *Service) GetByID(ctx context.Context, companyID, id uuid.UUID) (repository.Lead, error) {
	const op = "leads.GetByID"
	lead, err := s.repo.GetByID(ctx, companyID, id)
	if err != nil {
		if err == repository.ErrNotFound {
			return repository.Lead{}, apperr.NotFound("lead not found").WithOp(op)
		}
		return repository.Lead{}, apperr.Wrap(apperr.KindInternal, "failed to load lead", err).WithOp(op)
	}
	return lead, nil
}

func (s *Service) List(ctx context.Context, companyID uuid.UUID, limit, offset int) ([]repository.Lead, error) {
	const op = "leads.List"
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	items, err := s.repo.List(ctx, companyID, limit, offset)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to list leads", err).WithOp(op)
	}
	return items, nil
}
