package webhook

import (
	"context"
	"time"

	"github.com/google/uuid"

	"rental_leads_backend/internal/conversation"
	"rental_leads_backend/internal/events"
	leadsrepo "rental_leads_backend/internal/leads/repository"
	"rental_leads_backend/internal/qualification"
	quotesvc "rental_leads_backend/internal/quotes/service"
	"rental_leads_backend/internal/scheduler"
	"rental_leads_backend/platform/apperr"
	"rental_leads_backend/platform/logger"
)

const leadSource = "whatsapp"

// LeadProvider resolves and updates leads by phone.
type LeadProvider interface {
	GetOrCreateByPhone(ctx context.Context, companyID uuid.UUID, phone, source string) (leadsrepo.Lead, error)
	SetName(ctx context.Context, companyID, leadID uuid.UUID, name string) error
}

// ConversationStore loads and advances conversation records.
type ConversationStore interface {
	GetOrCreateActive(ctx context.Context, companyID, leadID uuid.UUID) (*conversation.Conversation, error)
	SetState(ctx context.Context, companyID, conversationID uuid.UUID, state conversation.State) error
	Touch(ctx context.Context, companyID, conversationID uuid.UUID) error
}

// Extractor turns message text into a validated field extraction.
type Extractor interface {
	Extract(ctx context.Context, text string, knownMissing []qualification.Field) (qualification.Extraction, error)
}

// QuoteDrafter commits a quote for a fully qualified lead.
type QuoteDrafter interface {
	Draft(ctx context.Context, params quotesvc.DraftParams) (quotesvc.DraftResult, error)
}

// Messenger sends outbound WhatsApp messages and documents.
type Messenger interface {
	SendMessage(ctx context.Context, phone, message string) error
	SendFile(ctx context.Context, phone, filename, caption string, data []byte) error
}

// Service processes one inbound message end to end: lead resolution, name
// capture, field extraction, qualification patching and either the next
// question or the quote.
type Service struct {
	companyID    uuid.UUID
	requireEmail bool

	leads     LeadProvider
	convs     ConversationStore
	acc       *qualification.Accumulator
	extractor Extractor
	drafter   QuoteDrafter
	messenger Messenger
	deduper   *Deduper
	followups scheduler.FollowupScheduler
	eventBus  events.Bus
	delay     time.Duration
	log       *logger.Logger
}

// Config bundles the service collaborators. Extractor, messenger, deduper
// and followups may be nil.
type Config struct {
	CompanyID     uuid.UUID
	RequireEmail  bool
	Leads         LeadProvider
	Conversations ConversationStore
	Accumulator   *qualification.Accumulator
	Extractor     Extractor
	Drafter       QuoteDrafter
	Messenger     Messenger
	Deduper       *Deduper
	Followups     scheduler.FollowupScheduler
	EventBus      events.Bus
	FollowupDelay time.Duration
	Logger        *logger.Logger
}

func NewService(cfg Config) *Service {
	return &Service{
		companyID:    cfg.CompanyID,
		requireEmail: cfg.RequireEmail,
		leads:        cfg.Leads,
		convs:        cfg.Conversations,
		acc:          cfg.Accumulator,
		extractor:    cfg.Extractor,
		drafter:      cfg.Drafter,
		messenger:    cfg.Messenger,
		deduper:      cfg.Deduper,
		followups:    cfg.Followups,
		eventBus:     cfg.EventBus,
		delay:        cfg.FollowupDelay,
		log:          cfg.Logger,
	}
}

// ProcessInbound handles one delivered message. Errors returned here are
// infrastructure failures; the handler logs them and still acknowledges the
// delivery so the gateway does not retry forever.
func (s *Service) ProcessInbound(ctx context.Context, msg InboundMessage) error {
	if !s.deduper.FirstDelivery(ctx, msg.MessageID) {
		s.log.Info("duplicate delivery ignored", "messageId", msg.MessageID)
		return nil
	}

	lead, err := s.leads.GetOrCreateByPhone(ctx, s.companyID, msg.From, leadSource)
	if err != nil {
		return err
	}

	conv, err := s.convs.GetOrCreateActive(ctx, s.companyID, lead.ID)
	if err != nil {
		return err
	}

	// A drafted conversation only gets an acknowledgment, never a second
	// pass through pricing.
	if conv.State == conversation.StateQuoteDrafted {
		if err := s.convs.Touch(ctx, s.companyID, conv.ID); err != nil {
			s.log.Error("failed to touch conversation", "error", err, "conversationId", conv.ID)
		}
		return s.send(ctx, lead.Phone, alreadyQuotedMessage)
	}

	leadHasName := lead.Name != nil

	// The fields still missing before this turn focus the extractor on what
	// the last question asked for.
	current, err := s.acc.GetOrCreate(ctx, s.companyID, lead.ID)
	if err != nil {
		return err
	}
	knownMissing := qualification.Resolve(current, qualification.ResolveParams{
		LeadHasName:  leadHasName,
		RequireEmail: s.requireEmail,
	}).Missing

	extraction := s.extract(ctx, msg, conv, knownMissing)

	// Name capture: an explicit pattern in the raw text wins, the
	// extractor's guess is the fallback.
	if !leadHasName {
		name, ok := conversation.ResolveName(msg.Text)
		if !ok && extraction.Name != nil {
			name, ok = *extraction.Name, true
		}
		if ok {
			if err := s.leads.SetName(ctx, s.companyID, lead.ID, name); err != nil {
				s.log.Error("failed to set lead name", "error", err, "leadId", lead.ID)
			} else {
				lead.Name = &name
				leadHasName = true
			}
		}
	}

	record, _, err := s.acc.Patch(ctx, s.companyID, lead.ID, extraction)
	if err != nil {
		return err
	}

	resolution := qualification.Resolve(record, qualification.ResolveParams{
		LeadHasName:         leadHasName,
		RequireEmail:        s.requireEmail,
		SelfReportedMissing: extraction.MissingFields,
		HadText:             msg.Text != "",
	})

	prevState := conv.State
	if err := s.advanceState(ctx, conv, leadHasName, resolution.Complete()); err != nil {
		return err
	}

	if resolution.Complete() {
		if prevState != conversation.StateReadyForMatch && conv.State == conversation.StateReadyForMatch {
			s.publishQualified(ctx, lead, record)
		}
		return s.draftAndDeliver(ctx, lead, conv, record)
	}

	s.scheduleFollowup(ctx, conv, lead)
	return s.send(ctx, lead.Phone, QuestionFor(resolution.Next, resolution.Retry))
}

// extract runs the NLU extractor. Failure is recovered locally: the turn
// simply carries no new fields.
func (s *Service) extract(ctx context.Context, msg InboundMessage, conv *conversation.Conversation, knownMissing []qualification.Field) qualification.Extraction {
	if s.extractor == nil || msg.Text == "" {
		return qualification.Extraction{}
	}

	extraction, err := s.extractor.Extract(ctx, msg.Text, knownMissing)
	if err != nil {
		s.log.Error("field extraction failed", "error", err, "messageId", msg.MessageID, "conversationId", conv.ID)
		return qualification.Extraction{}
	}
	return extraction
}

func (s *Service) advanceState(ctx context.Context, conv *conversation.Conversation, leadHasName, complete bool) error {
	next := conversation.Transition(conv.State, leadHasName, complete)
	if next == conv.State {
		return s.convs.Touch(ctx, s.companyID, conv.ID)
	}
	if err := s.convs.SetState(ctx, s.companyID, conv.ID, next); err != nil {
		return err
	}
	conv.State = next
	return nil
}

func (s *Service) draftAndDeliver(ctx context.Context, lead leadsrepo.Lead, conv *conversation.Conversation, record *qualification.Qualification) error {
	draft, err := s.drafter.Draft(ctx, quotesvc.DraftParams{
		CompanyID:      s.companyID,
		LeadID:         lead.ID,
		ConversationID: conv.ID,
		LeadName:       nameOrEmpty(lead.Name),
		LeadPhone:      lead.Phone,
		DurationDays:   *record.DurationDays,
		Qualification:  record,
	})
	if err != nil {
		if apperr.Is(err, apperr.KindConflict) {
			// A concurrent delivery won the draft race.
			return s.send(ctx, lead.Phone, alreadyQuotedMessage)
		}
		if sendErr := s.send(ctx, lead.Phone, quoteFailedMessage); sendErr != nil {
			s.log.Error("failed to send quote fallback message", "error", sendErr, "leadId", lead.ID)
		}
		return err
	}

	caption := QuoteCaption(nameOrEmpty(lead.Name), draft.Quote.QuoteNumber, draft.Quote.Total)
	if len(draft.PDFData) > 0 {
		filename := draft.Quote.QuoteNumber + ".pdf"
		if err := s.messengerSendFile(ctx, lead.Phone, filename, caption, draft.PDFData); err != nil {
			s.log.Error("failed to send quote pdf", "error", err, "quoteNumber", draft.Quote.QuoteNumber)
			return s.send(ctx, lead.Phone, caption)
		}
		return nil
	}
	return s.send(ctx, lead.Phone, caption)
}

func (s *Service) publishQualified(ctx context.Context, lead leadsrepo.Lead, record *qualification.Qualification) {
	if s.eventBus == nil {
		return
	}
	s.eventBus.Publish(ctx, events.LeadQualified{
		LeadID:       lead.ID,
		CompanyID:    s.companyID,
		City:         nameOrEmpty(record.City),
		DurationDays: *record.DurationDays,
		QualifiedAt:  time.Now(),
	})
}

func (s *Service) scheduleFollowup(ctx context.Context, conv *conversation.Conversation, lead leadsrepo.Lead) {
	if s.followups == nil || s.delay <= 0 {
		return
	}

	err := s.followups.ScheduleConversationFollowup(ctx, scheduler.ConversationFollowupPayload{
		ConversationID: conv.ID.String(),
		CompanyID:      s.companyID.String(),
		LeadID:         lead.ID.String(),
		Phone:          lead.Phone,
	}, time.Now().Add(s.delay))
	if err != nil {
		s.log.Error("failed to schedule followup", "error", err, "conversationId", conv.ID)
	}
}

func (s *Service) send(ctx context.Context, phone, message string) error {
	if s.messenger == nil {
		return nil
	}
	return s.messenger.SendMessage(ctx, phone, message)
}

func (s *Service) messengerSendFile(ctx context.Context, phone, filename, caption string, data []byte) error {
	if s.messenger == nil {
		return nil
	}
	return s.messenger.SendFile(ctx, phone, filename, caption, data)
}

func nameOrEmpty(name *string) string {
	if name == nil {
		return ""
	}
	return *name
}
