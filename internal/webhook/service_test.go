package webhook

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	"rental_leads_backend/internal/conversation"
	leadsrepo "rental_leads_backend/internal/leads/repository"
	"rental_leads_backend/internal/qualification"
	quotesrepo "rental_leads_backend/internal/quotes/repository"
	quotesvc "rental_leads_backend/internal/quotes/service"
	"rental_leads_backend/platform/apperr"
	"rental_leads_backend/platform/logger"
)

type fakeLeads struct {
	lead  leadsrepo.Lead
	named *string
}

func (f *fakeLeads) GetOrCreateByPhone(_ context.Context, _ uuid.UUID, phone, _ string) (leadsrepo.Lead, error) {
	f.lead.Phone = phone
	return f.lead, nil
}

func (f *fakeLeads) SetName(_ context.Context, _, _ uuid.UUID, name string) error {
	f.named = &name
	return nil
}

type fakeConvs struct {
	conv   conversation.Conversation
	states []conversation.State
}

func (f *fakeConvs) GetOrCreateActive(_ context.Context, _, _ uuid.UUID) (*conversation.Conversation, error) {
	clone := f.conv
	return &clone, nil
}

func (f *fakeConvs) SetState(_ context.Context, _, _ uuid.UUID, state conversation.State) error {
	f.states = append(f.states, state)
	return nil
}

func (f *fakeConvs) Touch(_ context.Context, _, _ uuid.UUID) error { return nil }

type fakeExtractor struct {
	extraction   qualification.Extraction
	err          error
	calls        int
	knownMissing []qualification.Field
}

func (f *fakeExtractor) Extract(_ context.Context, _ string, knownMissing []qualification.Field) (qualification.Extraction, error) {
	f.calls++
	f.knownMissing = knownMissing
	return f.extraction, f.err
}

type fakeDrafter struct {
	result     quotesvc.DraftResult
	err        error
	calls      int
	lastParams quotesvc.DraftParams
}

func (f *fakeDrafter) Draft(_ context.Context, params quotesvc.DraftParams) (quotesvc.DraftResult, error) {
	f.calls++
	f.lastParams = params
	return f.result, f.err
}

type fakeMessenger struct {
	messages []string
	files    []string
}

func (f *fakeMessenger) SendMessage(_ context.Context, _ string, message string) error {
	f.messages = append(f.messages, message)
	return nil
}

func (f *fakeMessenger) SendFile(_ context.Context, _ string, filename, caption string, _ []byte) error {
	f.files = append(f.files, filename)
	f.messages = append(f.messages, caption)
	return nil
}

// fakeQualStore backs the real accumulator in service tests.
type fakeQualStore struct {
	records map[uuid.UUID]*qualification.Qualification
}

func (s *fakeQualStore) GetByLeadID(_ context.Context, _, leadID uuid.UUID) (*qualification.Qualification, error) {
	rec, ok := s.records[leadID]
	if !ok {
		return nil, nil
	}
	clone := *rec
	return &clone, nil
}

func (s *fakeQualStore) Create(_ context.Context, companyID, leadID uuid.UUID) (*qualification.Qualification, error) {
	rec := &qualification.Qualification{LeadID: leadID, CompanyID: companyID}
	s.records[leadID] = rec
	clone := *rec
	return &clone, nil
}

func (s *fakeQualStore) ApplyPatch(_ context.Context, _, leadID uuid.UUID, patch qualification.SparsePatch) error {
	rec := s.records[leadID]
	if patch.HeightM != nil {
		rec.HeightM = patch.HeightM
	}
	if patch.HeightFt != nil {
		rec.HeightFt = patch.HeightFt
	}
	if patch.LiftType != nil {
		rec.LiftType = patch.LiftType
	}
	if patch.Activity != nil {
		rec.Activity = patch.Activity
	}
	if patch.Terrain != nil {
		rec.Terrain = patch.Terrain
	}
	if patch.City != nil {
		rec.City = patch.City
	}
	if patch.DurationDays != nil {
		rec.DurationDays = patch.DurationDays
	}
	if patch.ContactEmail != nil {
		rec.ContactEmail = patch.ContactEmail
	}
	return nil
}

type testEnv struct {
	svc       *Service
	leads     *fakeLeads
	convs     *fakeConvs
	extractor *fakeExtractor
	drafter   *fakeDrafter
	messenger *fakeMessenger
}

func newTestEnv(t *testing.T, state conversation.State, leadName *string) *testEnv {
	t.Helper()

	leadID := uuid.New()
	env := &testEnv{
		leads: &fakeLeads{lead: leadsrepo.Lead{ID: leadID, Name: leadName}},
		convs: &fakeConvs{conv: conversation.Conversation{
			ID:     uuid.New(),
			LeadID: leadID,
			State:  state,
		}},
		extractor: &fakeExtractor{},
		drafter:   &fakeDrafter{},
		messenger: &fakeMessenger{},
	}

	env.svc = NewService(Config{
		CompanyID:     uuid.New(),
		Leads:         env.leads,
		Conversations: env.convs,
		Accumulator:   qualification.NewAccumulator(&fakeQualStore{records: make(map[uuid.UUID]*qualification.Qualification)}),
		Extractor:     env.extractor,
		Drafter:       env.drafter,
		Messenger:     env.messenger,
		Deduper:       NewDeduper(nil, 0),
		Logger:        logger.New("development"),
	})
	return env
}

func namePtr(s string) *string { return &s }

func completeExtraction() qualification.Extraction {
	heightM, heightFt := qualification.NormalizeHeight(floatPtr(12), nil)
	lift := qualification.LiftTypeArm
	activity := qualification.ActivityGeneral
	terrain := qualification.TerrainFirmGround
	city := "Monterrey"
	days := 5
	return qualification.Extraction{
		HeightM:      heightM,
		HeightFt:     heightFt,
		LiftType:     &lift,
		Activity:     &activity,
		Terrain:      &terrain,
		City:         &city,
		DurationDays: &days,
	}
}

func floatPtr(f float64) *float64 { return &f }

func TestProcessInboundDraftedConversationNeverRequotes(t *testing.T) {
	env := newTestEnv(t, conversation.StateQuoteDrafted, namePtr("Juan"))
	env.extractor.extraction = completeExtraction()

	msg := InboundMessage{MessageID: "m1", From: "+528112345678", Text: "necesito 12 metros por 5 dias en monterrey"}
	if err := env.svc.ProcessInbound(context.Background(), msg); err != nil {
		t.Fatalf("ProcessInbound: %v", err)
	}

	if env.drafter.calls != 0 {
		t.Errorf("drafter called %d times, want 0", env.drafter.calls)
	}
	if env.extractor.calls != 0 {
		t.Errorf("extractor called %d times, want 0", env.extractor.calls)
	}
	if len(env.messenger.messages) != 1 || env.messenger.messages[0] != alreadyQuotedMessage {
		t.Errorf("messages = %v, want the already-quoted acknowledgment", env.messenger.messages)
	}
}

func TestProcessInboundExtractorFailureContinues(t *testing.T) {
	env := newTestEnv(t, conversation.StateTechQualification, namePtr("Juan"))
	env.extractor.err = errors.New("timeout")

	msg := InboundMessage{MessageID: "m1", From: "+528112345678", Text: "una plataforma por favor"}
	if err := env.svc.ProcessInbound(context.Background(), msg); err != nil {
		t.Fatalf("ProcessInbound: %v", err)
	}

	if len(env.messenger.messages) != 1 {
		t.Fatalf("messages = %v, want one question", env.messenger.messages)
	}
	if env.messenger.messages[0] != QuestionFor(qualification.FieldHeight, false) {
		t.Errorf("asked %q, want the height question", env.messenger.messages[0])
	}
	if env.drafter.calls != 0 {
		t.Errorf("drafter called after extractor failure")
	}
}

func TestProcessInboundCompleteQualificationDraftsQuote(t *testing.T) {
	env := newTestEnv(t, conversation.StateTechQualification, namePtr("Juan"))
	env.extractor.extraction = completeExtraction()
	env.drafter.result = quotesvc.DraftResult{
		Quote:   quotesrepo.Quote{QuoteNumber: "COT-2026-0001", Total: 13456},
		PDFData: []byte("%PDF-fake"),
	}

	msg := InboundMessage{MessageID: "m1", From: "+528112345678", Text: "12 metros, brazo, pintura, piso firme, monterrey, 5 dias"}
	if err := env.svc.ProcessInbound(context.Background(), msg); err != nil {
		t.Fatalf("ProcessInbound: %v", err)
	}

	if env.drafter.calls != 1 {
		t.Fatalf("drafter called %d times, want 1", env.drafter.calls)
	}
	if len(env.convs.states) != 1 || env.convs.states[0] != conversation.StateReadyForMatch {
		t.Errorf("state transitions = %v, want READY_FOR_MATCH", env.convs.states)
	}
	if env.drafter.lastParams.Qualification == nil {
		t.Fatal("drafter received no qualification record")
	}
	if days := env.drafter.lastParams.Qualification.DurationDays; days == nil || *days != 5 {
		t.Errorf("snapshot duration = %v, want 5", days)
	}
	if len(env.messenger.files) != 1 || env.messenger.files[0] != "COT-2026-0001.pdf" {
		t.Errorf("files = %v, want the quote pdf", env.messenger.files)
	}
	if len(env.messenger.messages) != 1 || !strings.Contains(env.messenger.messages[0], "COT-2026-0001") {
		t.Errorf("caption = %v, want quote number mentioned", env.messenger.messages)
	}
}

func TestProcessInboundDraftConflictSendsAcknowledgment(t *testing.T) {
	env := newTestEnv(t, conversation.StateTechQualification, namePtr("Juan"))
	env.extractor.extraction = completeExtraction()
	env.drafter.err = apperr.Conflict("quote was already drafted for this conversation")

	msg := InboundMessage{MessageID: "m1", From: "+528112345678", Text: "todo listo"}
	if err := env.svc.ProcessInbound(context.Background(), msg); err != nil {
		t.Fatalf("ProcessInbound: %v", err)
	}

	if len(env.messenger.messages) != 1 || env.messenger.messages[0] != alreadyQuotedMessage {
		t.Errorf("messages = %v, want the already-quoted acknowledgment", env.messenger.messages)
	}
}

func TestProcessInboundCapturesName(t *testing.T) {
	env := newTestEnv(t, conversation.StateAskName, nil)

	msg := InboundMessage{MessageID: "m1", From: "+528112345678", Text: "me llamo Ana"}
	if err := env.svc.ProcessInbound(context.Background(), msg); err != nil {
		t.Fatalf("ProcessInbound: %v", err)
	}

	if env.leads.named == nil || *env.leads.named != "Ana" {
		t.Fatalf("name = %v, want Ana", env.leads.named)
	}
	if len(env.convs.states) != 1 || env.convs.states[0] != conversation.StateTechQualification {
		t.Errorf("state transitions = %v, want TECH_QUALIFICATION", env.convs.states)
	}
	if len(env.messenger.messages) != 1 || env.messenger.messages[0] != QuestionFor(qualification.FieldHeight, false) {
		t.Errorf("asked %q, want the height question", env.messenger.messages)
	}
}

func TestProcessInboundForwardsMissingFieldsToExtractor(t *testing.T) {
	env := newTestEnv(t, conversation.StateTechQualification, namePtr("Juan"))

	msg := InboundMessage{MessageID: "m1", From: "+528112345678", Text: "unos 12 metros"}
	if err := env.svc.ProcessInbound(context.Background(), msg); err != nil {
		t.Fatalf("ProcessInbound: %v", err)
	}

	want := []qualification.Field{
		qualification.FieldHeight,
		qualification.FieldLiftType,
		qualification.FieldActivity,
		qualification.FieldTerrain,
		qualification.FieldCity,
		qualification.FieldDurationDays,
	}
	if len(env.extractor.knownMissing) != len(want) {
		t.Fatalf("knownMissing = %v, want %v", env.extractor.knownMissing, want)
	}
	for i, f := range want {
		if env.extractor.knownMissing[i] != f {
			t.Errorf("knownMissing[%d] = %q, want %q", i, env.extractor.knownMissing[i], f)
		}
	}
}

func TestProcessInboundRetryPrompt(t *testing.T) {
	env := newTestEnv(t, conversation.StateTechQualification, namePtr("Juan"))
	env.extractor.extraction = qualification.Extraction{
		MissingFields: []qualification.Field{qualification.FieldHeight},
	}

	msg := InboundMessage{MessageID: "m1", From: "+528112345678", Text: "como unos cuantos pisos"}
	if err := env.svc.ProcessInbound(context.Background(), msg); err != nil {
		t.Fatalf("ProcessInbound: %v", err)
	}

	if len(env.messenger.messages) != 1 || env.messenger.messages[0] != QuestionFor(qualification.FieldHeight, true) {
		t.Errorf("asked %q, want the clarifying height question", env.messenger.messages)
	}
}
