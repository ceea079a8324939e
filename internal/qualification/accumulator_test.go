package qualification

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

// fakeStore is an in-memory Store for accumulator tests.
type fakeStore struct {
	records map[uuid.UUID]*Qualification
	patches int
}

func newFakeStore() *fakeStore {
	return &fakeStore{records: make(map[uuid.UUID]*Qualification)}
}

func (s *fakeStore) GetByLeadID(_ context.Context, companyID, leadID uuid.UUID) (*Qualification, error) {
	rec, ok := s.records[leadID]
	if !ok {
		return nil, nil
	}
	clone := *rec
	return &clone, nil
}

func (s *fakeStore) Create(_ context.Context, companyID, leadID uuid.UUID) (*Qualification, error) {
	rec := &Qualification{LeadID: leadID, CompanyID: companyID}
	s.records[leadID] = rec
	clone := *rec
	return &clone, nil
}

func (s *fakeStore) ApplyPatch(_ context.Context, companyID, leadID uuid.UUID, patch SparsePatch) error {
	s.patches++
	rec := s.records[leadID]
	applyToRecord(rec, patch)
	return nil
}

func TestPatchIsIdempotent(t *testing.T) {
	store := newFakeStore()
	acc := NewAccumulator(store)
	companyID, leadID := uuid.New(), uuid.New()

	heightM := 12.0
	ext := Extraction{HeightM: &heightM}

	_, changed, err := acc.Patch(context.Background(), companyID, leadID, ext)
	if err != nil {
		t.Fatalf("first patch: %v", err)
	}
	if !changed {
		t.Fatal("first patch reported no change")
	}

	_, changed, err = acc.Patch(context.Background(), companyID, leadID, ext)
	if err != nil {
		t.Fatalf("second patch: %v", err)
	}
	if changed {
		t.Error("second identical patch reported a change")
	}
	if store.patches != 1 {
		t.Errorf("store received %d patches, want 1", store.patches)
	}
}

func TestPatchNeverClearsWithNull(t *testing.T) {
	store := newFakeStore()
	acc := NewAccumulator(store)
	companyID, leadID := uuid.New(), uuid.New()

	heightM := 12.0
	if _, _, err := acc.Patch(context.Background(), companyID, leadID, Extraction{HeightM: &heightM}); err != nil {
		t.Fatalf("seed patch: %v", err)
	}

	// Later turn: height missing from the extraction, lift type present.
	lift := LiftTypeArm
	record, changed, err := acc.Patch(context.Background(), companyID, leadID, Extraction{LiftType: &lift})
	if err != nil {
		t.Fatalf("second patch: %v", err)
	}
	if !changed {
		t.Fatal("lift type patch reported no change")
	}
	if record.HeightM == nil || *record.HeightM != 12.0 {
		t.Errorf("height lost: %v", record.HeightM)
	}
	if record.LiftType == nil || *record.LiftType != LiftTypeArm {
		t.Errorf("lift type not stored: %v", record.LiftType)
	}
}

func TestPatchEmptyExtractionIsNoOp(t *testing.T) {
	store := newFakeStore()
	acc := NewAccumulator(store)
	companyID, leadID := uuid.New(), uuid.New()

	record, changed, err := acc.Patch(context.Background(), companyID, leadID, Extraction{})
	if err != nil {
		t.Fatalf("patch: %v", err)
	}
	if changed {
		t.Error("empty extraction reported a change")
	}
	if record == nil {
		t.Fatal("record not created on first touch")
	}
	if store.patches != 0 {
		t.Errorf("store received %d patches, want 0", store.patches)
	}
}

func TestPatchHeightPairMovesTogether(t *testing.T) {
	store := newFakeStore()
	acc := NewAccumulator(store)
	companyID, leadID := uuid.New(), uuid.New()

	m, ft := NormalizeHeight(floatPtr(12), nil)
	if _, _, err := acc.Patch(context.Background(), companyID, leadID, Extraction{HeightM: m, HeightFt: ft}); err != nil {
		t.Fatalf("seed patch: %v", err)
	}

	// A new height replaces both columns at once.
	m2, ft2 := NormalizeHeight(nil, floatPtr(60))
	record, changed, err := acc.Patch(context.Background(), companyID, leadID, Extraction{HeightM: m2, HeightFt: ft2})
	if err != nil {
		t.Fatalf("update patch: %v", err)
	}
	if !changed {
		t.Fatal("new height reported no change")
	}
	if record.HeightFt == nil || *record.HeightFt != 60 {
		t.Errorf("feet = %v, want 60", record.HeightFt)
	}
	if record.HeightM == nil || *record.HeightM != *m2 {
		t.Errorf("meters = %v, want %v", record.HeightM, *m2)
	}
}
