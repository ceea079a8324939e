package qualification

import (
	"context"

	"github.com/google/uuid"
)

// SparsePatch carries only the fields a turn actually changes. A nil field
// leaves the stored value untouched, so a missing extracted field can never
// clear an existing value.
type SparsePatch struct {
	HeightM      *float64
	HeightFt     *int
	LiftType     *LiftType
	Activity     *Activity
	Terrain      *Terrain
	City         *string
	DurationDays *int
	ContactEmail *string
}

// IsEmpty reports whether the patch would change nothing.
func (p SparsePatch) IsEmpty() bool {
	return p.HeightM == nil && p.HeightFt == nil && p.LiftType == nil &&
		p.Activity == nil && p.Terrain == nil && p.City == nil &&
		p.DurationDays == nil && p.ContactEmail == nil
}

// Store is the persistence port for qualification records. Implemented by
// the pgx repository in production and by in-memory fakes in tests.
type Store interface {
	// GetByLeadID returns the record for the lead, or (nil, nil) when none exists.
	GetByLeadID(ctx context.Context, companyID, leadID uuid.UUID) (*Qualification, error)
	// Create inserts an all-null record for the lead.
	Create(ctx context.Context, companyID, leadID uuid.UUID) (*Qualification, error)
	// ApplyPatch writes the non-nil fields of the patch and bumps updated_at.
	ApplyPatch(ctx context.Context, companyID, leadID uuid.UUID, patch SparsePatch) error
}

// Accumulator applies monotonic, non-destructive patches to the canonical
// accumulated requirement for a lead.
type Accumulator struct {
	store Store
}

// NewAccumulator creates an accumulator backed by the given store.
func NewAccumulator(store Store) *Accumulator {
	return &Accumulator{store: store}
}

// GetOrCreate returns the lead's qualification record, creating an all-null
// one on first touch. Safe to call repeatedly.
func (a *Accumulator) GetOrCreate(ctx context.Context, companyID, leadID uuid.UUID) (*Qualification, error) {
	existing, err := a.store.GetByLeadID(ctx, companyID, leadID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}
	return a.store.Create(ctx, companyID, leadID)
}

// Patch merges one turn's normalized extraction into the stored record.
// Only present values that differ from what is stored are written: a null
// extracted field never overwrites, an empty string is never stored, and
// applying the same extraction twice is a no-op the second time. The bool
// result reports whether a write happened.
func (a *Accumulator) Patch(ctx context.Context, companyID, leadID uuid.UUID, extracted Extraction) (*Qualification, bool, error) {
	current, err := a.GetOrCreate(ctx, companyID, leadID)
	if err != nil {
		return nil, false, err
	}

	patch := buildSparsePatch(current, extracted)
	if patch.IsEmpty() {
		return current, false, nil
	}

	if err := a.store.ApplyPatch(ctx, companyID, leadID, patch); err != nil {
		return nil, false, err
	}

	applyToRecord(current, patch)
	return current, true, nil
}

// buildSparsePatch keeps only extracted values that are present and differ
// from the stored ones. The height pair moves together: a turn that restates
// the same height in either unit changes nothing.
func buildSparsePatch(current *Qualification, extracted Extraction) SparsePatch {
	var patch SparsePatch

	if extracted.HeightM != nil || extracted.HeightFt != nil {
		if !sameFloat(current.HeightM, extracted.HeightM) || !sameInt(current.HeightFt, extracted.HeightFt) {
			patch.HeightM = extracted.HeightM
			patch.HeightFt = extracted.HeightFt
		}
	}
	if extracted.LiftType != nil && (current.LiftType == nil || *current.LiftType != *extracted.LiftType) {
		patch.LiftType = extracted.LiftType
	}
	if extracted.Activity != nil && (current.Activity == nil || *current.Activity != *extracted.Activity) {
		patch.Activity = extracted.Activity
	}
	if extracted.Terrain != nil && (current.Terrain == nil || *current.Terrain != *extracted.Terrain) {
		patch.Terrain = extracted.Terrain
	}
	if extracted.City != nil && (current.City == nil || *current.City != *extracted.City) {
		patch.City = extracted.City
	}
	if extracted.DurationDays != nil && (current.DurationDays == nil || *current.DurationDays != *extracted.DurationDays) {
		patch.DurationDays = extracted.DurationDays
	}
	if extracted.ContactEmail != nil && (current.ContactEmail == nil || *current.ContactEmail != *extracted.ContactEmail) {
		patch.ContactEmail = extracted.ContactEmail
	}

	return patch
}

func applyToRecord(q *Qualification, patch SparsePatch) {
	if patch.HeightM != nil {
		q.HeightM = patch.HeightM
	}
	if patch.HeightFt != nil {
		q.HeightFt = patch.HeightFt
	}
	if patch.LiftType != nil {
		q.LiftType = patch.LiftType
	}
	if patch.Activity != nil {
		q.Activity = patch.Activity
	}
	if patch.Terrain != nil {
		q.Terrain = patch.Terrain
	}
	if patch.City != nil {
		q.City = patch.City
	}
	if patch.DurationDays != nil {
		q.DurationDays = patch.DurationDays
	}
	if patch.ContactEmail != nil {
		q.ContactEmail = patch.ContactEmail
	}
}

func sameFloat(a, b *float64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func sameInt(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
