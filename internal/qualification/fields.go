// Package qualification owns the accumulated rental requirement for a lead:
// normalization of extractor output, the monotonic patch operation, and the
// missing-field resolver that drives the dialogue forward.
package qualification

import (
	"time"

	"github.com/google/uuid"
)

// LiftType is the kind of aerial lift the lead needs.
type LiftType string

const (
	LiftTypeArm     LiftType = "ARM"
	LiftTypeScissor LiftType = "SCISSOR"
)

// Activity is the kind of work the lift will be used for.
type Activity string

const (
	ActivityPainting Activity = "PAINTING"
	ActivityGeneral  Activity = "GENERAL"
)

// Terrain describes the ground the lift will operate on.
type Terrain string

const (
	TerrainFirmGround Terrain = "FIRM_GROUND"
	TerrainUnpaved    Terrain = "UNPAVED"
)

// Field identifies one qualifiable attribute. The zero value is invalid.
type Field string

const (
	FieldName         Field = "name"
	FieldHeight       Field = "height"
	FieldLiftType     Field = "liftType"
	FieldActivity     Field = "activity"
	FieldTerrain      Field = "terrain"
	FieldCity         Field = "city"
	FieldDurationDays Field = "durationDays"
	FieldContactEmail Field = "contactEmail"
)

// questionOrder is the fixed priority in which unmet fields are asked.
// Name lives on the Lead, not the Qualification, but leads the order.
var questionOrder = []Field{
	FieldName,
	FieldHeight,
	FieldLiftType,
	FieldActivity,
	FieldTerrain,
	FieldCity,
	FieldDurationDays,
	FieldContactEmail,
}

// Qualification is the accumulated, nullable-field requirement profile for a
// lead. Every field is either a valid normalized value or nil; an empty
// string is never a legal stored value.
type Qualification struct {
	LeadID       uuid.UUID `json:"leadId"`
	CompanyID    uuid.UUID `json:"companyId"`
	HeightM      *float64  `json:"heightM"`
	HeightFt     *int      `json:"heightFt"`
	LiftType     *LiftType `json:"liftType"`
	Activity     *Activity `json:"activity"`
	Terrain      *Terrain  `json:"terrain"`
	City         *string   `json:"city"`
	DurationDays *int      `json:"durationDays"`
	ContactEmail *string   `json:"contactEmail"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Has reports whether the given field is resolved on the record.
// Height counts as resolved when either unit is present.
func (q *Qualification) Has(f Field) bool {
	switch f {
	case FieldHeight:
		return q.HeightM != nil || q.HeightFt != nil
	case FieldLiftType:
		return q.LiftType != nil
	case FieldActivity:
		return q.Activity != nil
	case FieldTerrain:
		return q.Terrain != nil
	case FieldCity:
		return q.City != nil
	case FieldDurationDays:
		return q.DurationDays != nil
	case FieldContactEmail:
		return q.ContactEmail != nil
	}
	return false
}

// Extraction is the validated, normalized best-effort guess from the NLU
// extractor for one inbound turn. Absent or rejected fields are nil; the
// accumulator never sees an empty string or an out-of-range value.
type Extraction struct {
	Name         *string
	HeightM      *float64
	HeightFt     *int
	LiftType     *LiftType
	Activity     *Activity
	Terrain      *Terrain
	City         *string
	DurationDays *int
	ContactEmail *string

	// MissingFields is the extractor's self-reported set of fields it looked
	// for but could not find in the message.
	MissingFields []Field
	Confidence    float64
}

// IsEmpty reports whether the extraction carries no usable field at all.
func (e Extraction) IsEmpty() bool {
	return e.Name == nil && e.HeightM == nil && e.HeightFt == nil &&
		e.LiftType == nil && e.Activity == nil && e.Terrain == nil &&
		e.City == nil && e.DurationDays == nil && e.ContactEmail == nil
}

// SelfReportedMissing reports whether the extractor flagged the given field
// as looked-for-but-not-found this turn.
func (e Extraction) SelfReportedMissing(f Field) bool {
	for _, m := range e.MissingFields {
		if m == f {
			return true
		}
	}
	return false
}
