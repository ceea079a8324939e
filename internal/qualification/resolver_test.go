package qualification

import "testing"

func fullRecord() *Qualification {
	heightM := 12.0
	heightFt := 39
	lift := LiftTypeArm
	activity := ActivityGeneral
	terrain := TerrainFirmGround
	city := "Monterrey"
	days := 5
	email := "lead@example.com"
	return &Qualification{
		HeightM:      &heightM,
		HeightFt:     &heightFt,
		LiftType:     &lift,
		Activity:     &activity,
		Terrain:      &terrain,
		City:         &city,
		DurationDays: &days,
		ContactEmail: &email,
	}
}

func TestResolvePriorityOrder(t *testing.T) {
	res := Resolve(&Qualification{}, ResolveParams{LeadHasName: false})
	if res.Next != FieldName {
		t.Errorf("empty record: next = %s, want name", res.Next)
	}

	res = Resolve(&Qualification{}, ResolveParams{LeadHasName: true})
	if res.Next != FieldHeight {
		t.Errorf("named lead: next = %s, want height", res.Next)
	}

	rec := fullRecord()
	rec.Terrain = nil
	rec.DurationDays = nil
	res = Resolve(rec, ResolveParams{LeadHasName: true})
	if res.Next != FieldTerrain {
		t.Errorf("next = %s, want terrain before durationDays", res.Next)
	}
	if len(res.Missing) != 2 {
		t.Errorf("missing = %v, want terrain and durationDays", res.Missing)
	}
}

func TestResolveComplete(t *testing.T) {
	res := Resolve(fullRecord(), ResolveParams{LeadHasName: true})
	if !res.Complete() {
		t.Errorf("full record not complete: missing %v", res.Missing)
	}
}

func TestResolveEmailOnlyWhenRequired(t *testing.T) {
	rec := fullRecord()
	rec.ContactEmail = nil

	res := Resolve(rec, ResolveParams{LeadHasName: true, RequireEmail: false})
	if !res.Complete() {
		t.Errorf("email optional but still missing: %v", res.Missing)
	}

	res = Resolve(rec, ResolveParams{LeadHasName: true, RequireEmail: true})
	if res.Complete() || res.Next != FieldContactEmail {
		t.Errorf("email required: next = %s, missing = %v", res.Next, res.Missing)
	}
}

func TestResolveRetryFlag(t *testing.T) {
	rec := fullRecord()
	rec.DurationDays = nil

	// The lead wrote something and the extractor reported it could not find
	// the duration: ask again with the clarifying prompt.
	res := Resolve(rec, ResolveParams{
		LeadHasName:         true,
		HadText:             true,
		SelfReportedMissing: []Field{FieldDurationDays},
	})
	if !res.Retry {
		t.Error("retry not set for self-reported missing field with text")
	}

	// No text this turn (media-only message): not a failed answer.
	res = Resolve(rec, ResolveParams{
		LeadHasName:         true,
		HadText:             false,
		SelfReportedMissing: []Field{FieldDurationDays},
	})
	if res.Retry {
		t.Error("retry set for turn without text")
	}

	// Extractor did not flag the field: generic question.
	res = Resolve(rec, ResolveParams{LeadHasName: true, HadText: true})
	if res.Retry {
		t.Error("retry set without extractor self-report")
	}
}
