package pricing

import (
	"testing"

	"rental_leads_backend/platform/apperr"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	table := DefaultRateTable()
	if err := table.Validate(); err != nil {
		t.Fatalf("default table invalid: %v", err)
	}
	return NewEngine(table)
}

func TestRentalBaseTiers(t *testing.T) {
	engine := newTestEngine(t)

	cases := []struct {
		days int
		want int64
	}{
		{1, 2500},
		{2, 5000},
		{3, 7500},
		{4, 8800},
		{5, 11000},
		{6, 13200},
		{7, 13900},  // weekly bundle, not 7 x 2200
		{8, 15200},
		{14, 26600},
		{15, 25500},
		{21, 35700},
		{22, 33000},
		{29, 43500},
		{30, 39500}, // monthly bundle, not 30 x 1500
		{31, 46500},
	}
	for _, tc := range cases {
		if got := engine.rentalBase(tc.days); got != tc.want {
			t.Errorf("rentalBase(%d) = %d, want %d", tc.days, got, tc.want)
		}
	}
}

func TestComputeOptionsWorkedExample(t *testing.T) {
	engine := newTestEngine(t)

	res, err := engine.ComputeOptions(5, "45FT", 600, 0.16)
	if err != nil {
		t.Fatalf("ComputeOptions: %v", err)
	}

	p := res.Primary
	if p.DurationDays != 5 {
		t.Fatalf("primary duration = %d, want 5", p.DurationDays)
	}
	if p.RentalBase != 11000 {
		t.Errorf("rental = %d, want 11000", p.RentalBase)
	}
	if p.Subtotal != 11600 {
		t.Errorf("subtotal = %d, want 11600", p.Subtotal)
	}
	if p.VAT != 1856 {
		t.Errorf("vat = %d, want 1856", p.VAT)
	}
	if p.Total != 13456 {
		t.Errorf("total = %d, want 13456", p.Total)
	}

	if len(res.References) != 2 {
		t.Fatalf("references = %d, want 2", len(res.References))
	}
	if res.References[0].DurationDays != 7 || res.References[0].RentalBase != 13900 {
		t.Errorf("first reference = %+v, want 7-day bundle", res.References[0])
	}
	if res.References[1].DurationDays != 30 || res.References[1].RentalBase != 39500 {
		t.Errorf("second reference = %+v, want 30-day bundle", res.References[1])
	}
}

func TestComputeOptionsShape(t *testing.T) {
	engine := newTestEngine(t)

	for _, days := range []int{1, 3, 7, 10, 30, 45} {
		res, err := engine.ComputeOptions(days, "45FT", 600, 0.16)
		if err != nil {
			t.Fatalf("ComputeOptions(%d): %v", days, err)
		}
		if len(res.Options) < 1 || len(res.Options) > 3 {
			t.Fatalf("ComputeOptions(%d) returned %d options", days, len(res.Options))
		}
		if res.Options[0].DurationDays != days {
			t.Errorf("ComputeOptions(%d): first option is %d days", days, res.Options[0].DurationDays)
		}
		seen := map[int]bool{}
		for _, opt := range res.Options {
			if seen[opt.DurationDays] {
				t.Errorf("ComputeOptions(%d): duplicate %d-day option", days, opt.DurationDays)
			}
			seen[opt.DurationDays] = true
		}
	}
}

func TestComputeOptionsAnchorCollision(t *testing.T) {
	engine := newTestEngine(t)

	res, err := engine.ComputeOptions(7, "45FT", 600, 0.16)
	if err != nil {
		t.Fatalf("ComputeOptions: %v", err)
	}
	if len(res.References) != 2 {
		t.Fatalf("references = %d, want 2", len(res.References))
	}
	durations := []int{res.References[0].DurationDays, res.References[1].DurationDays}
	if durations[0] != 1 || durations[1] != 30 {
		t.Errorf("references at %v, want 1-day fallback and 30-day anchor", durations)
	}
	for _, opt := range res.Options {
		if opt.DurationDays == 7 && opt.RentalBase != 13900 {
			t.Errorf("7-day option rental = %d, want bundle 13900", opt.RentalBase)
		}
	}
}

func TestComputeOptionsInvalidInput(t *testing.T) {
	engine := newTestEngine(t)

	if _, err := engine.ComputeOptions(0, "45FT", 600, 0.16); apperr.GetKind(err) != apperr.KindValidation {
		t.Errorf("zero duration: got %v, want validation error", err)
	}
	if _, err := engine.ComputeOptions(-3, "45FT", 600, 0.16); apperr.GetKind(err) != apperr.KindValidation {
		t.Errorf("negative duration: got %v, want validation error", err)
	}
	if _, err := engine.ComputeOptions(5, "120FT", 600, 0.16); apperr.GetKind(err) != apperr.KindValidation {
		t.Errorf("unsupported model: got %v, want validation error", err)
	}
}

func TestCheapestPerDayIndex(t *testing.T) {
	engine := newTestEngine(t)

	res, err := engine.ComputeOptions(2, "45FT", 600, 0.16)
	if err != nil {
		t.Fatalf("ComputeOptions: %v", err)
	}
	// 2 days at 2500/day vs the 30-day bundle at ~1317/day.
	idx := CheapestPerDayIndex(res.Options)
	if res.Options[idx].DurationDays != 30 {
		t.Errorf("cheapest per day at %d days, want 30", res.Options[idx].DurationDays)
	}

	// Ties keep the earlier option.
	tied := []Option{{DurationDays: 5, PerDayCost: 100}, {DurationDays: 9, PerDayCost: 100}}
	if got := CheapestPerDayIndex(tied); got != 0 {
		t.Errorf("tie broke to index %d, want 0", got)
	}
}

func TestValidateRejectsBrokenTables(t *testing.T) {
	base := DefaultRateTable()

	gap := base
	gap.Tiers = []Tier{
		{FromDay: 1, ToDay: 3, DailyRate: 2500},
		{FromDay: 5, ToDay: 0, DailyRate: 2000},
	}
	if err := gap.Validate(); err == nil {
		t.Error("table with day gap validated")
	}

	rising := base
	rising.Tiers = []Tier{
		{FromDay: 1, ToDay: 3, DailyRate: 2000},
		{FromDay: 4, ToDay: 0, DailyRate: 2500},
	}
	if err := rising.Validate(); err == nil {
		t.Error("table with rising rates validated")
	}

	bounded := base
	bounded.Tiers = []Tier{{FromDay: 1, ToDay: 10, DailyRate: 2000}}
	if err := bounded.Validate(); err == nil {
		t.Error("table without open-ended tier validated")
	}
}
