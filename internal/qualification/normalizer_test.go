package qualification

import (
	"math"
	"testing"
)

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }

func TestNormalizeTextRejectsEmpty(t *testing.T) {
	if got := NormalizeText(nil); got != nil {
		t.Errorf("nil input: got %v", got)
	}
	if got := NormalizeText(strPtr("   ")); got != nil {
		t.Errorf("whitespace input: got %q", *got)
	}
	if got := NormalizeText(strPtr("  Monterrey  ")); got == nil || *got != "Monterrey" {
		t.Errorf("got %v, want Monterrey", got)
	}
}

func TestNormalizeDuration(t *testing.T) {
	cases := []struct {
		in   *float64
		want *int
	}{
		{nil, nil},
		{floatPtr(5), intPtrT(5)},
		{floatPtr(1), intPtrT(1)},
		{floatPtr(0), nil},
		{floatPtr(-3), nil},
		{floatPtr(5.5), nil},
		{floatPtr(math.NaN()), nil},
		{floatPtr(math.Inf(1)), nil},
	}
	for i, tc := range cases {
		got := NormalizeDuration(tc.in)
		if (got == nil) != (tc.want == nil) {
			t.Errorf("case %d: got %v, want %v", i, got, tc.want)
			continue
		}
		if got != nil && *got != *tc.want {
			t.Errorf("case %d: got %d, want %d", i, *got, *tc.want)
		}
	}
}

func intPtrT(v int) *int { return &v }

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail(strPtr("  Juan.Perez@Example.COM ")); got == nil || *got != "juan.perez@example.com" {
		t.Errorf("got %v, want lowercase normalized address", got)
	}
	for _, bad := range []string{"not-an-email", "juan@", "@example.com", "juan @example.com"} {
		if got := NormalizeEmail(strPtr(bad)); got != nil {
			t.Errorf("%q accepted as %q", bad, *got)
		}
	}
}

func TestNormalizeHeightSingleUnitFillsOther(t *testing.T) {
	m, ft := NormalizeHeight(floatPtr(12), nil)
	if m == nil || *m != 12 {
		t.Fatalf("meters = %v, want 12", m)
	}
	if ft == nil || *ft != 39 {
		t.Errorf("feet = %v, want 39", ft)
	}

	m, ft = NormalizeHeight(nil, floatPtr(40))
	if ft == nil || *ft != 40 {
		t.Fatalf("feet = %v, want 40", ft)
	}
	if m == nil || *m != 12.19 {
		t.Errorf("meters = %v, want 12.19", m)
	}
}

func TestNormalizeHeightBothUnitsKeptAsGiven(t *testing.T) {
	m, ft := NormalizeHeight(floatPtr(12), floatPtr(40))
	if m == nil || *m != 12 {
		t.Errorf("meters = %v, want 12 as given", m)
	}
	if ft == nil || *ft != 40 {
		t.Errorf("feet = %v, want 40 as given", ft)
	}
}

func TestNormalizeHeightRejectsNonPositive(t *testing.T) {
	if m, ft := NormalizeHeight(floatPtr(-5), nil); m != nil || ft != nil {
		t.Errorf("negative height accepted: %v %v", m, ft)
	}
	if m, ft := NormalizeHeight(nil, floatPtr(0)); m != nil || ft != nil {
		t.Errorf("zero height accepted: %v %v", m, ft)
	}
}

func TestNormalizeEnums(t *testing.T) {
	if got := NormalizeLiftType(strPtr("arm")); got == nil || *got != LiftTypeArm {
		t.Errorf("arm: got %v", got)
	}
	if got := NormalizeLiftType(strPtr("Scissor")); got == nil || *got != LiftTypeScissor {
		t.Errorf("Scissor: got %v", got)
	}
	if got := NormalizeLiftType(strPtr("telescopic")); got != nil {
		t.Errorf("unknown lift type accepted: %v", *got)
	}
	if got := NormalizeActivity(strPtr("PAINTING")); got == nil || *got != ActivityPainting {
		t.Errorf("PAINTING: got %v", got)
	}
	if got := NormalizeTerrain(strPtr("firm_ground")); got == nil || *got != TerrainFirmGround {
		t.Errorf("firm_ground: got %v", got)
	}
	if got := NormalizeTerrain(strPtr("mud")); got != nil {
		t.Errorf("unknown terrain accepted: %v", *got)
	}
}
