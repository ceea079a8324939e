package service

import (
	"testing"

	"rental_leads_backend/internal/pricing"
)

func TestAssembleLinesLabelsAndOrder(t *testing.T) {
	engine := pricing.NewEngine(pricing.DefaultRateTable())

	result, err := engine.ComputeOptions(5, "45FT", 600, 0.16)
	if err != nil {
		t.Fatalf("ComputeOptions: %v", err)
	}

	lines := AssembleLines(result)
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3", len(lines))
	}

	if !lines[0].IsPrimary || lines[0].DurationDays != 5 {
		t.Errorf("first line = %+v, want primary 5-day option", lines[0])
	}
	if lines[0].Label != "Renta solicitada (5 días)" {
		t.Errorf("primary label = %q", lines[0].Label)
	}
	if lines[1].Label != "Semana (7 días)" {
		t.Errorf("week label = %q", lines[1].Label)
	}
	if lines[2].Label != "Mes (30 días)" {
		t.Errorf("month label = %q", lines[2].Label)
	}

	for i, line := range lines {
		if line.Position != i {
			t.Errorf("line %d has position %d", i, line.Position)
		}
		if i > 0 && line.IsPrimary {
			t.Errorf("reference line %d marked primary", i)
		}
	}

	// The 30-day bundle has the lowest effective per-day cost here.
	var cheapestCount int
	for _, line := range lines {
		if line.IsCheapest {
			cheapestCount++
			if line.DurationDays != 30 {
				t.Errorf("cheapest flag on %d-day line, want 30", line.DurationDays)
			}
		}
	}
	if cheapestCount != 1 {
		t.Errorf("cheapest flag set on %d lines, want exactly 1", cheapestCount)
	}
}

func TestAssembleLinesAnchorFallback(t *testing.T) {
	engine := pricing.NewEngine(pricing.DefaultRateTable())

	result, err := engine.ComputeOptions(7, "45FT", 600, 0.16)
	if err != nil {
		t.Fatalf("ComputeOptions: %v", err)
	}

	lines := AssembleLines(result)
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3", len(lines))
	}
	if lines[0].Label != "Renta solicitada (7 días)" {
		t.Errorf("primary label = %q", lines[0].Label)
	}
	if lines[1].Label != "1 día" {
		t.Errorf("fallback label = %q", lines[1].Label)
	}
	if lines[2].Label != "Mes (30 días)" {
		t.Errorf("month label = %q", lines[2].Label)
	}
}
