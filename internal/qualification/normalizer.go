package qualification

import (
	"math"
	"regexp"
	"strings"
)

const feetPerMeter = 3.28084

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// NormalizeText trims a free-text value. A value that trims to nothing is
// absent, never an empty string.
func NormalizeText(raw *string) *string {
	if raw == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*raw)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// NormalizeDuration accepts only a finite integer day count greater than zero.
func NormalizeDuration(raw *float64) *int {
	if raw == nil {
		return nil
	}
	v := *raw
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	if v != math.Trunc(v) || v <= 0 {
		return nil
	}
	days := int(v)
	return &days
}

// NormalizeEmail validates an email address; malformed values are treated as
// still-missing so the dialogue asks again.
func NormalizeEmail(raw *string) *string {
	trimmed := NormalizeText(raw)
	if trimmed == nil {
		return nil
	}
	lowered := strings.ToLower(*trimmed)
	if !emailRegex.MatchString(lowered) {
		return nil
	}
	return &lowered
}

// NormalizeHeight returns the working-height pair. When the extractor
// resolved both units independently they are stored together exactly as
// given, never algebraically re-derived. When only one unit is present the
// other is filled by conversion so both columns stay populated together.
func NormalizeHeight(meters *float64, feet *float64) (*float64, *int) {
	m := normalizePositiveFloat(meters)
	ft := normalizePositiveInt(feet)

	switch {
	case m != nil && ft != nil:
		return m, ft
	case m != nil:
		converted := int(math.Round(*m * feetPerMeter))
		if converted <= 0 {
			return m, nil
		}
		return m, &converted
	case ft != nil:
		converted := math.Round(float64(*ft)/feetPerMeter*100) / 100
		if converted <= 0 {
			return nil, ft
		}
		return &converted, ft
	}
	return nil, nil
}

// NormalizeLiftType maps a raw extractor value onto the closed LiftType enum.
func NormalizeLiftType(raw *string) *LiftType {
	trimmed := NormalizeText(raw)
	if trimmed == nil {
		return nil
	}
	switch LiftType(strings.ToUpper(*trimmed)) {
	case LiftTypeArm:
		v := LiftTypeArm
		return &v
	case LiftTypeScissor:
		v := LiftTypeScissor
		return &v
	}
	return nil
}

// NormalizeActivity maps a raw extractor value onto the closed Activity enum.
func NormalizeActivity(raw *string) *Activity {
	trimmed := NormalizeText(raw)
	if trimmed == nil {
		return nil
	}
	switch Activity(strings.ToUpper(*trimmed)) {
	case ActivityPainting:
		v := ActivityPainting
		return &v
	case ActivityGeneral:
		v := ActivityGeneral
		return &v
	}
	return nil
}

// NormalizeTerrain maps a raw extractor value onto the closed Terrain enum.
func NormalizeTerrain(raw *string) *Terrain {
	trimmed := NormalizeText(raw)
	if trimmed == nil {
		return nil
	}
	switch Terrain(strings.ToUpper(*trimmed)) {
	case TerrainFirmGround:
		v := TerrainFirmGround
		return &v
	case TerrainUnpaved:
		v := TerrainUnpaved
		return &v
	}
	return nil
}

func normalizePositiveFloat(raw *float64) *float64 {
	if raw == nil {
		return nil
	}
	v := *raw
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return nil
	}
	return &v
}

func normalizePositiveInt(raw *float64) *int {
	if raw == nil {
		return nil
	}
	v := *raw
	if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) || v <= 0 {
		return nil
	}
	n := int(v)
	return &n
}
