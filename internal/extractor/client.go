// Package extractor calls the external NLU field-extraction service and
// validates its best-effort guesses before they reach the accumulator.
package extractor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"rental_leads_backend/internal/qualification"
	"rental_leads_backend/platform/config"
	"rental_leads_backend/platform/logger"
)

// Client talks to the extraction service over HTTP. A nil client extracts
// nothing, which degrades the dialogue to plain re-asking.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	log     *logger.Logger
}

func NewClient(cfg config.ExtractorConfig, log *logger.Logger) *Client {
	if cfg.GetExtractorURL() == "" {
		return nil
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.GetExtractorURL(), "/"),
		apiKey:  cfg.GetExtractorAPIKey(),
		http:    &http.Client{Timeout: cfg.GetExtractorTimeout()},
		log:     log,
	}
}

type extractRequest struct {
	Text         string   `json:"text"`
	KnownMissing []string `json:"knownMissing,omitempty"`
}

// payload is the wire shape of the extractor's guess. Everything is
// optional; anything failing validation is dropped to nil before it leaves
// this package.
type payload struct {
	Name          *string  `json:"name"`
	HeightM       *float64 `json:"heightM"`
	HeightFt      *float64 `json:"heightFt"`
	LiftType      *string  `json:"liftType"`
	Activity      *string  `json:"activity"`
	Terrain       *string  `json:"terrain"`
	City          *string  `json:"city"`
	DurationDays  *float64 `json:"durationDays"`
	ContactEmail  *string  `json:"contactEmail"`
	MissingFields []string `json:"missingFields"`
	Confidence    float64  `json:"confidence"`
}

// Extract sends the message text to the extraction service and returns the
// normalized result. Transport errors, non-200 responses and malformed
// bodies all surface as errors; the caller recovers by treating the turn as
// carrying no new fields.
func (c *Client) Extract(ctx context.Context, text string, knownMissing []qualification.Field) (qualification.Extraction, error) {
	if c == nil {
		return qualification.Extraction{}, nil
	}

	reqBody := extractRequest{Text: text}
	for _, f := range knownMissing {
		reqBody.KnownMissing = append(reqBody.KnownMissing, string(f))
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return qualification.Extraction{}, fmt.Errorf("marshal extract request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/extract", bytes.NewBuffer(body))
	if err != nil {
		return qualification.Extraction{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return qualification.Extraction{}, fmt.Errorf("extractor request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(resp.Body)
		return qualification.Extraction{}, fmt.Errorf("extractor returned %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	var p payload
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return qualification.Extraction{}, fmt.Errorf("decode extractor response: %w", err)
	}

	return normalize(p), nil
}

// normalize validates each guessed field against the domain rules. Invalid
// values become nil rather than errors: a bad guess is the same as no guess.
func normalize(p payload) qualification.Extraction {
	heightM, heightFt := qualification.NormalizeHeight(p.HeightM, p.HeightFt)

	ext := qualification.Extraction{
		Name:         qualification.NormalizeText(p.Name),
		HeightM:      heightM,
		HeightFt:     heightFt,
		LiftType:     qualification.NormalizeLiftType(p.LiftType),
		Activity:     qualification.NormalizeActivity(p.Activity),
		Terrain:      qualification.NormalizeTerrain(p.Terrain),
		City:         qualification.NormalizeText(p.City),
		DurationDays: qualification.NormalizeDuration(p.DurationDays),
		ContactEmail: qualification.NormalizeEmail(p.ContactEmail),
		Confidence:   p.Confidence,
	}

	for _, raw := range p.MissingFields {
		if f, ok := parseField(raw); ok {
			ext.MissingFields = append(ext.MissingFields, f)
		}
	}
	return ext
}

func parseField(raw string) (qualification.Field, bool) {
	switch qualification.Field(strings.TrimSpace(raw)) {
	case qualification.FieldName:
		return qualification.FieldName, true
	case qualification.FieldHeight:
		return qualification.FieldHeight, true
	case qualification.FieldLiftType:
		return qualification.FieldLiftType, true
	case qualification.FieldActivity:
		return qualification.FieldActivity, true
	case qualification.FieldTerrain:
		return qualification.FieldTerrain, true
	case qualification.FieldCity:
		return qualification.FieldCity, true
	case qualification.FieldDurationDays:
		return qualification.FieldDurationDays, true
	case qualification.FieldContactEmail:
		return qualification.FieldContactEmail, true
	}
	return "", false
}
