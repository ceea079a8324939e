package events

import (
	"testing"
	"time"
)

var (
	_ Event = LeadCreated{}
	_ Event = LeadQualified{}
	_ Event = QuoteDrafted{}
)

func TestEventNamesAreUnique(t *testing.T) {
	names := map[string]bool{
		LeadCreated{}.EventName():   true,
		LeadQualified{}.EventName(): true,
		QuoteDrafted{}.EventName():  true,
	}
	if len(names) != 3 {
		t.Fatalf("event names collide: %v", names)
	}
}

func TestOccurredAtReflectsDomainTimestamp(t *testing.T) {
	ts := time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)

	tests := []struct {
		name  string
		event Event
	}{
		{"lead created", LeadCreated{CreatedAt: ts}},
		{"lead qualified", LeadQualified{QualifiedAt: ts}},
		{"quote drafted", QuoteDrafted{DraftedAt: ts}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.event.OccurredAt(); !got.Equal(ts) {
				t.Errorf("OccurredAt() = %v, want %v", got, ts)
			}
		})
	}
}
