package service

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/uuid"

	"rental_leads_backend/internal/qualification"
)

func TestTransportFee(t *testing.T) {
	tests := []struct {
		name      string
		requested int64
		tableFlat int64
		want      int64
	}{
		{"override honored", 900, 600, 900},
		{"zero falls back to table", 0, 600, 600},
		{"negative falls back to table", -1, 600, 600},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := transportFee(tt.requested, tt.tableFlat); got != tt.want {
				t.Errorf("transportFee(%d, %d) = %d, want %d", tt.requested, tt.tableFlat, got, tt.want)
			}
		})
	}
}

func TestSnapshotQualification(t *testing.T) {
	if got := snapshotQualification(nil); got != nil {
		t.Fatalf("snapshot of nil record = %s, want nil", got)
	}

	city := "Monterrey"
	days := 5
	heightM := 12.0
	record := &qualification.Qualification{
		LeadID:       uuid.New(),
		CompanyID:    uuid.New(),
		HeightM:      &heightM,
		City:         &city,
		DurationDays: &days,
	}

	data := snapshotQualification(record)
	if len(data) == 0 {
		t.Fatal("snapshot of a populated record is empty")
	}
	if !strings.Contains(string(data), `"durationDays":5`) {
		t.Errorf("snapshot missing duration: %s", data)
	}

	var restored qualification.Qualification
	if err := json.Unmarshal(data, &restored); err != nil {
		t.Fatalf("snapshot does not round-trip: %v", err)
	}
	if restored.City == nil || *restored.City != city {
		t.Errorf("restored city = %v, want %q", restored.City, city)
	}
	if restored.HeightM == nil || *restored.HeightM != heightM {
		t.Errorf("restored height = %v, want %v", restored.HeightM, heightM)
	}
	if restored.LiftType != nil {
		t.Errorf("restored liftType = %v, want nil", restored.LiftType)
	}
}
