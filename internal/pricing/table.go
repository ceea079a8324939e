// Package pricing implements the tiered pricing engine: a pure mapping from
// (duration, equipment, transport, VAT) to a deterministic set of comparable
// price options.
package pricing

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Tier is one contiguous day-count range mapped to a per-day rate.
// ToDay == 0 means the range is open-ended.
type Tier struct {
	FromDay   int   `yaml:"fromDay"`
	ToDay     int   `yaml:"toDay"`
	DailyRate int64 `yaml:"dailyRate"`
}

// Bundle is an exact-day-count fixed price that overrides the tiered formula.
type Bundle struct {
	Days   int   `yaml:"days"`
	Amount int64 `yaml:"amount"`
}

// RateTable is the configurable pricing input: tier boundaries, fixed
// bundles, supported equipment, transport and VAT. Amounts are whole
// currency units (MXN).
type RateTable struct {
	Currency         string   `yaml:"currency"`
	VATRate          float64  `yaml:"vatRate"`
	Models           []string `yaml:"models"`
	Tiers            []Tier   `yaml:"tiers"`
	Bundles          []Bundle `yaml:"bundles"`
	TransportFlat    int64    `yaml:"transportFlat"`
	ReferenceAnchors []int    `yaml:"referenceAnchors"`
}

// DefaultRateTable returns the table shipped with the application: the
// 45 ft articulated lift with day ranges 1-3 / 4-7 / 8-14 / 15-21 / 22+ and
// week/month bundles.
func DefaultRateTable() RateTable {
	return RateTable{
		Currency: "MXN",
		VATRate:  0.16,
		Models:   []string{"45FT"},
		Tiers: []Tier{
			{FromDay: 1, ToDay: 3, DailyRate: 2500},
			{FromDay: 4, ToDay: 7, DailyRate: 2200},
			{FromDay: 8, ToDay: 14, DailyRate: 1900},
			{FromDay: 15, ToDay: 21, DailyRate: 1700},
			{FromDay: 22, ToDay: 0, DailyRate: 1500},
		},
		Bundles: []Bundle{
			{Days: 7, Amount: 13900},
			{Days: 30, Amount: 39500},
		},
		TransportFlat:    600,
		ReferenceAnchors: []int{7, 30},
	}
}

// LoadRateTable reads a rate table from a YAML file and validates it.
// An empty path yields the default table.
func LoadRateTable(path string) (RateTable, error) {
	if path == "" {
		return DefaultRateTable(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return RateTable{}, fmt.Errorf("read rate table: %w", err)
	}

	table := DefaultRateTable()
	if err := yaml.Unmarshal(data, &table); err != nil {
		return RateTable{}, fmt.Errorf("parse rate table: %w", err)
	}
	if err := table.Validate(); err != nil {
		return RateTable{}, err
	}
	return table, nil
}

// Validate checks the structural invariants of the table: contiguous tier
// ranges starting at day 1, exactly one open-ended final tier, and strictly
// decreasing rates as the ranges advance.
func (t RateTable) Validate() error {
	if len(t.Models) == 0 {
		return fmt.Errorf("rate table: at least one equipment model is required")
	}
	if t.VATRate < 0 || t.VATRate >= 1 {
		return fmt.Errorf("rate table: vatRate %v out of range", t.VATRate)
	}
	if len(t.Tiers) == 0 {
		return fmt.Errorf("rate table: at least one tier is required")
	}

	tiers := make([]Tier, len(t.Tiers))
	copy(tiers, t.Tiers)
	sort.Slice(tiers, func(i, j int) bool { return tiers[i].FromDay < tiers[j].FromDay })

	if tiers[0].FromDay != 1 {
		return fmt.Errorf("rate table: first tier must start at day 1")
	}
	for i, tier := range tiers {
		last := i == len(tiers)-1
		if tier.DailyRate <= 0 {
			return fmt.Errorf("rate table: tier %d has non-positive rate", i)
		}
		if last {
			if tier.ToDay != 0 {
				return fmt.Errorf("rate table: final tier must be open-ended")
			}
		} else {
			if tier.ToDay < tier.FromDay {
				return fmt.Errorf("rate table: tier %d range inverted", i)
			}
			if tiers[i+1].FromDay != tier.ToDay+1 {
				return fmt.Errorf("rate table: gap between day %d and %d", tier.ToDay, tiers[i+1].FromDay)
			}
			if tiers[i+1].DailyRate >= tier.DailyRate {
				return fmt.Errorf("rate table: rates must strictly decrease after day %d", tier.ToDay)
			}
		}
	}

	for _, bundle := range t.Bundles {
		if bundle.Days <= 0 || bundle.Amount <= 0 {
			return fmt.Errorf("rate table: bundle at %d days is invalid", bundle.Days)
		}
	}
	return nil
}

// SupportsModel reports whether the equipment model is in the supported set.
func (t RateTable) SupportsModel(model string) bool {
	for _, m := range t.Models {
		if m == model {
			return true
		}
	}
	return false
}

// DefaultModel returns the first supported SKU.
func (t RateTable) DefaultModel() string {
	return t.Models[0]
}

func (t RateTable) bundleFor(days int) (int64, bool) {
	for _, bundle := range t.Bundles {
		if bundle.Days == days {
			return bundle.Amount, true
		}
	}
	return 0, false
}

func (t RateTable) rateFor(days int) int64 {
	var open int64
	for _, tier := range t.Tiers {
		if tier.ToDay == 0 {
			if days >= tier.FromDay {
				open = tier.DailyRate
			}
			continue
		}
		if days >= tier.FromDay && days <= tier.ToDay {
			return tier.DailyRate
		}
	}
	return open
}
