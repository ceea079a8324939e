package pricing

import (
	"math"
	"sort"

	"rental_leads_backend/platform/apperr"
)

// Option is one priced alternative for a day count. Amounts are whole MXN.
type Option struct {
	DurationDays int   `json:"durationDays"`
	RentalBase   int64 `json:"rentalBase"`
	Transport    int64 `json:"transport"`
	Subtotal     int64 `json:"subtotal"`
	VAT          int64 `json:"vat"`
	Total        int64 `json:"total"`
	PerDayCost   int64 `json:"perDayCost"`
}

// Result carries the primary option for the requested duration plus up to
// two reference options at the anchor durations. Options preserves the
// presentation order [primary, references...].
type Result struct {
	Primary    Option   `json:"primary"`
	References []Option `json:"references"`
	Options    []Option `json:"options"`
}

// Engine computes quote options from a validated rate table.
type Engine struct {
	table RateTable
}

func NewEngine(table RateTable) *Engine {
	return &Engine{table: table}
}

func (e *Engine) Table() RateTable {
	return e.table
}

// ComputeOptions builds the priced options for a requested rental duration.
// Bad input (non-positive duration, unsupported model) is fatal to the call;
// the caller must not draft a quote from it.
func (e *Engine) ComputeOptions(durationDays int, model string, transport int64, vatRate float64) (Result, error) {
	const op = "pricing.ComputeOptions"

	if durationDays <= 0 {
		return Result{}, apperr.New(apperr.KindValidation, "duration must be a positive number of days").WithOp(op)
	}
	if !e.table.SupportsModel(model) {
		return Result{}, apperr.New(apperr.KindValidation, "unsupported equipment model: "+model).WithOp(op)
	}
	if vatRate < 0 {
		vatRate = e.table.VATRate
	}

	primary := e.buildOption(durationDays, transport, vatRate)

	references := make([]Option, 0, 2)
	seen := map[int]bool{durationDays: true}
	anchors := e.table.ReferenceAnchors
	if len(anchors) == 0 {
		anchors = []int{7, 30}
	}
	for _, anchor := range anchors {
		if len(references) == 2 {
			break
		}
		if seen[anchor] {
			continue
		}
		seen[anchor] = true
		references = append(references, e.buildOption(anchor, transport, vatRate))
	}
	// Fill with a single-day anchor when skipping left a gap.
	if len(references) < 2 && !seen[1] {
		references = append(references, e.buildOption(1, transport, vatRate))
	}
	sort.Slice(references, func(i, j int) bool {
		return references[i].DurationDays < references[j].DurationDays
	})

	options := make([]Option, 0, 1+len(references))
	options = append(options, primary)
	options = append(options, references...)

	return Result{Primary: primary, References: references, Options: options}, nil
}

// CheapestPerDayIndex returns the position of the option with the strictly
// lowest effective per-day cost. Earlier options win ties.
func CheapestPerDayIndex(options []Option) int {
	best := 0
	for i := 1; i < len(options); i++ {
		if options[i].PerDayCost < options[best].PerDayCost {
			best = i
		}
	}
	return best
}

func (e *Engine) buildOption(days int, transport int64, vatRate float64) Option {
	rental := e.rentalBase(days)
	subtotal := rental + transport
	vat := roundMXN(float64(subtotal) * vatRate)
	total := subtotal + vat

	return Option{
		DurationDays: days,
		RentalBase:   rental,
		Transport:    transport,
		Subtotal:     subtotal,
		VAT:          vat,
		Total:        total,
		PerDayCost:   roundMXN(float64(rental) / float64(days)),
	}
}

// rentalBase applies the exact-day bundle override first, then the tiered
// per-day rate.
func (e *Engine) rentalBase(days int) int64 {
	if amount, ok := e.table.bundleFor(days); ok {
		return amount
	}
	return roundMXN(float64(days) * float64(e.table.rateFor(days)))
}

// roundMXN rounds to the nearest whole unit, half away from zero.
func roundMXN(v float64) int64 {
	return int64(math.Round(v))
}
