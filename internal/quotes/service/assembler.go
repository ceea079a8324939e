// Package service implements quote drafting: assembling pricing options
// into labeled quote lines and committing the draft.
package service

import (
	"fmt"

	"rental_leads_backend/internal/pricing"
	"rental_leads_backend/internal/quotes/repository"
)

// AssembleLines maps the engine's options, in the order it produced them,
// to labeled quote lines. The requested duration is the primary line; the
// 7 and 30 day references carry the fixed week/month labels and any other
// reference is labeled by its day count.
func AssembleLines(result pricing.Result) []repository.QuoteLine {
	cheapest := pricing.CheapestPerDayIndex(result.Options)

	lines := make([]repository.QuoteLine, 0, len(result.Options))
	for i, opt := range result.Options {
		primary := opt.DurationDays == result.Primary.DurationDays
		lines = append(lines, repository.QuoteLine{
			Position:     i,
			Label:        lineLabel(opt.DurationDays, primary),
			DurationDays: opt.DurationDays,
			RentalBase:   opt.RentalBase,
			Transport:    opt.Transport,
			Subtotal:     opt.Subtotal,
			VAT:          opt.VAT,
			Total:        opt.Total,
			PerDayCost:   opt.PerDayCost,
			IsPrimary:    primary,
			IsCheapest:   i == cheapest,
		})
	}
	return lines
}

func lineLabel(days int, primary bool) string {
	if primary {
		if days == 1 {
			return "Renta solicitada (1 día)"
		}
		return fmt.Sprintf("Renta solicitada (%d días)", days)
	}
	switch days {
	case 7:
		return "Semana (7 días)"
	case 30:
		return "Mes (30 días)"
	case 1:
		return "1 día"
	default:
		return fmt.Sprintf("%d días", days)
	}
}
