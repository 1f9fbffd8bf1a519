package metrics

import (
	"time"

	"github.com/whoisarjen/investo/internal/models"
)

// ComputeYTDPerformance decomposes year-to-date return into two regimes.
// Positions held since before January 1 are measured against their implied
// value at the start of the year; positions bought this year are measured
// against their cost. Cost basis is not a meaningful YTD reference for
// pre-existing holdings, hence the split.
//
// Symbols without a quote are skipped entirely: their purchases contribute
// neither gain/loss nor percentage base. That understates totals whenever a
// quote is missing; callers surface the gap via the refresh report.
func ComputeYTDPerformance(purchases []models.Purchase, quotes map[string]models.Quote, now time.Time) models.YTDPerformance {
	yearStart := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())

	var valueAtYearStart, newInvestments, gainLoss float64

	for i := range purchases {
		p := &purchases[i]
		quote, ok := quotes[models.NormalizeSymbol(p.ETFSymbol)]
		if !ok {
			continue
		}

		purchased, err := p.ParsedDate()
		if err != nil {
			continue
		}

		ytdStartPrice := quote.YTDStartPrice()
		currentValue := p.Shares * quote.CurrentPrice

		if purchased.Before(yearStart) {
			startValue := p.Shares * ytdStartPrice
			valueAtYearStart += startValue
			gainLoss += currentValue - startValue
		} else {
			newInvestments += p.TotalCost
			gainLoss += currentValue - p.TotalCost
		}
	}

	perf := models.YTDPerformance{
		ValueAtYearStart:       valueAtYearStart,
		NewInvestmentsThisYear: newInvestments,
		GainLoss:               gainLoss,
	}

	base := valueAtYearStart + newInvestments
	if base > 0 {
		perf.GainLossPercent = gainLoss / base * 100
	}

	return perf
}
