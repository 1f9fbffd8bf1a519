package metrics

import (
	"sort"
	"time"

	"github.com/whoisarjen/investo/internal/models"
)

// ComputePortfolioMetrics derives the full portfolio view from the stored
// purchases and a quote map. Only symbols with a resolved quote participate
// in holdings and current value.
//
// TotalInvested sums the cost of every purchase, quoted or not, while
// TotalCurrentValue covers quoted symbols only. The asymmetry matches the
// stored document semantics and is surfaced through UnquotedSymbols.
func ComputePortfolioMetrics(pf *models.Portfolio, quotes map[string]models.Quote, now time.Time) *models.PortfolioMetrics {
	result := &models.PortfolioMetrics{
		Holdings:    []models.ETFHoldingMetrics{},
		LastUpdated: now,
	}

	if len(pf.Purchases) == 0 {
		return result
	}

	// Group purchases by normalized symbol, preserving first-appearance order
	// so equal-value holdings keep a deterministic relative order.
	groups := make(map[string][]models.Purchase)
	var order []string
	for i := range pf.Purchases {
		symbol := models.NormalizeSymbol(pf.Purchases[i].ETFSymbol)
		if _, seen := groups[symbol]; !seen {
			order = append(order, symbol)
		}
		groups[symbol] = append(groups[symbol], pf.Purchases[i])
	}

	// First pass: total current value across quoted symbols.
	var totalCurrentValue float64
	for _, symbol := range order {
		quote, ok := quotes[symbol]
		if !ok {
			result.UnquotedSymbols++
			continue
		}
		var shares float64
		for i := range groups[symbol] {
			shares += groups[symbol][i].Shares
		}
		totalCurrentValue += shares * quote.CurrentPrice
	}

	// Second pass: per-symbol holdings weighted against the total.
	for _, symbol := range order {
		quote, ok := quotes[symbol]
		if !ok {
			continue
		}
		name := symbol
		if entry, ok := pf.ETFCache[symbol]; ok && entry.Name != "" {
			name = entry.Name
		}
		holding := ComputeHoldingMetrics(symbol, name, groups[symbol], quote.CurrentPrice, totalCurrentValue, now)
		result.Holdings = append(result.Holdings, holding)
	}

	// Largest positions first; ties keep input order.
	sort.SliceStable(result.Holdings, func(i, j int) bool {
		return result.Holdings[i].CurrentValue > result.Holdings[j].CurrentValue
	})

	var totalInvested float64
	for i := range pf.Purchases {
		totalInvested += pf.Purchases[i].TotalCost
	}

	result.TotalCurrentValue = totalCurrentValue
	result.TotalInvested = totalInvested
	result.TotalGainLoss = GainLoss(totalInvested, totalCurrentValue)
	result.TotalGainLossPercent = GainLossPercent(totalInvested, totalCurrentValue)

	ytd := ComputeYTDPerformance(pf.Purchases, quotes, now)
	result.YTDGainLoss = ytd.GainLoss
	result.YTDGainLossPercent = ytd.GainLossPercent

	return result
}
