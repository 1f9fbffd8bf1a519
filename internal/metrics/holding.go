package metrics

import (
	"time"

	"github.com/whoisarjen/investo/internal/models"
)

// ComputeHoldingMetrics combines all purchases of one symbol into a holding.
// Live code paths never pass an empty purchase list; the all-zero fallback
// exists so a degenerate call cannot divide by zero.
//
// Per-purchase metrics keep the insertion order of the underlying purchases.
func ComputeHoldingMetrics(symbol, name string, purchases []models.Purchase, currentPrice, totalPortfolioValue float64, now time.Time) models.ETFHoldingMetrics {
	if len(purchases) == 0 {
		return models.ETFHoldingMetrics{Purchases: []models.PurchaseMetrics{}}
	}

	var totalShares, totalCostBasis float64
	purchaseMetrics := make([]models.PurchaseMetrics, 0, len(purchases))
	for i := range purchases {
		totalShares += purchases[i].Shares
		totalCostBasis += purchases[i].TotalCost
		purchaseMetrics = append(purchaseMetrics, ComputePurchaseMetrics(purchases[i], currentPrice, now))
	}

	currentValue := totalShares * currentPrice

	return models.ETFHoldingMetrics{
		ETFSymbol:           models.NormalizeSymbol(symbol),
		Name:                name,
		TotalShares:         totalShares,
		AverageCostPerShare: WeightedAverageCost(purchases),
		TotalCostBasis:      totalCostBasis,
		CurrentPrice:        currentPrice,
		CurrentValue:        currentValue,
		GainLoss:            GainLoss(totalCostBasis, currentValue),
		GainLossPercent:     GainLossPercent(totalCostBasis, currentValue),
		WeightInPortfolio:   PortfolioWeight(currentValue, totalPortfolioValue),
		Purchases:           purchaseMetrics,
	}
}
