package metrics

import (
	"time"

	"github.com/whoisarjen/investo/internal/models"
)

// ComputePurchaseMetrics projects one purchase against the current price.
// now is injected so the engine stays deterministic under test.
func ComputePurchaseMetrics(p models.Purchase, currentPrice float64, now time.Time) models.PurchaseMetrics {
	costBasis := p.TotalCost
	currentValue := p.Shares * currentPrice
	days := holdingPeriodDays(p, now)

	return models.PurchaseMetrics{
		PurchaseID:        p.ID,
		ETFSymbol:         models.NormalizeSymbol(p.ETFSymbol),
		Shares:            p.Shares,
		CostBasis:         costBasis,
		CurrentValue:      currentValue,
		GainLoss:          GainLoss(costBasis, currentValue),
		GainLossPercent:   GainLossPercent(costBasis, currentValue),
		HoldingPeriodDays: days,
		AnnualizedReturn:  AnnualizedReturn(costBasis, currentValue, days),
	}
}

// holdingPeriodDays returns whole calendar days held, truncated. A purchase
// dated today yields 0, which short-circuits the annualized return.
func holdingPeriodDays(p models.Purchase, now time.Time) int {
	purchased, err := p.ParsedDate()
	if err != nil {
		return 0
	}
	elapsed := now.Sub(purchased)
	if elapsed < 0 {
		return 0
	}
	return int(elapsed.Hours() / 24)
}
