// Package metrics implements the portfolio performance calculation engine.
// All functions are pure: inputs in, metrics out, no clock reads and no
// shared state.
package metrics

import (
	"math"

	"github.com/whoisarjen/investo/internal/models"
)

// GainLoss returns the absolute gain or loss of a position.
func GainLoss(costBasis, currentValue float64) float64 {
	return currentValue - costBasis
}

// GainLossPercent returns the gain/loss as a percentage of cost basis.
// A zero cost basis yields 0 rather than propagating a division by zero.
func GainLossPercent(costBasis, currentValue float64) float64 {
	if costBasis == 0 {
		return 0
	}
	return (currentValue - costBasis) / costBasis * 100
}

// WeightedAverageCost returns total cost divided by total shares across the
// given purchases. Empty input or zero total shares yields 0.
func WeightedAverageCost(purchases []models.Purchase) float64 {
	var totalCost, totalShares float64
	for i := range purchases {
		totalCost += purchases[i].TotalCost
		totalShares += purchases[i].Shares
	}
	if totalShares == 0 {
		return 0
	}
	return totalCost / totalShares
}

// AnnualizedReturn returns the CAGR over the holding period as a percentage.
// Edge policy: startValue <= 0 or days <= 0 yields 0; endValue <= 0 yields
// -100 (total-loss floor). Non-finite results from extreme exponents
// resolve to 0.
func AnnualizedReturn(startValue, endValue float64, days int) float64 {
	if startValue <= 0 || days <= 0 {
		return 0
	}
	if endValue <= 0 {
		return -100
	}

	cagr := math.Pow(endValue/startValue, 365/float64(days)) - 1
	pct := cagr * 100
	if math.IsNaN(pct) || math.IsInf(pct, 0) {
		return 0
	}
	return pct
}

// PortfolioWeight returns the holding's share of total portfolio value as a
// percentage. A zero total yields 0.
func PortfolioWeight(holdingValue, totalValue float64) float64 {
	if totalValue == 0 {
		return 0
	}
	return holdingValue / totalValue * 100
}
