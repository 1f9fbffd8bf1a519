package models

import "time"

// PurchaseMetrics is the per-transaction performance projection.
// Derived on demand — never persisted.
type PurchaseMetrics struct {
	PurchaseID        string  `json:"purchaseId"`
	ETFSymbol         string  `json:"etfSymbol"`
	Shares            float64 `json:"shares"`
	CostBasis         float64 `json:"costBasis"`
	CurrentValue      float64 `json:"currentValue"`
	GainLoss          float64 `json:"gainLoss"`
	GainLossPercent   float64 `json:"gainLossPercent"`
	HoldingPeriodDays int     `json:"holdingPeriodDays"`
	AnnualizedReturn  float64 `json:"annualizedReturn"`
}

// ETFHoldingMetrics aggregates all purchases of one symbol into a holding.
type ETFHoldingMetrics struct {
	ETFSymbol           string            `json:"etfSymbol"`
	Name                string            `json:"name"`
	TotalShares         float64           `json:"totalShares"`
	AverageCostPerShare float64           `json:"averageCostPerShare"`
	TotalCostBasis      float64           `json:"totalCostBasis"`
	CurrentPrice        float64           `json:"currentPrice"`
	CurrentValue        float64           `json:"currentValue"`
	GainLoss            float64           `json:"gainLoss"`
	GainLossPercent     float64           `json:"gainLossPercent"`
	WeightInPortfolio   float64           `json:"weightInPortfolio"`
	Purchases           []PurchaseMetrics `json:"purchases"`
}

// PortfolioMetrics is the portfolio-level performance view.
//
// TotalInvested covers every purchase while TotalCurrentValue covers only
// symbols with a resolved quote. The asymmetry is kept for compatibility
// with the stored wire format; UnquotedSymbols makes it visible to callers.
type PortfolioMetrics struct {
	TotalCurrentValue    float64             `json:"totalCurrentValue"`
	TotalInvested        float64             `json:"totalInvested"`
	TotalGainLoss        float64             `json:"totalGainLoss"`
	TotalGainLossPercent float64             `json:"totalGainLossPercent"`
	YTDGainLoss          float64             `json:"ytdGainLoss"`
	YTDGainLossPercent   float64             `json:"ytdGainLossPercent"`
	Holdings             []ETFHoldingMetrics `json:"holdings"`
	UnquotedSymbols      int                 `json:"unquotedSymbols,omitempty"`
	LastUpdated          time.Time           `json:"lastUpdated"`
}

// YTDPerformance is the two-regime year-to-date decomposition.
type YTDPerformance struct {
	ValueAtYearStart       float64 `json:"valueAtYearStart"`
	NewInvestmentsThisYear float64 `json:"newInvestmentsThisYear"`
	GainLoss               float64 `json:"gainLoss"`
	GainLossPercent        float64 `json:"gainLossPercent"`
}
