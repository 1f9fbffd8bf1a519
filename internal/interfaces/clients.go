package interfaces

import (
	"context"

	"github.com/whoisarjen/investo/internal/models"
)

// QuoteClient retrieves price snapshots from a market data provider.
type QuoteClient interface {
	// GetQuote retrieves the current quote for one symbol. Symbols must be
	// 1-10 uppercase alphanumeric characters; invalid symbols are rejected
	// before any request is made.
	GetQuote(ctx context.Context, symbol string) (*models.Quote, error)
}
