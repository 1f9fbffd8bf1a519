package models

// PurchaseRequest carries the caller-settable purchase fields for add and
// edit operations. TotalCost is never settable; it is recomputed from
// shares, price, and fees on every write.
type PurchaseRequest struct {
	ETFSymbol     string  `json:"etfSymbol"`
	PurchaseDate  string  `json:"purchaseDate"` // YYYY-MM-DD
	Shares        float64 `json:"shares"`
	PricePerShare float64 `json:"pricePerShare"`
	Fees          float64 `json:"fees"`
	Notes         string  `json:"notes,omitempty"`
}
