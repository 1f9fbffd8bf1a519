package models

import (
	"testing"
	"time"

	"github.com/whoisarjen/investo/internal/common"
)

var modelNow = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

func TestNormalizeSymbol(t *testing.T) {
	if got := NormalizeSymbol("  voo "); got != "VOO" {
		t.Errorf("NormalizeSymbol = %q, want VOO", got)
	}
}

func TestValidateSymbol(t *testing.T) {
	valid := []string{"VOO", "qqq", "SPY5", "A"}
	for _, s := range valid {
		if err := ValidateSymbol(s); err != nil {
			t.Errorf("ValidateSymbol(%q) = %v, want nil", s, err)
		}
	}

	invalid := []string{"", "TOOLONGSYMBOL", "BRK.B", "VOO US"}
	for _, s := range invalid {
		if err := ValidateSymbol(s); err == nil {
			t.Errorf("ValidateSymbol(%q) = nil, want error", s)
		}
	}
}

func TestNewPurchaseComputesTotalCost(t *testing.T) {
	p := NewPurchase("voo", "2025-01-15", 10, 100, 5, "", modelNow)

	if p.ID == "" {
		t.Error("expected generated id")
	}
	if p.ETFSymbol != "VOO" {
		t.Errorf("ETFSymbol = %q, want VOO", p.ETFSymbol)
	}
	if p.TotalCost != 1005 {
		t.Errorf("TotalCost = %.2f, want 1005", p.TotalCost)
	}
}

func TestRecalculateTotalCostRestoresInvariant(t *testing.T) {
	p := NewPurchase("VOO", "2025-01-15", 10, 100, 5, "", modelNow)

	// A caller-tampered total cost must not survive a recompute.
	p.TotalCost = 99999
	p.Shares = 20
	p.RecalculateTotalCost()

	if p.TotalCost != 2005 {
		t.Errorf("TotalCost = %.2f, want 2005", p.TotalCost)
	}
}

func TestPurchaseValidate(t *testing.T) {
	valid := NewPurchase("VOO", "2025-01-15", 10, 100, 0, "", modelNow)
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid purchase rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Purchase)
	}{
		{"missing id", func(p *Purchase) { p.ID = "" }},
		{"bad symbol", func(p *Purchase) { p.ETFSymbol = "NOT A SYMBOL" }},
		{"bad date", func(p *Purchase) { p.PurchaseDate = "15/01/2025" }},
		{"zero shares", func(p *Purchase) { p.Shares = 0 }},
		{"negative shares", func(p *Purchase) { p.Shares = -1 }},
		{"zero price", func(p *Purchase) { p.PricePerShare = 0 }},
		{"negative fees", func(p *Purchase) { p.Fees = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := *valid
			tt.mutate(&p)
			err := p.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !common.IsValidationError(err) {
				t.Errorf("error type = %T, want ValidationError", err)
			}
		})
	}
}

func TestPortfolioSymbolsFirstAppearanceOrder(t *testing.T) {
	pf := NewPortfolio("Test", modelNow)
	pf.Purchases = []Purchase{
		{ETFSymbol: "QQQ"},
		{ETFSymbol: "voo"},
		{ETFSymbol: "QQQ"},
		{ETFSymbol: "VOO"},
		{ETFSymbol: "SPY"},
	}

	got := pf.Symbols()
	want := []string{"QQQ", "VOO", "SPY"}
	if len(got) != len(want) {
		t.Fatalf("Symbols() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Symbols()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestFindPurchase(t *testing.T) {
	pf := NewPortfolio("Test", modelNow)
	pf.Purchases = []Purchase{{ID: "a"}, {ID: "b"}}

	if idx := pf.FindPurchase("b"); idx != 1 {
		t.Errorf("FindPurchase(b) = %d, want 1", idx)
	}
	if idx := pf.FindPurchase("zzz"); idx != -1 {
		t.Errorf("FindPurchase(zzz) = %d, want -1", idx)
	}
}

func TestDeriveYTDStartPrice(t *testing.T) {
	if got := DeriveYTDStartPrice(105, 5); got < 99.99 || got > 100.01 {
		t.Errorf("DeriveYTDStartPrice(105, 5) = %.4f, want 100", got)
	}
	// Zero change: no YTD data, fall back to current price.
	if got := DeriveYTDStartPrice(105, 0); got != 105 {
		t.Errorf("DeriveYTDStartPrice(105, 0) = %.4f, want 105", got)
	}
	// -100% would divide by zero.
	if got := DeriveYTDStartPrice(105, -100); got != 105 {
		t.Errorf("DeriveYTDStartPrice(105, -100) = %.4f, want 105", got)
	}
}
