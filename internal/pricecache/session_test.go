package pricecache

import (
	"testing"
	"time"
)

// eastern builds an instant in US Eastern time. 2025-06-11 is a Wednesday.
func eastern(t *testing.T, day, hour, min int) time.Time {
	t.Helper()
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skip("tzdata unavailable")
	}
	return time.Date(2025, 6, day, hour, min, 0, 0, loc)
}

func TestSessionAtBoundaries(t *testing.T) {
	tests := []struct {
		name string
		at   time.Time
		want MarketSession
	}{
		{"weekday before open", eastern(t, 11, 9, 29), SessionAfterHours},
		{"weekday at open", eastern(t, 11, 9, 30), SessionMarketHours},
		{"weekday midday", eastern(t, 11, 12, 0), SessionMarketHours},
		{"weekday last minute", eastern(t, 11, 15, 59), SessionMarketHours},
		{"weekday at close", eastern(t, 11, 16, 0), SessionAfterHours},
		{"weekday late evening", eastern(t, 11, 23, 30), SessionAfterHours},
		{"weekday early morning", eastern(t, 11, 3, 0), SessionAfterHours},
		{"saturday", eastern(t, 14, 12, 0), SessionClosed},
		{"sunday", eastern(t, 15, 12, 0), SessionClosed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SessionAt(tt.at); got != tt.want {
				t.Errorf("SessionAt(%v) = %v, want %v", tt.at, got, tt.want)
			}
		})
	}
}

func TestSessionAtConvertsTimezone(t *testing.T) {
	// 18:00 UTC on a June Wednesday is 14:00 Eastern (EDT): market hours.
	at := time.Date(2025, 6, 11, 18, 0, 0, 0, time.UTC)
	if got := SessionAt(at); got != SessionMarketHours {
		t.Errorf("SessionAt(18:00 UTC) = %v, want market_hours", got)
	}
}

func TestTTLFor(t *testing.T) {
	if got := TTLFor(SessionMarketHours); got != 5*time.Minute {
		t.Errorf("market hours TTL = %v, want 5m", got)
	}
	if got := TTLFor(SessionAfterHours); got != 30*time.Minute {
		t.Errorf("after hours TTL = %v, want 30m", got)
	}
	if got := TTLFor(SessionClosed); got != 60*time.Minute {
		t.Errorf("closed TTL = %v, want 60m", got)
	}
}

func TestTTLAt(t *testing.T) {
	if got := TTLAt(eastern(t, 11, 12, 0)); got != TTLMarketHours {
		t.Errorf("midday TTL = %v, want %v", got, TTLMarketHours)
	}
	if got := TTLAt(eastern(t, 14, 12, 0)); got != TTLClosed {
		t.Errorf("weekend TTL = %v, want %v", got, TTLClosed)
	}
}
