// Package pricecache governs when cached ETF prices are fresh versus stale
// relative to a market-hours-aware TTL policy.
package pricecache

import "time"

// MarketSession is the market state that selects the cache TTL.
type MarketSession string

const (
	SessionMarketHours MarketSession = "market_hours"
	SessionAfterHours  MarketSession = "after_hours"
	SessionClosed      MarketSession = "closed"
)

// Cache TTLs per market session.
const (
	TTLMarketHours = 5 * time.Minute
	TTLAfterHours  = 30 * time.Minute
	TTLClosed      = 60 * time.Minute

	// DefaultPruneMaxAge removes entries regardless of session TTL.
	DefaultPruneMaxAge = 24 * time.Hour
)

// easternLocation is the US Eastern timezone, which handles EST/EDT
// transitions automatically.
var easternLocation = mustLoadLocation("America/New_York")

func mustLoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		// Fixed EST zone if tzdata is unavailable (e.g. minimal container)
		return time.FixedZone("EST", -5*60*60)
	}
	return loc
}

// SessionAt determines the market session for the given instant.
// Weekdays 09:30-16:00 US Eastern are market hours, weekdays otherwise are
// after hours, weekends are closed. No holiday calendar: holidays fall
// through to after-hours, which only shortens the TTL.
func SessionAt(t time.Time) MarketSession {
	eastern := t.In(easternLocation)
	weekday := eastern.Weekday()
	if weekday == time.Saturday || weekday == time.Sunday {
		return SessionClosed
	}

	hour, min, _ := eastern.Clock()
	minuteOfDay := hour*60 + min
	// 09:30 = 570, 16:00 = 960 (exclusive)
	if minuteOfDay >= 570 && minuteOfDay < 960 {
		return SessionMarketHours
	}
	return SessionAfterHours
}

// TTLFor returns the cache TTL for a market session.
func TTLFor(session MarketSession) time.Duration {
	switch session {
	case SessionMarketHours:
		return TTLMarketHours
	case SessionAfterHours:
		return TTLAfterHours
	default:
		return TTLClosed
	}
}

// TTLAt returns the cache TTL in effect at the given instant.
func TTLAt(t time.Time) time.Duration {
	return TTLFor(SessionAt(t))
}
