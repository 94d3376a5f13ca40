package common

import "time"

// Freshness TTLs for cached provider data. Each adapter category has one TTL;
// an entry older than its TTL is re-fetched on access.
//
// Quotes move intraday and get the shortest window. Time series, news, and
// exchange rates are daily facts. Symbol search results almost never change.
const (
	FreshnessQuote        = 1 * time.Hour
	FreshnessDailySeries  = 24 * time.Hour
	FreshnessNews         = 24 * time.Hour
	FreshnessRates        = 24 * time.Hour
	FreshnessSymbolSearch = 7 * 24 * time.Hour
)

// IsFresh returns true if the given timestamp is within the TTL
func IsFresh(updated time.Time, ttl time.Duration) bool {
	if updated.IsZero() {
		return false
	}
	return time.Since(updated) < ttl
}
