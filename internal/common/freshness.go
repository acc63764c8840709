// Package common provides shared utilities for Kabu
package common

import "time"

// Freshness TTLs for data components
const (
	FreshnessQuote   = 15 * time.Minute // live quotes re-polled on scheduler cadence
	FreshnessSignals = 1 * time.Hour    // daily bars only move once per session
)

// IsFresh returns true if the given timestamp is within the TTL
func IsFresh(updated time.Time, ttl time.Duration) bool {
	if updated.IsZero() {
		return false
	}
	return time.Since(updated) < ttl
}
