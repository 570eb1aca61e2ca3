// Package common provides shared utilities for stockdeck
package common

import "time"

// IsFresh returns true if the given timestamp is within the TTL
func IsFresh(updated time.Time, ttl time.Duration) bool {
	if updated.IsZero() {
		return false
	}
	return time.Since(updated) < ttl
}

// IsStale is the inverse of IsFresh: true when a cached resource is
// older than the configured cache timeout, or was never loaded.
func IsStale(updated time.Time, ttl time.Duration) bool {
	return !IsFresh(updated, ttl)
}
