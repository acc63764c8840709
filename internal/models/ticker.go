// Package models defines data structures for Kabu
package models

import "strings"

// DefaultExchangeSuffix is the Tokyo Stock Exchange suffix appended to bare
// local security codes (e.g. "7203" -> "7203.T").
const DefaultExchangeSuffix = ".T"

// NormalizeTicker canonicalizes a user-entered or stored symbol into its
// exchange-qualified form. Bare TSE codes — all digits ("7203") or digits
// with exactly one trailing letter, the post-2024 local code format
// ("285A") — get the default exchange suffix. Symbols that already carry a
// suffix separator, index symbols ("^N225"), and alphabetic foreign tickers
// ("AAPL") pass through unchanged. Unknown formats also pass through: the
// downstream price lookup reports staleness instead of this function erroring.
//
// NormalizeTicker is idempotent: NormalizeTicker(NormalizeTicker(x)) == NormalizeTicker(x).
func NormalizeTicker(raw string) string {
	s := strings.ToUpper(strings.TrimSpace(raw))
	if s == "" {
		return s
	}
	if strings.Contains(s, ".") {
		return s // already exchange-qualified
	}
	if strings.HasPrefix(s, "^") {
		return s // index symbol
	}
	if isLocalCode(s) {
		return s + DefaultExchangeSuffix
	}
	return s
}

// StripSuffix returns the symbol portion before the first exchange-suffix
// separator. Used for display and duplicate-insensitive search.
func StripSuffix(qualified string) string {
	if idx := strings.Index(qualified, "."); idx >= 0 {
		return qualified[:idx]
	}
	return qualified
}

// isLocalCode reports whether s is a bare TSE security code: all digits, or
// digits followed by exactly one letter.
func isLocalCode(s string) bool {
	if s == "" {
		return false
	}
	digits := 0
	for digits < len(s) && s[digits] >= '0' && s[digits] <= '9' {
		digits++
	}
	if digits == 0 {
		return false
	}
	rest := s[digits:]
	if rest == "" {
		return true
	}
	return len(rest) == 1 && rest[0] >= 'A' && rest[0] <= 'Z'
}
