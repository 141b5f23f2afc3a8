package validation

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// strict policy: proposal text is stored and re-served as plain text.
var textPolicy = bluemonday.StrictPolicy()

// SanitizeText strips any markup from user-supplied free text (title,
// description) before it is persisted.
func SanitizeText(s string) string {
	return strings.TrimSpace(textPolicy.Sanitize(s))
}

// IsValidQuorumBps reports whether bps is within 0..10000 (100%).
func IsValidQuorumBps(bps int64) bool {
	return bps >= 0 && bps <= 10000
}

// IsValidAmount reports whether an amount is strictly positive.
func IsValidAmount(amount int64) bool {
	return amount > 0
}

// IsValidAddress performs a shallow holder-address check: non-empty, no
// whitespace. Key ownership is not verified here; callers are trusted to
// present their own address.
func IsValidAddress(addr string) bool {
	return addr != "" && !strings.ContainsAny(addr, " \t\r\n")
}
