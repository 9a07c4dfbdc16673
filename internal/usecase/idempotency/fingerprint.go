package idempotency

import (
	"strings"

	"github.com/google/uuid"
)

// Fingerprint joins the logical request fields, e.g. "cart1|Card|100.00|SEK".
func Fingerprint(parts ...string) string {
	return strings.Join(parts, "|")
}

// CallerScope namespaces scope by caller, so two callers presenting the same key
// never share a lock or a cached response.
func CallerScope(scope string, caller uuid.UUID) string {
	return scope + ":" + caller.String()
}
