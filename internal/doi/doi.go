// Package doi canonicalizes DOI strings into one comparable form.
package doi

import "strings"

// Resolver URL forms a DOI may arrive wrapped in. The dx. host is the
// legacy mirror that older records still carry.
var prefixes = []string{
	"https://doi.org/",
	"http://doi.org/",
	"https://dx.doi.org/",
	"http://dx.doi.org/",
	"doi:",
}

// Normalize strips any resolver URL or scheme prefix from a raw DOI
// string and trims surrounding whitespace, returning the bare
// identifier. Empty input yields empty output. Normalize is idempotent:
// re-normalizing an already-normalized value returns it unchanged.
//
// Comparison of normalized values is plain string equality; no case
// folding is applied, so callers needing case-insensitive DOI matching
// must fold case themselves.
func Normalize(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	for _, p := range prefixes {
		if rest, ok := cutPrefixFold(s, p); ok {
			return strings.TrimSpace(rest)
		}
	}
	return s
}

// URL returns the canonical resolver URL for a normalized DOI, or the
// empty string for empty input.
func URL(normalized string) string {
	if normalized == "" {
		return ""
	}
	return "https://doi.org/" + normalized
}

// LegacyURL returns the historical dx.doi.org resolver URL for a
// normalized DOI, or the empty string for empty input.
func LegacyURL(normalized string) string {
	if normalized == "" {
		return ""
	}
	return "http://dx.doi.org/" + normalized
}

// cutPrefixFold is strings.CutPrefix with ASCII case-insensitive
// prefix comparison, since resolver hosts appear in mixed case in the
// wild while the DOI suffix itself must be preserved as-is.
func cutPrefixFold(s, prefix string) (string, bool) {
	if len(s) < len(prefix) {
		return s, false
	}
	if strings.EqualFold(s[:len(prefix)], prefix) {
		return s[len(prefix):], true
	}
	return s, false
}
