package footprint

import (
	"regexp"
	"strings"
)

var (
	bracketPattern  = regexp.MustCompile(`\([^)]*\)|\[[^\]]*\]`)
	nonCorePattern  = regexp.MustCompile(`[^\p{L}\p{N}]+`)
	cleanWhitespace = regexp.MustCompile(`\s+`)
)

// NormalizeCore reduces an ingredient or component name to the normalized
// identifier used as a mapping key: lowercased, bracketed qualifiers
// stripped, punctuation collapsed to single spaces.
func NormalizeCore(name string) string {
	core := strings.ToLower(strings.TrimSpace(name))
	core = bracketPattern.ReplaceAllString(core, " ")
	core = nonCorePattern.ReplaceAllString(core, " ")
	core = cleanWhitespace.ReplaceAllString(core, " ")
	return strings.TrimSpace(core)
}
