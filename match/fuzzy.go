// Package match scores how likely two person records describe the same
// individual, combining fuzzy field comparisons and relative-graph overlap
// into a confidence percentage with an ordered list of reasons.
package match

import (
	"math"

	"github.com/agnivade/levenshtein"
)

// Ratio returns a 0-100 similarity between two strings based on edit
// distance scaled by the longer length. Empty input on either side is 0.
func Ratio(a, b string) int {
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 100
	}
	dist := levenshtein.ComputeDistance(a, b)
	maxLen := len([]rune(a))
	if lb := len([]rune(b)); lb > maxLen {
		maxLen = lb
	}
	return int(math.Round(100 * (1 - float64(dist)/float64(maxLen))))
}
