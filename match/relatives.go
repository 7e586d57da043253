package match

import (
	"strings"

	"github.com/lineakit/bridgefinder/person"
)

// RelativeMatch records one matched relative.
type RelativeMatch struct {
	Category person.Category
	Name     string
}

// RelativeConflict records a detected disagreement between the two sides'
// relatives in one category.
type RelativeConflict struct {
	Category person.Category
	NameA    string
	NameB    string
}

// SideCounts holds per-category relative counts for one side.
type SideCounts struct {
	Parents  int
	Children int
	Spouses  int
	Siblings int
}

// Total returns the number of relatives across all categories.
func (c SideCounts) Total() int { return c.Parents + c.Children + c.Spouses + c.Siblings }

// RelativeStats reports how much relative data each side supplied,
// regardless of whether any of it matched.
type RelativeStats struct {
	A SideCounts
	B SideCounts
}

// CompareRelatives compares two relative sets category by category. The
// matcher is greedy: for each A-side relative it claims the first unclaimed
// B-side relative whose first name matches (case-insensitive) and whose
// last name matches or is empty on either side. No backtracking is done, so
// the pairing can be suboptimal when several relatives share a first name.
// For parents only, an unmatched
// A-side parent records a conflict against the first differently named
// B-side parent.
func CompareRelatives(a, b person.RelativeSet) (matches []RelativeMatch, conflicts []RelativeConflict, stats RelativeStats) {
	for _, cat := range person.Categories {
		listA := a.ByCategory(cat)
		listB := b.ByCategory(cat)
		setCount(&stats.A, cat, len(listA))
		setCount(&stats.B, cat, len(listB))

		claimed := make(map[int]bool, len(listB))
		for _, relA := range listA {
			firstA := fold(relA.FirstName)
			lastA := fold(relA.LastNameAtBirth)

			found := false
			for i, relB := range listB {
				if claimed[i] {
					continue
				}
				firstB := fold(relB.FirstName)
				lastB := fold(relB.LastNameAtBirth)
				if firstA == "" || firstB == "" || firstA != firstB {
					continue
				}
				if lastA == lastB || lastA == "" || lastB == "" {
					matches = append(matches, RelativeMatch{Category: cat, Name: label(firstA, lastA)})
					claimed[i] = true
					found = true
					break
				}
			}

			if !found && cat == person.Parent && firstA != "" {
				for _, relB := range listB {
					firstB := fold(relB.FirstName)
					if firstB != "" && firstA != firstB {
						conflicts = append(conflicts, RelativeConflict{Category: cat, NameA: firstA, NameB: firstB})
						break
					}
				}
			}
		}
	}
	return matches, conflicts, stats
}

func setCount(c *SideCounts, cat person.Category, n int) {
	switch cat {
	case person.Parent:
		c.Parents = n
	case person.Child:
		c.Children = n
	case person.Spouse:
		c.Spouses = n
	case person.Sibling:
		c.Siblings = n
	}
}

func label(first, last string) string {
	if last == "" {
		return first
	}
	return first + " " + last
}

func fold(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
