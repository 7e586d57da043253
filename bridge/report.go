package bridge

import (
	"fmt"
	"strings"
)

const profileURL = "https://www.wikitree.com/wiki/"

// Markdown renders the report as a document with one section per ancestor,
// each match carrying its verdict, score, and the scoring reasons verbatim
// in evaluation order.
func (r Report) Markdown() string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Bridge Finder Report\n")
	fmt.Fprintf(&b, "Generated: %s\n", r.Generated.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "Root: [%s](%s%s)\n", r.Root, profileURL, r.Root)
	fmt.Fprintf(&b, "Threshold: %d%%\n\n", r.Threshold)

	fmt.Fprintf(&b, "**Found %d matches, %d confirmed.**\n\n", r.TotalMatches, len(r.Confirmed))

	if len(r.Confirmed) > 0 {
		b.WriteString("### Confirmed Matches\n")
		for _, link := range r.Confirmed {
			fmt.Fprintf(&b, "- [%s](%s%s) <-> [%s](%s%s) (%d%%)\n",
				link.KnownKey, profileURL, link.KnownKey,
				link.MatchKey, profileURL, link.MatchKey,
				link.Percentage)
		}
		b.WriteString("\n")
	}

	for _, result := range r.Results {
		p := result.Person
		fmt.Fprintf(&b, "## %s %s (%s)\n", p.FirstName, p.LastNameAtBirth, p.Key)
		fmt.Fprintf(&b, "- Your profile: [%s](%s%s)\n", p.Key, profileURL, p.Key)
		fmt.Fprintf(&b, "- Born: %s in %s\n", orUnknown(p.BirthDate), orUnknown(p.BirthLocation))
		fmt.Fprintf(&b, "- Died: %s in %s\n", orUnknown(p.DeathDate), orUnknown(p.DeathLocation))
		b.WriteString("- **Matches:**\n\n")

		for _, m := range result.Matches {
			mp := m.Candidate
			fmt.Fprintf(&b, "### [%s](%s%s) - %d%% %s\n", mp.Key, profileURL, mp.Key, m.Breakdown.Percentage, m.Verdict)
			fmt.Fprintf(&b, "- Score: %d/%d\n", m.Breakdown.Score, m.Breakdown.MaxPossible)
			fmt.Fprintf(&b, "- Born: %s in %s\n", orUnknown(mp.BirthDate), orUnknown(mp.BirthLocation))
			fmt.Fprintf(&b, "- Died: %s in %s\n", orUnknown(mp.DeathDate), orUnknown(mp.DeathLocation))
			b.WriteString("- Analysis:\n")
			for _, reason := range m.Breakdown.Reasons {
				fmt.Fprintf(&b, "  - %s\n", reason)
			}
			b.WriteString("\n")
		}

		b.WriteString("---\n\n")
	}

	return b.String()
}

func orUnknown(s string) string {
	if s == "" {
		return "?"
	}
	return s
}
