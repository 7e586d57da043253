package bridge

import (
	"strings"
	"testing"
	"time"

	"github.com/lineakit/bridgefinder/match"
	"github.com/lineakit/bridgefinder/person"
)

func TestReportMarkdown(t *testing.T) {
	r := Report{
		Generated:    time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
		Root:         "Smith-1",
		Threshold:    50,
		TotalMatches: 1,
		Confirmed: []ConfirmedLink{
			{KnownKey: "Smith-1", MatchKey: "Smith-98", Percentage: 92},
		},
		Results: []CandidateResult{
			{
				Person: person.Record{Key: "Smith-1", FirstName: "John", LastNameAtBirth: "Smith",
					BirthDate: "1850-01-01", BirthLocation: "Columbus, Ohio, USA"},
				Matches: []Match{
					{
						Candidate: person.Record{Key: "Smith-98", FirstName: "John", LastNameAtBirth: "Smith",
							BirthDate: "1850-01-01"},
						Breakdown: match.Breakdown{
							Score:       92,
							MaxPossible: 100,
							Percentage:  92,
							Reasons:     []string{"first name: john (100%)", "birth year: 1850"},
						},
						Verdict: Confirmed,
					},
				},
			},
		},
	}

	got := r.Markdown()

	for _, want := range []string{
		"# Bridge Finder Report",
		"Generated: 2026-03-14 09:30:00",
		"Root: [Smith-1](https://www.wikitree.com/wiki/Smith-1)",
		"Threshold: 50%",
		"**Found 1 matches, 1 confirmed.**",
		"### Confirmed Matches",
		"## John Smith (Smith-1)",
		"- Born: 1850-01-01 in Columbus, Ohio, USA",
		"- Died: ? in ?",
		"### [Smith-98](https://www.wikitree.com/wiki/Smith-98) - 92% CONFIRMED",
		"- Score: 92/100",
		"  - first name: john (100%)",
		"  - birth year: 1850",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("report missing %q:\n%s", want, got)
		}
	}

	// Reasons appear in evaluation order.
	if strings.Index(got, "first name: john") > strings.Index(got, "birth year: 1850") {
		t.Error("reasons out of order")
	}
}
