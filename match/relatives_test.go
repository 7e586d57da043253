package match

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/lineakit/bridgefinder/person"
)

func rec(first, last string) person.Record {
	return person.Record{FirstName: first, LastNameAtBirth: last}
}

func TestCompareRelatives(t *testing.T) {
	tests := []struct {
		name          string
		a             person.RelativeSet
		b             person.RelativeSet
		wantMatches   []RelativeMatch
		wantConflicts []RelativeConflict
	}{
		{
			name: "exact parent match",
			a:    person.RelativeSet{Parents: []person.Record{rec("Thomas", "Smith")}},
			b:    person.RelativeSet{Parents: []person.Record{rec("thomas", "SMITH")}},
			wantMatches: []RelativeMatch{
				{Category: person.Parent, Name: "thomas smith"},
			},
		},
		{
			name: "empty last name on one side still matches",
			a:    person.RelativeSet{Parents: []person.Record{rec("Thomas", "")}},
			b:    person.RelativeSet{Parents: []person.Record{rec("Thomas", "Smith")}},
			wantMatches: []RelativeMatch{
				{Category: person.Parent, Name: "thomas"},
			},
		},
		{
			name: "different last names do not match",
			a:    person.RelativeSet{Parents: []person.Record{rec("Thomas", "Smith")}},
			b:    person.RelativeSet{Parents: []person.Record{rec("Thomas", "Jones")}},
		},
		{
			name: "parent conflict on differing first names",
			a:    person.RelativeSet{Parents: []person.Record{rec("Thomas", "Smith")}},
			b:    person.RelativeSet{Parents: []person.Record{rec("William", "Smith")}},
			wantConflicts: []RelativeConflict{
				{Category: person.Parent, NameA: "thomas", NameB: "william"},
			},
		},
		{
			name: "claimed relative cannot match twice",
			a: person.RelativeSet{Children: []person.Record{
				rec("Mary", "Smith"), rec("Mary", "Smith"),
			}},
			b: person.RelativeSet{Children: []person.Record{rec("Mary", "Smith")}},
			wantMatches: []RelativeMatch{
				{Category: person.Child, Name: "mary smith"},
			},
		},
		{
			name: "no conflict outside parents",
			a:    person.RelativeSet{Siblings: []person.Record{rec("Anne", "Smith")}},
			b:    person.RelativeSet{Siblings: []person.Record{rec("Jane", "Smith")}},
		},
		{
			name: "categories stay independent",
			a: person.RelativeSet{
				Parents: []person.Record{rec("Thomas", "Smith")},
				Spouses: []person.Record{rec("Sarah", "Brown")},
			},
			b: person.RelativeSet{
				Parents: []person.Record{rec("Thomas", "Smith")},
				Spouses: []person.Record{rec("Sarah", "Brown")},
			},
			wantMatches: []RelativeMatch{
				{Category: person.Parent, Name: "thomas smith"},
				{Category: person.Spouse, Name: "sarah brown"},
			},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			matches, conflicts, _ := CompareRelatives(tc.a, tc.b)
			if diff := cmp.Diff(tc.wantMatches, matches); diff != "" {
				t.Errorf("matches mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tc.wantConflicts, conflicts); diff != "" {
				t.Errorf("conflicts mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

// Swapping inputs must preserve the per-category match count; conflicts swap
// their label order.
func TestCompareRelativesSymmetry(t *testing.T) {
	a := person.RelativeSet{
		Parents:  []person.Record{rec("Thomas", "Smith"), rec("Mary", "")},
		Children: []person.Record{rec("John", "Smith")},
		Spouses:  []person.Record{rec("Sarah", "Brown")},
	}
	b := person.RelativeSet{
		Parents:  []person.Record{rec("Thomas", "Smith"), rec("Margaret", "Doe")},
		Children: []person.Record{rec("John", "")},
	}

	forward, fConflicts, fStats := CompareRelatives(a, b)
	backward, bConflicts, bStats := CompareRelatives(b, a)

	countBy := func(ms []RelativeMatch) map[person.Category]int {
		out := make(map[person.Category]int)
		for _, m := range ms {
			out[m.Category]++
		}
		return out
	}
	if diff := cmp.Diff(countBy(forward), countBy(backward)); diff != "" {
		t.Errorf("match counts not symmetric (-forward +backward):\n%s", diff)
	}
	if len(fConflicts) != len(bConflicts) {
		t.Errorf("conflict counts differ: %d vs %d", len(fConflicts), len(bConflicts))
	}
	if fStats.A != bStats.B || fStats.B != bStats.A {
		t.Errorf("stats not mirrored: forward %+v backward %+v", fStats, bStats)
	}
}

func TestSideCountsTotal(t *testing.T) {
	c := SideCounts{Parents: 2, Children: 3, Spouses: 1, Siblings: 4}
	if got := c.Total(); got != 10 {
		t.Errorf("Total() = %d, want 10", got)
	}
}
