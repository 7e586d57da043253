package match

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/lineakit/bridgefinder/person"
)

func TestScoreSelfBaseOnly(t *testing.T) {
	e := NewEngine(DefaultConfig())
	a := person.Record{
		FirstName:       "John",
		MiddleName:      "Quincy",
		LastNameAtBirth: "Adams",
		Suffix:          "Jr",
		BirthDate:       "1850-01-15",
		DeathDate:       "1920-06-03",
	}
	got := e.Score(a, a, nil, nil, true)
	if got.Percentage != 100 {
		t.Errorf("self comparison percentage = %d, want 100 (breakdown %+v)", got.Percentage, got)
	}
	if got.Score != got.MaxPossible {
		t.Errorf("self comparison score %d != maxPossible %d", got.Score, got.MaxPossible)
	}
}

func TestScoreEmptyRecords(t *testing.T) {
	e := NewEngine(DefaultConfig())
	got := e.Score(person.Record{}, person.Record{}, nil, nil, true)
	want := Breakdown{}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("empty records mismatch (-want +got):\n%s", diff)
	}
}

// A close variant spelling plus an exact surname and near-identical birth
// date must land well above the reporting floor.
func TestScoreCloseCandidate(t *testing.T) {
	cfg := DefaultConfig()
	e := NewEngine(cfg)
	a := person.Record{FirstName: "John", LastNameAtBirth: "Smith", BirthDate: "1850-01-01"}
	b := person.Record{FirstName: "Jon", LastNameAtBirth: "Smith", BirthDate: "1850-01-03"}

	got := e.Score(a, b, nil, nil, true)
	if got.Percentage != 81 {
		t.Errorf("percentage = %d, want 81 (breakdown %+v)", got.Percentage, got)
	}
	if got.Percentage < cfg.Thresholds.MinMatch {
		t.Errorf("percentage %d below reporting floor %d", got.Percentage, cfg.Thresholds.MinMatch)
	}
	wantReasons := []string{
		"first name similar: john ~ jon (75%)",
		"birth year: 1850",
		"birth month: 1",
	}
	if diff := cmp.Diff(wantReasons, got.Reasons); diff != "" {
		t.Errorf("reasons mismatch (-want +got):\n%s", diff)
	}
}

// An unrelated first name sinks the score despite an exact surname.
func TestScoreFirstNameMismatchDominates(t *testing.T) {
	cfg := DefaultConfig()
	e := NewEngine(cfg)
	a := person.Record{FirstName: "John", LastNameAtBirth: "Smith"}
	b := person.Record{FirstName: "Michael", LastNameAtBirth: "Smith"}

	got := e.Score(a, b, nil, nil, true)
	if got.Percentage >= cfg.Thresholds.MinMatch {
		t.Errorf("percentage = %d, want below %d (breakdown %+v)",
			got.Percentage, cfg.Thresholds.MinMatch, got)
	}
	if len(got.Reasons) == 0 || !strings.HasPrefix(got.Reasons[0], "first name mismatch") {
		t.Errorf("reasons = %v, want first name mismatch leading", got.Reasons)
	}
}

func TestScorePercentageBounds(t *testing.T) {
	e := NewEngine(DefaultConfig())
	pairs := []struct {
		name string
		a, b person.Record
	}{
		{
			name: "all mismatches",
			a:    person.Record{FirstName: "John", LastNameAtBirth: "Smith", BirthDate: "1850-01-01"},
			b:    person.Record{FirstName: "Wilhelmina", LastNameAtBirth: "Vandenberg", BirthDate: "1790-09-20"},
		},
		{
			name: "one sided fields",
			a:    person.Record{FirstName: "John", Suffix: "Jr"},
			b:    person.Record{LastNameAtBirth: "Smith"},
		},
	}
	for _, tc := range pairs {
		t.Run(tc.name, func(t *testing.T) {
			for _, baseOnly := range []bool{true, false} {
				got := e.Score(tc.a, tc.b, nil, nil, baseOnly)
				if got.Percentage < 0 || got.Percentage > 100 {
					t.Errorf("baseOnly=%v percentage = %d, want 0..100", baseOnly, got.Percentage)
				}
				if got.MaxPossible <= 0 && got.Percentage != 0 {
					t.Errorf("baseOnly=%v percentage = %d with maxPossible %d, want 0",
						baseOnly, got.Percentage, got.MaxPossible)
				}
			}
		})
	}
}

func TestScoreMiddleInitial(t *testing.T) {
	e := NewEngine(DefaultConfig())
	a := person.Record{FirstName: "John", MiddleName: "Q", LastNameAtBirth: "Adams"}
	b := person.Record{FirstName: "John", MiddleName: "Quincy", LastNameAtBirth: "Adams"}

	got := e.Score(a, b, nil, nil, true)
	found := false
	for _, r := range got.Reasons {
		if r == "middle initial: q" {
			found = true
		}
	}
	if !found {
		t.Errorf("reasons = %v, want middle initial credit", got.Reasons)
	}
}

func TestScoreSuffixOneSided(t *testing.T) {
	cfg := DefaultConfig()
	e := NewEngine(cfg)
	a := person.Record{FirstName: "John", LastNameAtBirth: "Smith", Suffix: "Jr"}
	b := person.Record{FirstName: "John", LastNameAtBirth: "Smith"}

	with := e.Score(a, b, nil, nil, true)
	without := e.Score(person.Record{FirstName: "John", LastNameAtBirth: "Smith"}, b, nil, nil, true)

	wantDelta := cfg.Weights.SuffixMismatch / 2
	if with.Score-without.Score != wantDelta {
		t.Errorf("one-sided suffix delta = %d, want %d", with.Score-without.Score, wantDelta)
	}
	if with.MaxPossible != without.MaxPossible {
		t.Errorf("one-sided suffix changed maxPossible: %d vs %d", with.MaxPossible, without.MaxPossible)
	}
}

func TestScoreYearGapPenaltyCapped(t *testing.T) {
	cfg := DefaultConfig()
	e := NewEngine(cfg)
	a := person.Record{FirstName: "John", LastNameAtBirth: "Smith", BirthDate: "1800"}
	b := person.Record{FirstName: "John", LastNameAtBirth: "Smith", BirthDate: "1890"}

	got := e.Score(a, b, nil, nil, true)
	// 90-year gap: the linear penalty would be (90-5)*3, far past the cap.
	base := cfg.Weights.FirstNameExact + cfg.Weights.LastNameExact
	want := base - cfg.Weights.BirthYearPenaltyCap
	if got.Score != want {
		t.Errorf("score = %d, want %d (breakdown %+v)", got.Score, want, got)
	}
}

func TestScoreMonthWraparound(t *testing.T) {
	cfg := DefaultConfig()
	e := NewEngine(cfg)
	a := person.Record{FirstName: "John", LastNameAtBirth: "Smith", BirthDate: "1850-12-01"}
	b := person.Record{FirstName: "John", LastNameAtBirth: "Smith", BirthDate: "1850-01-01"}

	got := e.Score(a, b, nil, nil, true)
	// December vs January counts as close, not a mismatch.
	want := cfg.Weights.FirstNameExact + cfg.Weights.LastNameExact +
		cfg.Weights.BirthYearExact + cfg.Weights.BirthMonthClose + cfg.Weights.BirthDayExact
	if got.Score != want {
		t.Errorf("score = %d, want %d (breakdown %+v)", got.Score, want, got)
	}
}

func TestScoreBaseOnlySkipsLocationsAndRelatives(t *testing.T) {
	e := NewEngine(DefaultConfig())
	a := person.Record{FirstName: "John", LastNameAtBirth: "Smith", BirthLocation: "Ohio, USA"}
	b := person.Record{FirstName: "John", LastNameAtBirth: "Smith", BirthLocation: "Yorkshire, England", Father: "123"}
	rels := person.RelativeSet{Parents: []person.Record{rec("Thomas", "Smith")}}

	plain := e.Score(a, b, nil, nil, true)
	withExtras := e.Score(a, b, &rels, &rels, true)
	if diff := cmp.Diff(plain, withExtras); diff != "" {
		t.Errorf("base-only scoring saw non-base signals (-plain +withExtras):\n%s", diff)
	}
	for _, r := range plain.Reasons {
		if strings.Contains(r, "region") || strings.Contains(r, "parent") {
			t.Errorf("base-only reason leaked non-base signal: %q", r)
		}
	}
}

func TestScoreFullModeLocationMismatch(t *testing.T) {
	cfg := DefaultConfig()
	e := NewEngine(cfg)
	a := person.Record{FirstName: "John", LastNameAtBirth: "Smith", BirthLocation: "Columbus, Ohio, USA"}
	b := person.Record{FirstName: "John", LastNameAtBirth: "Smith", BirthLocation: "Leeds, Yorkshire, England"}

	got := e.Score(a, b, nil, nil, false)
	var region, country bool
	for _, r := range got.Reasons {
		if strings.HasPrefix(r, "birth region mismatch") {
			region = true
		}
		if strings.HasPrefix(r, "birth country mismatch") {
			country = true
		}
	}
	if !region || !country {
		t.Errorf("reasons = %v, want region and country mismatches", got.Reasons)
	}
}

func TestScoreHasParentsBonus(t *testing.T) {
	cfg := DefaultConfig()
	e := NewEngine(cfg)
	a := person.Record{FirstName: "John", LastNameAtBirth: "Smith"}
	withParents := person.Record{FirstName: "John", LastNameAtBirth: "Smith", Father: "123"}
	orphan := person.Record{FirstName: "John", LastNameAtBirth: "Smith"}

	bonus := e.Score(a, withParents, nil, nil, false)
	plain := e.Score(a, orphan, nil, nil, false)
	if bonus.Score-plain.Score != cfg.Weights.HasParents {
		t.Errorf("has-parents delta = %d, want %d", bonus.Score-plain.Score, cfg.Weights.HasParents)
	}
	if bonus.MaxPossible != plain.MaxPossible {
		t.Errorf("has-parents bonus changed maxPossible: %d vs %d", bonus.MaxPossible, plain.MaxPossible)
	}
}

func TestScoreRelativeTerms(t *testing.T) {
	cfg := DefaultConfig()
	e := NewEngine(cfg)
	a := person.Record{FirstName: "John", LastNameAtBirth: "Smith"}
	b := person.Record{FirstName: "John", LastNameAtBirth: "Smith"}

	tests := []struct {
		name       string
		relsA      person.RelativeSet
		relsB      person.RelativeSet
		wantDelta  int
		wantReason string
	}{
		{
			name:       "no data on either side",
			wantDelta:  cfg.Weights.NoRelativesData,
			wantReason: "no relatives data to compare",
		},
		{
			name:       "parent match",
			relsA:      person.RelativeSet{Parents: []person.Record{rec("Thomas", "Smith")}},
			relsB:      person.RelativeSet{Parents: []person.Record{rec("Thomas", "Smith")}},
			wantDelta:  cfg.Weights.ParentMatch,
			wantReason: "parent match: thomas smith",
		},
		{
			name:       "parent conflict",
			relsA:      person.RelativeSet{Parents: []person.Record{rec("Thomas", "Smith")}},
			relsB:      person.RelativeSet{Parents: []person.Record{rec("William", "Smith")}},
			wantDelta:  cfg.Weights.ParentMismatch,
			wantReason: "parent conflict: thomas vs william",
		},
		{
			name:       "data but zero overlap",
			relsA:      person.RelativeSet{Spouses: []person.Record{rec("Sarah", "Brown")}},
			relsB:      person.RelativeSet{Spouses: []person.Record{rec("Emily", "Stone")}},
			wantDelta:  cfg.Weights.NoMatchingRelatives,
			wantReason: "both have relatives but none match",
		},
	}

	baseline := e.Score(a, b, nil, nil, false)
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := e.Score(a, b, &tc.relsA, &tc.relsB, false)
			if got.Score-baseline.Score != tc.wantDelta {
				t.Errorf("score delta = %d, want %d (breakdown %+v)",
					got.Score-baseline.Score, tc.wantDelta, got)
			}
			found := false
			for _, r := range got.Reasons {
				if r == tc.wantReason {
					found = true
				}
			}
			if !found {
				t.Errorf("reasons = %v, want %q", got.Reasons, tc.wantReason)
			}
		})
	}
}
