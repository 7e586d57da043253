package match

import (
	"fmt"

	"github.com/lineakit/bridgefinder/normalize"
	"github.com/lineakit/bridgefinder/person"
)

// Breakdown is the result of scoring one candidate pair. MaxPossible
// accumulates the exact-match weight of every field slot where both sides
// supplied a value, whether or not the comparison succeeded, so it measures
// how much evidence the comparison could have used. Score can go negative
// (Percentage floors at 0) and can exceed MaxPossible when bonus terms
// accrue (Percentage caps at 100).
type Breakdown struct {
	Score       int
	MaxPossible int
	Percentage  int
	Reasons     []string
}

// Engine scores candidate pairs against an immutable configuration.
type Engine struct {
	cfg Config
}

// NewEngine creates a scoring engine. A nil gazetteer falls back to the
// built-in tables.
func NewEngine(cfg Config) *Engine {
	if cfg.Gazetteer == nil {
		cfg.Gazetteer = normalize.DefaultGazetteer()
	}
	return &Engine{cfg: cfg}
}

// Config returns the engine's configuration.
func (e *Engine) Config() Config { return e.cfg }

// Score compares a known record against a candidate record. relsA/relsB are
// the two sides' relative sets; nil means "not fetched". With baseOnly set,
// only the name and date families are evaluated; this is the cheap pre-filter pass
// that gates relative fetching. Field comparators run in a fixed order and
// each appends one human-readable reason describing its outcome; the reason
// list order is part of the observable contract.
func (e *Engine) Score(a, b person.Record, relsA, relsB *person.RelativeSet, baseOnly bool) Breakdown {
	w := e.cfg.Weights
	t := &tally{}

	nameA := normalize.ParseName(a)
	nameB := normalize.ParseName(b)

	e.scoreFirstName(t, nameA.First, nameB.First)
	e.scoreMiddleName(t, nameA.Middle, nameB.Middle)
	e.scoreLastName(t, nameA.Last, nameB.Last)
	e.scoreSuffix(t, nameA.Suffix, nameB.Suffix)

	birthA := normalize.ParseDate(a.BirthDate)
	birthB := normalize.ParseDate(b.BirthDate)
	deathA := normalize.ParseDate(a.DeathDate)
	deathB := normalize.ParseDate(b.DeathDate)

	e.scoreYear(t, "birth", birthA.Year, birthB.Year,
		w.BirthYearExact, w.BirthYearClose, w.BirthYearNear, w.BirthYearMismatchPerYear, w.BirthYearPenaltyCap)
	e.scoreMonth(t, "birth", birthA.Month, birthB.Month, w.BirthMonthExact, w.BirthMonthClose, w.BirthMonthMismatch, true)
	e.scoreDay(t, "birth", birthA.Day, birthB.Day, w.BirthDayExact, w.BirthDayClose, w.BirthDayMismatch, true)

	e.scoreYear(t, "death", deathA.Year, deathB.Year,
		w.DeathYearExact, w.DeathYearClose, w.DeathYearNear, w.DeathYearMismatchPerYear, w.DeathYearPenaltyCap)
	e.scoreMonth(t, "death", deathA.Month, deathB.Month, w.DeathMonthExact, w.DeathMonthClose, w.DeathMonthMismatch, false)
	e.scoreDay(t, "death", deathA.Day, deathB.Day, w.DeathDayExact, w.DeathDayClose, w.DeathDayMismatch, false)

	if baseOnly {
		return t.breakdown()
	}

	birthLocA := normalize.ParseLocation(a.BirthLocation, e.cfg.Gazetteer)
	birthLocB := normalize.ParseLocation(b.BirthLocation, e.cfg.Gazetteer)
	deathLocA := normalize.ParseLocation(a.DeathLocation, e.cfg.Gazetteer)
	deathLocB := normalize.ParseLocation(b.DeathLocation, e.cfg.Gazetteer)

	e.scoreBirthLocation(t, birthLocA, birthLocB)
	e.scoreDeathLocation(t, deathLocA, deathLocB)

	// Bridge potential: a candidate that already has parent links can
	// extend the known line further back.
	t.max += w.HasParents
	if b.HasParent() {
		t.add(w.HasParents, "has parents (bridge potential)")
	}

	if relsA != nil && relsB != nil {
		e.scoreRelatives(t, *relsA, *relsB)
	}

	return t.breakdown()
}

type tally struct {
	score   int
	max     int
	reasons []string
}

func (t *tally) add(weight int, reason string) {
	t.score += weight
	t.reasons = append(t.reasons, reason)
}

func (t *tally) addSilent(weight int) { t.score += weight }

func (t *tally) breakdown() Breakdown {
	pct := 0
	if t.max > 0 {
		pct = t.score * 100 / t.max
		if pct < 0 {
			pct = 0
		}
		if pct > 100 {
			pct = 100
		}
	}
	return Breakdown{Score: t.score, MaxPossible: t.max, Percentage: pct, Reasons: t.reasons}
}

func (e *Engine) scoreFirstName(t *tally, fa, fb string) {
	if fa == "" || fb == "" {
		return
	}
	w, th := e.cfg.Weights, e.cfg.Thresholds
	t.max += w.FirstNameExact
	ratio := Ratio(fa, fb)
	switch {
	case ratio >= th.FuzzyExact:
		t.add(w.FirstNameExact, fmt.Sprintf("first name: %s (%d%%)", fa, ratio))
	case ratio >= th.FuzzyPartial:
		t.add(w.FirstNamePartial, fmt.Sprintf("first name similar: %s ~ %s (%d%%)", fa, fb, ratio))
	default:
		t.add(w.FirstNameMismatch, fmt.Sprintf("first name mismatch: %s vs %s (%d%%)", fa, fb, ratio))
	}
}

func (e *Engine) scoreMiddleName(t *tally, ma, mb string) {
	if ma == "" || mb == "" {
		return
	}
	w, th := e.cfg.Weights, e.cfg.Thresholds
	t.max += w.MiddleNameExact
	ratio := Ratio(ma, mb)
	switch {
	case ratio >= th.FuzzyExact:
		t.add(w.MiddleNameExact, fmt.Sprintf("middle name: %s", ma))
	case ma[0] == mb[0]:
		// Initial-only records are common; a shared first letter is
		// treated as a partial match even when the ratio is low.
		t.add(w.MiddleNamePartial, fmt.Sprintf("middle initial: %c", ma[0]))
	case ratio >= th.FuzzyPartial:
		t.add(w.MiddleNamePartial, fmt.Sprintf("middle name similar: %s ~ %s (%d%%)", ma, mb, ratio))
	default:
		t.add(w.MiddleNameMismatch, fmt.Sprintf("middle name mismatch: %s vs %s", ma, mb))
	}
}

func (e *Engine) scoreLastName(t *tally, la, lb string) {
	if la == "" || lb == "" {
		return
	}
	w, th := e.cfg.Weights, e.cfg.Thresholds
	t.max += w.LastNameExact
	ratio := Ratio(la, lb)
	switch {
	case ratio >= th.FuzzyExact:
		t.addSilent(w.LastNameExact)
	case ratio >= th.FuzzyPartial:
		t.add(w.LastNameExact/2, fmt.Sprintf("last name similar: %s ~ %s (%d%%)", la, lb, ratio))
	default:
		t.add(w.LastNameMismatch, fmt.Sprintf("last name mismatch: %s vs %s", la, lb))
	}
}

func (e *Engine) scoreSuffix(t *tally, sa, sb string) {
	w := e.cfg.Weights
	switch {
	case sa != "" && sb != "":
		t.max += w.SuffixExact
		if sa == sb {
			t.add(w.SuffixExact, fmt.Sprintf("suffix: %s", sa))
		} else {
			t.add(w.SuffixMismatch, fmt.Sprintf("suffix mismatch: %s vs %s", sa, sb))
		}
	case sa != "" || sb != "":
		// Suffix on one side only is a weaker signal than a true
		// conflict; half penalty, no change to the denominator.
		t.add(w.SuffixMismatch/2, fmt.Sprintf("suffix: %s vs %s", orNone(sa), orNone(sb)))
	}
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}

func (e *Engine) scoreYear(t *tally, label string, ya, yb, exact, close, near, perYear, cap int) {
	if ya == 0 || yb == 0 {
		return
	}
	t.max += exact
	diff := abs(ya - yb)
	switch {
	case diff == 0:
		t.add(exact, fmt.Sprintf("%s year: %d", label, ya))
	case diff <= 2:
		t.add(close, fmt.Sprintf("%s year close: %d vs %d", label, ya, yb))
	case diff <= 5:
		if label == "birth" {
			t.add(near, fmt.Sprintf("%s year near: %d vs %d", label, ya, yb))
		} else {
			t.addSilent(near)
		}
	default:
		// Pure penalty term, linear in the gap beyond five years and
		// capped; it subtracts from the score without scaling the
		// denominator.
		penalty := (diff - 5) * abs(perYear)
		if penalty > cap {
			penalty = cap
		}
		t.add(-penalty, fmt.Sprintf("%s year gap: %d years (%d vs %d)", label, diff, ya, yb))
	}
}

func (e *Engine) scoreMonth(t *tally, label string, ma, mb, exact, close, mismatch int, verbose bool) {
	if ma == 0 || mb == 0 {
		return
	}
	t.max += exact
	diff := abs(ma - mb)
	switch {
	case diff == 0:
		t.add(exact, fmt.Sprintf("%s month: %d", label, ma))
	case diff <= 1 || diff == 11: // December/January wrap around
		t.addSilent(close)
	default:
		if verbose {
			t.add(mismatch, fmt.Sprintf("%s month mismatch: %d vs %d", label, ma, mb))
		} else {
			t.addSilent(mismatch)
		}
	}
}

func (e *Engine) scoreDay(t *tally, label string, da, db, exact, close, mismatch int, verbose bool) {
	if da == 0 || db == 0 {
		return
	}
	t.max += exact
	diff := abs(da - db)
	switch {
	case diff == 0:
		t.add(exact, fmt.Sprintf("%s day: %d", label, da))
	case diff <= 3:
		t.addSilent(close)
	default:
		if verbose {
			t.add(mismatch, fmt.Sprintf("%s day mismatch: %d vs %d", label, da, db))
		} else {
			t.addSilent(mismatch)
		}
	}
}

// Location comparators are categorical: the normalized components either
// match or they do not, evaluated region first since a region or country
// mismatch points at a fundamentally different ancestry line.
func (e *Engine) scoreBirthLocation(t *tally, la, lb normalize.Place) {
	w := e.cfg.Weights
	if la.Region != "" && lb.Region != "" {
		t.max += w.BirthRegionExact
		if la.Region == lb.Region {
			t.addSilent(w.BirthRegionExact)
		} else {
			t.add(w.BirthRegionMismatch, fmt.Sprintf("birth region mismatch: %s vs %s", la.Region, lb.Region))
		}
	}
	if la.Country != "" && lb.Country != "" {
		t.max += w.BirthCountryExact
		if la.Country == lb.Country {
			t.addSilent(w.BirthCountryExact)
		} else {
			t.add(w.BirthCountryMismatch, fmt.Sprintf("birth country mismatch: %s vs %s", la.Country, lb.Country))
		}
	}
	if la.State != "" && lb.State != "" {
		t.max += w.BirthStateExact
		if la.State == lb.State {
			t.add(w.BirthStateExact, fmt.Sprintf("birth state: %s", la.State))
		} else {
			t.add(w.BirthStateMismatch, fmt.Sprintf("birth state mismatch: %s vs %s", la.State, lb.State))
		}
	}
	if la.County != "" && lb.County != "" {
		t.max += w.BirthCountyExact
		if la.County == lb.County {
			t.add(w.BirthCountyExact, fmt.Sprintf("birth county: %s", la.County))
		} else {
			t.add(w.BirthCountyMismatch, fmt.Sprintf("birth county mismatch: %s vs %s", la.County, lb.County))
		}
	}
	if la.City != "" && lb.City != "" {
		t.max += w.BirthCityExact
		if la.City == lb.City {
			t.add(w.BirthCityExact, fmt.Sprintf("birth city: %s", la.City))
		} else {
			t.add(w.BirthCityMismatch, fmt.Sprintf("birth city mismatch: %s vs %s", la.City, lb.City))
		}
	}
}

func (e *Engine) scoreDeathLocation(t *tally, la, lb normalize.Place) {
	w := e.cfg.Weights
	if la.Region != "" && lb.Region != "" {
		t.max += w.DeathRegionExact
		if la.Region == lb.Region {
			t.addSilent(w.DeathRegionExact)
		} else {
			t.add(w.DeathRegionMismatch, "death region mismatch")
		}
	}
	if la.Country != "" && lb.Country != "" {
		t.max += w.DeathCountryExact
		if la.Country == lb.Country {
			t.addSilent(w.DeathCountryExact)
		} else {
			t.addSilent(w.DeathCountryMismatch)
		}
	}
	if la.State != "" && lb.State != "" {
		t.max += w.DeathStateExact
		if la.State == lb.State {
			t.add(w.DeathStateExact, fmt.Sprintf("death state: %s", la.State))
		} else {
			t.add(w.DeathStateMismatch, "death state mismatch")
		}
	}
	if la.County != "" && lb.County != "" {
		t.max += w.DeathCountyExact
		if la.County == lb.County {
			t.add(w.DeathCountyExact, fmt.Sprintf("death county: %s", la.County))
		} else {
			t.addSilent(w.DeathCountyMismatch)
		}
	}
	if la.City != "" && lb.City != "" {
		t.max += w.DeathCityExact
		if la.City == lb.City {
			t.add(w.DeathCityExact, fmt.Sprintf("death city: %s", la.City))
		} else {
			t.addSilent(w.DeathCityMismatch)
		}
	}
}

func (e *Engine) scoreRelatives(t *tally, relsA, relsB person.RelativeSet) {
	w := e.cfg.Weights
	matches, conflicts, stats := CompareRelatives(relsA, relsB)

	aHas := stats.A.Total() > 0
	bHas := stats.B.Total() > 0
	switch {
	case !aHas && !bHas:
		t.add(w.NoRelativesData, "no relatives data to compare")
	case aHas && bHas && len(matches) == 0 && len(conflicts) == 0:
		// Both sides know relatives yet none line up, a distinct
		// negative signal from having nothing to compare.
		t.score += w.NoMatchingRelatives
		t.max += 2 * w.ParentMatch
		t.reasons = append(t.reasons, "both have relatives but none match")
	}

	for _, m := range matches {
		var weight int
		switch m.Category {
		case person.Parent:
			weight = w.ParentMatch
		case person.Spouse:
			weight = w.SpouseMatch
		case person.Child:
			weight = w.ChildMatch
		case person.Sibling:
			weight = w.SiblingMatch
		}
		t.max += weight
		t.add(weight, fmt.Sprintf("%s match: %s", m.Category, m.Name))
	}

	for _, c := range conflicts {
		if c.Category != person.Parent {
			continue
		}
		t.add(w.ParentMismatch, fmt.Sprintf("parent conflict: %s vs %s", c.NameA, c.NameB))
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
