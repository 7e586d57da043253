package match

import "github.com/lineakit/bridgefinder/normalize"

// Thresholds control classification and fuzzy-match tiers. Values are
// percentages (0-100).
type Thresholds struct {
	// MinMatch is the lowest percentage reported at all.
	MinMatch int
	// BaseScore gates the expensive relative fetch: candidates whose
	// base-only percentage falls below it are dropped without further
	// directory calls.
	BaseScore int
	// Confirmed separates "confirmed" from "possible" verdicts.
	Confirmed int
	// FuzzyExact and FuzzyPartial are the Ratio tiers for name fields.
	FuzzyExact   int
	FuzzyPartial int
}

// Weights is the closed set of named scoring signals. Positive values
// reward agreement; negative values penalize conflicts. A field absent on
// either side contributes nothing to score or maximum.
//
//nolint:govet // fieldalignment: grouped by signal family for readability
type Weights struct {
	FirstNameExact    int
	FirstNamePartial  int
	FirstNameMismatch int

	MiddleNameExact    int
	MiddleNamePartial  int
	MiddleNameMismatch int

	LastNameExact    int
	LastNameMismatch int

	SuffixExact    int
	SuffixMismatch int

	BirthYearExact           int
	BirthYearClose           int
	BirthYearNear            int
	BirthYearMismatchPerYear int
	BirthYearPenaltyCap      int
	BirthMonthExact          int
	BirthMonthClose          int
	BirthMonthMismatch       int
	BirthDayExact            int
	BirthDayClose            int
	BirthDayMismatch         int

	DeathYearExact           int
	DeathYearClose           int
	DeathYearNear            int
	DeathYearMismatchPerYear int
	DeathYearPenaltyCap      int
	DeathMonthExact          int
	DeathMonthClose          int
	DeathMonthMismatch       int
	DeathDayExact            int
	DeathDayClose            int
	DeathDayMismatch         int

	BirthRegionExact     int
	BirthRegionMismatch  int
	BirthCountryExact    int
	BirthCountryMismatch int
	BirthStateExact      int
	BirthStateMismatch   int
	BirthCountyExact     int
	BirthCountyMismatch  int
	BirthCityExact       int
	BirthCityMismatch    int

	DeathRegionExact     int
	DeathRegionMismatch  int
	DeathCountryExact    int
	DeathCountryMismatch int
	DeathStateExact      int
	DeathStateMismatch   int
	DeathCountyExact     int
	DeathCountyMismatch  int
	DeathCityExact       int
	DeathCityMismatch    int

	HasParents int

	ParentMatch         int
	SpouseMatch         int
	ChildMatch          int
	SiblingMatch        int
	ParentMismatch      int
	NoRelativesData     int
	NoMatchingRelatives int
}

// Config is the immutable scoring configuration. Construct one at startup
// (DefaultConfig, optionally overlaid from a config file) and pass it by
// value; the engine holds no other state.
type Config struct {
	Thresholds Thresholds
	Weights    Weights
	Gazetteer  *normalize.Gazetteer
}

// DefaultConfig returns the documented default thresholds and weights.
func DefaultConfig() Config {
	return Config{
		Thresholds: Thresholds{
			MinMatch:     50,
			BaseScore:    20,
			Confirmed:    70,
			FuzzyExact:   90,
			FuzzyPartial: 70,
		},
		Weights: Weights{
			FirstNameExact:    15,
			FirstNamePartial:  8,
			FirstNameMismatch: -20,

			MiddleNameExact:    10,
			MiddleNamePartial:  5,
			MiddleNameMismatch: -8,

			LastNameExact:    15,
			LastNameMismatch: -50,

			SuffixExact:    8,
			SuffixMismatch: -15,

			BirthYearExact:           15,
			BirthYearClose:           10,
			BirthYearNear:            5,
			BirthYearMismatchPerYear: -3,
			BirthYearPenaltyCap:      30,
			BirthMonthExact:          10,
			BirthMonthClose:          5,
			BirthMonthMismatch:       -8,
			BirthDayExact:            10,
			BirthDayClose:            5,
			BirthDayMismatch:         -8,

			DeathYearExact:           12,
			DeathYearClose:           8,
			DeathYearNear:            4,
			DeathYearMismatchPerYear: -2,
			DeathYearPenaltyCap:      20,
			DeathMonthExact:          8,
			DeathMonthClose:          4,
			DeathMonthMismatch:       -6,
			DeathDayExact:            8,
			DeathDayClose:            4,
			DeathDayMismatch:         -6,

			BirthRegionExact:     5,
			BirthRegionMismatch:  -40,
			BirthCountryExact:    8,
			BirthCountryMismatch: -30,
			BirthStateExact:      10,
			BirthStateMismatch:   -8,
			BirthCountyExact:     12,
			BirthCountyMismatch:  -10,
			BirthCityExact:       15,
			BirthCityMismatch:    -12,

			DeathRegionExact:     4,
			DeathRegionMismatch:  -30,
			DeathCountryExact:    6,
			DeathCountryMismatch: -20,
			DeathStateExact:      8,
			DeathStateMismatch:   -6,
			DeathCountyExact:     10,
			DeathCountyMismatch:  -8,
			DeathCityExact:       12,
			DeathCityMismatch:    -10,

			HasParents: 10,

			ParentMatch:         25,
			SpouseMatch:         20,
			ChildMatch:          15,
			SiblingMatch:        12,
			ParentMismatch:      -20,
			NoRelativesData:     -5,
			NoMatchingRelatives: -10,
		},
		Gazetteer: normalize.DefaultGazetteer(),
	}
}
