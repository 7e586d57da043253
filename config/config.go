// Package config loads matching thresholds, scoring weights, gazetteer
// tables, and credentials for the bridgefinder CLI.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"time"

	"github.com/joho/godotenv"
	"github.com/lineakit/bridgefinder/match"
	"github.com/lineakit/bridgefinder/normalize"
	"gopkg.in/yaml.v3"
)

// Config is the fully resolved runtime configuration.
type Config struct {
	Match          match.Config
	APIDelay       time.Duration
	MaxCrawlPeople int
	SearchLimit    int
	PrivacyCutoff  int
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Match:          match.DefaultConfig(),
		APIDelay:       1500 * time.Millisecond,
		MaxCrawlPeople: 1000,
		SearchLimit:    25,
		PrivacyCutoff:  1950,
	}
}

// file is the YAML shape. Countries and regions are lists, not maps,
// because rule order decides which country wins.
type file struct {
	Thresholds struct {
		MinMatch       *int     `yaml:"min_match_threshold"`
		BaseScore      *int     `yaml:"base_score_threshold"`
		Confirmed      *int     `yaml:"confirmed_threshold"`
		MaxCrawlPeople *int     `yaml:"max_crawl_people"`
		SearchLimit    *int     `yaml:"search_limit"`
		PrivacyCutoff  *int     `yaml:"privacy_cutoff_year"`
		APIDelay       *float64 `yaml:"api_delay"`
	} `yaml:"thresholds"`
	Fuzzy struct {
		Exact   *int `yaml:"exact_threshold"`
		Partial *int `yaml:"partial_threshold"`
	} `yaml:"fuzzy_matching"`
	Weights   map[string]int `yaml:"weights"`
	Locations struct {
		USStates   []string `yaml:"us_states"`
		UKCounties []string `yaml:"uk_counties"`
		Countries  []struct {
			Key      string   `yaml:"key"`
			Keywords []string `yaml:"keywords"`
		} `yaml:"countries"`
		Regions []struct {
			Key       string   `yaml:"key"`
			Countries []string `yaml:"countries"`
		} `yaml:"regions"`
	} `yaml:"locations"`
}

// Load reads a YAML configuration file and overlays it on the defaults.
// An empty path returns the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}

	applyInt := func(dst *int, src *int) {
		if src != nil {
			*dst = *src
		}
	}
	applyInt(&cfg.Match.Thresholds.MinMatch, f.Thresholds.MinMatch)
	applyInt(&cfg.Match.Thresholds.BaseScore, f.Thresholds.BaseScore)
	applyInt(&cfg.Match.Thresholds.Confirmed, f.Thresholds.Confirmed)
	applyInt(&cfg.MaxCrawlPeople, f.Thresholds.MaxCrawlPeople)
	applyInt(&cfg.SearchLimit, f.Thresholds.SearchLimit)
	applyInt(&cfg.PrivacyCutoff, f.Thresholds.PrivacyCutoff)
	applyInt(&cfg.Match.Thresholds.FuzzyExact, f.Fuzzy.Exact)
	applyInt(&cfg.Match.Thresholds.FuzzyPartial, f.Fuzzy.Partial)
	if f.Thresholds.APIDelay != nil {
		cfg.APIDelay = time.Duration(*f.Thresholds.APIDelay * float64(time.Second))
	}

	if err := applyWeights(&cfg.Match.Weights, f.Weights); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}

	applyLocations(&cfg, f)
	return cfg, nil
}

// applyWeights overlays named weights onto the typed table. The key set is
// closed; an unknown key is a configuration error, not a silent default.
func applyWeights(w *match.Weights, overrides map[string]int) error {
	if len(overrides) == 0 {
		return nil
	}

	fields := weightFields(w)
	var unknown []string
	for key, value := range overrides {
		dst, ok := fields[key]
		if !ok {
			unknown = append(unknown, key)
			continue
		}
		*dst = value
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return fmt.Errorf("unknown weight keys: %v", unknown)
	}
	return nil
}

func weightFields(w *match.Weights) map[string]*int {
	return map[string]*int{
		"first_name_exact":    &w.FirstNameExact,
		"first_name_partial":  &w.FirstNamePartial,
		"first_name_mismatch": &w.FirstNameMismatch,

		"middle_name_exact":    &w.MiddleNameExact,
		"middle_name_partial":  &w.MiddleNamePartial,
		"middle_name_mismatch": &w.MiddleNameMismatch,

		"last_name_exact":    &w.LastNameExact,
		"last_name_mismatch": &w.LastNameMismatch,

		"suffix_exact":    &w.SuffixExact,
		"suffix_mismatch": &w.SuffixMismatch,

		"birth_year_exact":             &w.BirthYearExact,
		"birth_year_close":             &w.BirthYearClose,
		"birth_year_near":              &w.BirthYearNear,
		"birth_year_mismatch_per_year": &w.BirthYearMismatchPerYear,
		"birth_year_penalty_cap":       &w.BirthYearPenaltyCap,
		"birth_month_exact":            &w.BirthMonthExact,
		"birth_month_close":            &w.BirthMonthClose,
		"birth_month_mismatch":         &w.BirthMonthMismatch,
		"birth_day_exact":              &w.BirthDayExact,
		"birth_day_close":              &w.BirthDayClose,
		"birth_day_mismatch":           &w.BirthDayMismatch,

		"death_year_exact":             &w.DeathYearExact,
		"death_year_close":             &w.DeathYearClose,
		"death_year_near":              &w.DeathYearNear,
		"death_year_mismatch_per_year": &w.DeathYearMismatchPerYear,
		"death_year_penalty_cap":       &w.DeathYearPenaltyCap,
		"death_month_exact":            &w.DeathMonthExact,
		"death_month_close":            &w.DeathMonthClose,
		"death_month_mismatch":         &w.DeathMonthMismatch,
		"death_day_exact":              &w.DeathDayExact,
		"death_day_close":              &w.DeathDayClose,
		"death_day_mismatch":           &w.DeathDayMismatch,

		"birth_region_exact":     &w.BirthRegionExact,
		"birth_region_mismatch":  &w.BirthRegionMismatch,
		"birth_country_exact":    &w.BirthCountryExact,
		"birth_country_mismatch": &w.BirthCountryMismatch,
		"birth_state_exact":      &w.BirthStateExact,
		"birth_state_mismatch":   &w.BirthStateMismatch,
		"birth_county_exact":     &w.BirthCountyExact,
		"birth_county_mismatch":  &w.BirthCountyMismatch,
		"birth_city_exact":       &w.BirthCityExact,
		"birth_city_mismatch":    &w.BirthCityMismatch,

		"death_region_exact":     &w.DeathRegionExact,
		"death_region_mismatch":  &w.DeathRegionMismatch,
		"death_country_exact":    &w.DeathCountryExact,
		"death_country_mismatch": &w.DeathCountryMismatch,
		"death_state_exact":      &w.DeathStateExact,
		"death_state_mismatch":   &w.DeathStateMismatch,
		"death_county_exact":     &w.DeathCountyExact,
		"death_county_mismatch":  &w.DeathCountyMismatch,
		"death_city_exact":       &w.DeathCityExact,
		"death_city_mismatch":    &w.DeathCityMismatch,

		"has_parents": &w.HasParents,

		"parent_match":          &w.ParentMatch,
		"spouse_match":          &w.SpouseMatch,
		"child_match":           &w.ChildMatch,
		"sibling_match":         &w.SiblingMatch,
		"parent_mismatch":       &w.ParentMismatch,
		"no_relatives_data":     &w.NoRelativesData,
		"no_matching_relatives": &w.NoMatchingRelatives,
	}
}

// applyLocations replaces gazetteer tables wholesale when the file provides
// them; partial tables would silently change resolution priority.
func applyLocations(cfg *Config, f file) {
	g := *cfg.Match.Gazetteer
	loc := f.Locations
	if len(loc.USStates) > 0 {
		g.USStates = loc.USStates
	}
	if len(loc.UKCounties) > 0 {
		g.UKCounties = loc.UKCounties
	}
	if len(loc.Countries) > 0 {
		g.Countries = nil
		for _, c := range loc.Countries {
			g.Countries = append(g.Countries, normalize.CountryRule{Key: c.Key, Keywords: c.Keywords})
		}
	}
	if len(loc.Regions) > 0 {
		g.Regions = nil
		for _, r := range loc.Regions {
			g.Regions = append(g.Regions, normalize.RegionRule{Key: r.Key, Countries: r.Countries})
		}
	}
	cfg.Match.Gazetteer = &g
}

// Credentials holds the WikiTree login material read from the environment.
type Credentials struct {
	Email    string
	Password string
	AppID    string
	RootID   string
}

// LoadEnv loads .env files (missing files are fine) and returns the
// credentials from the environment.
func LoadEnv(paths ...string) Credentials {
	if len(paths) == 0 {
		_ = godotenv.Load() //nolint:errcheck // a missing .env is fine
	}
	for _, path := range paths {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			slog.Warn("env file unreadable", "path", path, "error", err)
		}
	}
	return Credentials{
		Email:    os.Getenv("WIKITREE_EMAIL"),
		Password: os.Getenv("WIKITREE_PASSWORD"),
		AppID:    os.Getenv("WIKITREE_APP_ID"),
		RootID:   os.Getenv("WIKITREE_ROOT_ID"),
	}
}
