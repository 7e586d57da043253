// Package bridge finds potential family-tree connections: it selects
// end-of-line ancestors from a known dataset, searches an external person
// directory for each, and scores the candidates into a ranked report.
package bridge

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/lineakit/bridgefinder/match"
	"github.com/lineakit/bridgefinder/normalize"
	"github.com/lineakit/bridgefinder/person"
)

// Directory is the external person directory the pipeline consumes. The
// wikitree client satisfies it.
type Directory interface {
	SearchPerson(ctx context.Context, criteria person.SearchCriteria) ([]person.Record, error)
	Profile(ctx context.Context, key string) (person.Record, error)
	Relatives(ctx context.Context, key string) (person.RelativeSet, error)
}

// Verdict classifies one scored match.
type Verdict int

// Verdicts, by confidence.
const (
	Possible Verdict = iota
	Confirmed
)

func (v Verdict) String() string {
	if v == Confirmed {
		return "CONFIRMED"
	}
	return "POSSIBLE"
}

// Match pairs one directory candidate with its score breakdown.
type Match struct {
	Candidate person.Record
	Breakdown match.Breakdown
	Verdict   Verdict
}

// CandidateResult holds everything found for one end-of-line ancestor.
type CandidateResult struct {
	Person         person.Record
	Matches        []Match
	SkippedLowBase int
}

// ConfirmedLink is one high-confidence pairing for the report summary.
type ConfirmedLink struct {
	KnownKey   string
	MatchKey   string
	Percentage int
}

// Report is the aggregated outcome of one pipeline run.
type Report struct {
	Generated    time.Time
	Root         string
	Results      []CandidateResult
	Confirmed    []ConfirmedLink
	Threshold    int
	TotalMatches int
}

// Finder orchestrates the end-to-end matching pipeline. Processing is
// sequential by design: the external directory is rate limited and parallel
// fan-out would trip it.
type Finder struct {
	dir            Directory
	engine         *match.Engine
	logger         *slog.Logger
	sleep          func(time.Duration)
	apiDelay       time.Duration
	searchCooldown time.Duration
	searchRetries  int
	searchLimit    int
	privacyCutoff  int
}

// Option configures a Finder.
type Option func(*Finder)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Finder) { f.logger = logger }
}

// WithAPIDelay sets the politeness delay inserted after candidates that
// reached the directory.
func WithAPIDelay(d time.Duration) Option {
	return func(f *Finder) { f.apiDelay = d }
}

// WithPrivacyCutoff sets the birth year at or after which a person is
// assumed possibly living and never searched for.
func WithPrivacyCutoff(year int) Option {
	return func(f *Finder) { f.privacyCutoff = year }
}

// WithSearchRetries sets how many times a rate-limited search is retried
// before the candidate is abandoned.
func WithSearchRetries(n int) Option {
	return func(f *Finder) { f.searchRetries = n }
}

// WithSearchLimit caps how many results one directory search returns.
func WithSearchLimit(n int) Option {
	return func(f *Finder) { f.searchLimit = n }
}

// WithSleep replaces the sleep function (used by tests).
func WithSleep(fn func(time.Duration)) Option {
	return func(f *Finder) { f.sleep = fn }
}

// NewFinder creates a pipeline around a directory and a scoring engine.
func NewFinder(dir Directory, engine *match.Engine, opts ...Option) *Finder {
	f := &Finder{
		dir:            dir,
		engine:         engine,
		logger:         slog.Default(),
		sleep:          time.Sleep,
		apiDelay:       1500 * time.Millisecond,
		searchCooldown: 5 * time.Second,
		searchRetries:  3,
		searchLimit:    25,
		privacyCutoff:  1950,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Discover selects end-of-line ancestors from the known dataset: at least
// one missing parent link, a known surname, and a birth year that is either
// unknown or before the privacy cutoff.
func (f *Finder) Discover(people []person.Record) []person.Record {
	var out []person.Record
	for _, p := range people {
		if !p.MissingParent() || p.LastNameAtBirth == "" {
			continue
		}
		year := normalize.ParseDate(p.BirthDate).Year
		if year == 0 || year < f.privacyCutoff {
			out = append(out, p)
		}
	}
	return out
}

// Run executes the full pipeline over the known dataset and assembles a
// report. Auth failures abort the run; rate-limit exhaustion or transient
// errors on a single candidate skip that candidate and continue.
func (f *Finder) Run(ctx context.Context, root string, people []person.Record) (Report, error) {
	report := Report{
		Generated: time.Now(),
		Root:      root,
		Threshold: f.engine.Config().Thresholds.MinMatch,
	}

	existing := make(map[string]bool, len(people))
	for _, p := range people {
		existing[p.ID] = true
	}

	candidates := f.Discover(people)
	f.logger.InfoContext(ctx, "discovered end-of-line ancestors", "count", len(candidates), "dataset", len(people))

	for i, cand := range candidates {
		birthYear := normalize.ParseDate(cand.BirthDate).Year
		f.logger.InfoContext(ctx, "processing candidate",
			"n", i+1, "of", len(candidates),
			"name", cand.FirstName+" "+cand.LastNameAtBirth, "born", birthYear)

		results, err := f.searchWithRetry(ctx, cand, birthYear)
		if err != nil {
			if errors.Is(err, person.ErrAuthRequired) {
				return report, fmt.Errorf("search %s: %w", cand.Key, err)
			}
			f.logger.WarnContext(ctx, "search failed, skipping candidate", "key", cand.Key, "error", err)
			f.sleep(f.apiDelay)
			continue
		}
		if len(results) == 0 {
			f.sleep(f.apiDelay)
			continue
		}

		result, err := f.scoreResults(ctx, cand, results, existing)
		if err != nil {
			return report, err
		}

		if len(result.Matches) > 0 {
			report.TotalMatches += len(result.Matches)
			for _, m := range result.Matches {
				if m.Verdict == Confirmed {
					report.Confirmed = append(report.Confirmed, ConfirmedLink{
						KnownKey:   cand.Key,
						MatchKey:   m.Candidate.Key,
						Percentage: m.Breakdown.Percentage,
					})
				}
			}
			report.Results = append(report.Results, result)
		}
		f.sleep(f.apiDelay)
	}

	return report, nil
}

// searchWithRetry performs a directory search, retrying with an increasing
// cooldown when rate limited. Exhausted retries surface the last error.
func (f *Finder) searchWithRetry(ctx context.Context, cand person.Record, birthYear int) ([]person.Record, error) {
	criteria := person.SearchCriteria{
		FirstName: cand.FirstName,
		LastName:  cand.LastNameAtBirth,
		BirthYear: birthYear,
		Limit:     f.searchLimit,
	}

	var lastErr error
	for attempt := 0; attempt < f.searchRetries; attempt++ {
		results, err := f.dir.SearchPerson(ctx, criteria)
		if err == nil {
			return results, nil
		}
		lastErr = err
		if !errors.Is(err, person.ErrRateLimited) {
			return nil, err
		}
		cooldown := f.searchCooldown * time.Duration(attempt+1)
		f.logger.WarnContext(ctx, "rate limited, cooling down", "wait", cooldown, "attempt", attempt+1)
		f.sleep(cooldown)
	}
	return nil, lastErr
}

// scoreResults runs the pre-filter, relative fetch, and full scoring for
// one candidate's search results.
func (f *Finder) scoreResults(ctx context.Context, cand person.Record, results []person.Record, existing map[string]bool) (CandidateResult, error) {
	th := f.engine.Config().Thresholds
	out := CandidateResult{Person: cand}

	for _, summary := range results {
		if existing[summary.ID] {
			continue
		}

		// Cheap surname pre-check before any further directory calls.
		if summary.LastNameAtBirth != "" && cand.LastNameAtBirth != "" {
			normCand := normalize.ParseName(cand)
			normSummary := normalize.ParseName(summary)
			if match.Ratio(normCand.Last, normSummary.Last) < th.FuzzyPartial {
				continue
			}
		}

		full, err := f.fetchProfile(ctx, summary)
		if err != nil {
			return out, err
		}

		base := f.engine.Score(cand, full, nil, nil, true)
		if base.Percentage < th.BaseScore {
			out.SkippedLowBase++
			continue
		}

		relsKnown := f.fetchRelatives(ctx, cand.Key)
		relsFull := f.fetchRelatives(ctx, full.Key)

		breakdown := f.engine.Score(cand, full, &relsKnown, &relsFull, false)
		if breakdown.Percentage < th.MinMatch {
			continue
		}

		verdict := Possible
		if breakdown.Percentage >= th.Confirmed {
			verdict = Confirmed
		}
		out.Matches = append(out.Matches, Match{Candidate: full, Breakdown: breakdown, Verdict: verdict})
	}

	// Descending by percentage; stable keeps search-result order among ties.
	sort.SliceStable(out.Matches, func(i, j int) bool {
		return out.Matches[i].Breakdown.Percentage > out.Matches[j].Breakdown.Percentage
	})

	if out.SkippedLowBase > 0 {
		f.logger.DebugContext(ctx, "skipped low base score candidates", "count", out.SkippedLowBase, "key", cand.Key)
	}
	return out, nil
}

// fetchProfile fetches the full field set for a search summary. Auth
// failures propagate; anything else falls back to the summary fields.
func (f *Finder) fetchProfile(ctx context.Context, summary person.Record) (person.Record, error) {
	full, err := f.dir.Profile(ctx, summary.Key)
	if err != nil {
		if errors.Is(err, person.ErrAuthRequired) {
			return person.Record{}, fmt.Errorf("profile %s: %w", summary.Key, err)
		}
		f.logger.DebugContext(ctx, "profile fetch failed, using search summary", "key", summary.Key, "error", err)
		return summary, nil
	}
	return full, nil
}

// fetchRelatives fetches one side's relative set; failures degrade to an
// empty set so scoring still runs on the remaining evidence.
func (f *Finder) fetchRelatives(ctx context.Context, key string) person.RelativeSet {
	rels, err := f.dir.Relatives(ctx, key)
	if err != nil {
		f.logger.DebugContext(ctx, "relatives fetch failed", "key", key, "error", err)
		return person.RelativeSet{}
	}
	return rels
}
