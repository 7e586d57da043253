package normalize

import (
	"regexp"
	"strings"
)

// Place is a normalized, hierarchical view of a free-form place string.
// Empty components are unresolved. The resolution rules are independent and
// additive; nothing cross-validates that the resolved components are
// mutually consistent (a known limitation carried over deliberately).
type Place struct {
	City    string
	County  string
	State   string
	Country string
	Region  string
}

// CountryRule maps a country key to the substrings that identify it.
// Rule order is significant: the first rule with a matching keyword wins.
type CountryRule struct {
	Key      string
	Keywords []string
}

// RegionRule maps a region key to the country keys it contains.
type RegionRule struct {
	Key       string
	Countries []string
}

// Gazetteer holds the lookup tables for place resolution. All entries are
// lower-case.
type Gazetteer struct {
	USStates   []string
	UKCounties []string
	Countries  []CountryRule
	Regions    []RegionRule
}

var countyRE = regexp.MustCompile(`(\w+)\s+county`)

// ParseLocation resolves a free-form place string against the gazetteer.
// Country resolves first (rule order wins), then region from country.
// US-state and UK-county detection are independent substring tests that
// backfill country and region when those are still unresolved, so state
// detection can populate country/region even when the generic country pass
// did not.
func ParseLocation(raw string, g *Gazetteer) Place {
	var p Place
	if strings.TrimSpace(raw) == "" || g == nil {
		return p
	}

	lower := strings.ToLower(raw)
	segments := strings.Split(lower, ",")
	for i, seg := range segments {
		segments[i] = strings.TrimSpace(seg)
	}

	for _, rule := range g.Countries {
		for _, kw := range rule.Keywords {
			if strings.Contains(lower, kw) {
				p.Country = rule.Key
				break
			}
		}
		if p.Country != "" {
			break
		}
	}
	if p.Country != "" {
		p.Region = g.regionFor(p.Country)
	}

	for _, state := range g.USStates {
		if strings.Contains(lower, state) {
			p.State = state
			if p.Country == "" {
				p.Country = "usa"
			}
			if p.Region == "" {
				p.Region = "north_america"
			}
			break
		}
	}

	for _, county := range g.UKCounties {
		if strings.Contains(lower, county) {
			p.County = county
			if p.Country == "" {
				p.Country = "uk"
			}
			if p.Region == "" {
				p.Region = "british_isles"
			}
			break
		}
	}

	if len(segments) >= 2 && !g.isUSState(segments[0]) && !g.isUKCounty(segments[0]) {
		p.City = segments[0]
	}

	if p.County == "" {
		if m := countyRE.FindStringSubmatch(lower); m != nil {
			p.County = m[1]
		}
	}

	return p
}

func (g *Gazetteer) regionFor(country string) string {
	for _, rule := range g.Regions {
		for _, c := range rule.Countries {
			if c == country {
				return rule.Key
			}
		}
	}
	return ""
}

func (g *Gazetteer) isUSState(s string) bool {
	for _, state := range g.USStates {
		if s == state {
			return true
		}
	}
	return false
}

func (g *Gazetteer) isUKCounty(s string) bool {
	for _, county := range g.UKCounties {
		if s == county {
			return true
		}
	}
	return false
}

// DefaultGazetteer returns the built-in lookup tables. Configuration files
// may replace them wholesale.
func DefaultGazetteer() *Gazetteer {
	return &Gazetteer{
		USStates: []string{
			"alabama", "alaska", "arizona", "arkansas", "california",
			"colorado", "connecticut", "delaware", "florida", "georgia",
			"hawaii", "idaho", "illinois", "indiana", "iowa", "kansas",
			"kentucky", "louisiana", "maine", "maryland", "massachusetts",
			"michigan", "minnesota", "mississippi", "missouri", "montana",
			"nebraska", "nevada", "new hampshire", "new jersey", "new mexico",
			"new york", "north carolina", "north dakota", "ohio", "oklahoma",
			"oregon", "pennsylvania", "rhode island", "south carolina",
			"south dakota", "tennessee", "texas", "utah", "vermont",
			"virginia", "washington", "west virginia", "wisconsin", "wyoming",
		},
		UKCounties: []string{
			"bedfordshire", "berkshire", "buckinghamshire", "cambridgeshire",
			"cheshire", "cornwall", "cumberland", "derbyshire", "devon",
			"dorset", "durham", "essex", "gloucestershire", "hampshire",
			"herefordshire", "hertfordshire", "kent", "lancashire",
			"leicestershire", "lincolnshire", "middlesex", "norfolk",
			"northamptonshire", "northumberland", "nottinghamshire",
			"oxfordshire", "shropshire", "somerset", "staffordshire",
			"suffolk", "surrey", "sussex", "warwickshire", "wiltshire",
			"worcestershire", "yorkshire",
		},
		Countries: []CountryRule{
			{Key: "usa", Keywords: []string{"united states", "usa", "u.s.a", "america"}},
			{Key: "uk", Keywords: []string{"united kingdom", "england", "scotland", "wales", "great britain"}},
			{Key: "ireland", Keywords: []string{"ireland", "eire"}},
			{Key: "canada", Keywords: []string{"canada", "ontario", "quebec", "nova scotia", "new brunswick"}},
			{Key: "australia", Keywords: []string{"australia", "new south wales", "queensland", "tasmania"}},
			{Key: "germany", Keywords: []string{"germany", "deutschland", "prussia", "bavaria", "preussen"}},
			{Key: "france", Keywords: []string{"france", "normandy", "brittany"}},
			{Key: "netherlands", Keywords: []string{"netherlands", "holland"}},
			{Key: "norway", Keywords: []string{"norway", "norge"}},
			{Key: "sweden", Keywords: []string{"sweden", "sverige"}},
			{Key: "italy", Keywords: []string{"italy", "italia"}},
			{Key: "poland", Keywords: []string{"poland", "polska"}},
			{Key: "mexico", Keywords: []string{"mexico"}},
		},
		Regions: []RegionRule{
			{Key: "north_america", Countries: []string{"usa", "canada", "mexico"}},
			{Key: "british_isles", Countries: []string{"uk", "ireland"}},
			{Key: "western_europe", Countries: []string{"germany", "france", "netherlands", "italy"}},
			{Key: "northern_europe", Countries: []string{"norway", "sweden"}},
			{Key: "eastern_europe", Countries: []string{"poland"}},
			{Key: "oceania", Countries: []string{"australia"}},
		},
	}
}
