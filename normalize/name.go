package normalize

import (
	"strings"

	"github.com/lineakit/bridgefinder/person"
)

// Identity is a normalized view of a record's name fields. Components are
// lower-cased and trimmed; absent fields become empty strings so downstream
// comparisons can treat "absent" uniformly.
type Identity struct {
	First  string
	Middle string
	Last   string
	Suffix string
}

// Suffix spellings collapse to a canonical short form; generational
// numerals pass through, as does anything unrecognized.
var suffixCanon = map[string]string{
	"jr": "jr", "jr.": "jr", "junior": "jr",
	"sr": "sr", "sr.": "sr", "senior": "sr",
	"ii": "ii", "iii": "iii", "iv": "iv",
}

// ParseName extracts normalized name components from a record.
func ParseName(rec person.Record) Identity {
	id := Identity{
		First:  fold(rec.FirstName),
		Middle: fold(rec.MiddleName),
		Last:   fold(rec.LastNameAtBirth),
		Suffix: fold(rec.Suffix),
	}
	if canon, ok := suffixCanon[id.Suffix]; ok {
		id.Suffix = canon
	}
	return id
}

func fold(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
