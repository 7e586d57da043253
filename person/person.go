// Package person defines the common types for genealogical person records.
package person

import "errors"

// Common errors returned by directory clients.
var (
	ErrAuthRequired    = errors.New("authentication required")
	ErrProfileNotFound = errors.New("profile not found")
	ErrRateLimited     = errors.New("rate limited")
)

// Record represents one individual as returned by the external directory.
// It is never mutated after construction; scoring derives normalized views
// from it instead.
//
//nolint:govet // fieldalignment: intentional layout for readability
type Record struct {
	// Identifiers
	ID  string // numeric directory ID
	Key string // page key, e.g. "Smith-123"

	// Name fields
	FirstName       string
	MiddleName      string
	LastNameAtBirth string
	LastNameCurrent string
	Suffix          string

	// Vital events, as raw directory strings ("1850-01-15", "Abt 1850", ...)
	BirthDate     string
	DeathDate     string
	BirthLocation string
	DeathLocation string

	Gender string

	// Parent IDs; empty or "0" means unknown.
	Father string
	Mother string
}

// HasParent reports whether at least one parent link is present.
func (r Record) HasParent() bool {
	return knownID(r.Father) || knownID(r.Mother)
}

// MissingParent reports whether at least one parent link is absent,
// making the record an end-of-line candidate.
func (r Record) MissingParent() bool {
	return !knownID(r.Father) || !knownID(r.Mother)
}

func knownID(id string) bool { return id != "" && id != "0" }

// Category identifies one relative category. The set is closed; directory
// adapters translate whatever category labels the wire uses into these.
type Category int

// Relative categories.
const (
	Parent Category = iota
	Child
	Spouse
	Sibling
)

// Categories lists all relative categories in evaluation order.
var Categories = [...]Category{Parent, Child, Spouse, Sibling}

func (c Category) String() string {
	switch c {
	case Parent:
		return "parent"
	case Child:
		return "child"
	case Spouse:
		return "spouse"
	case Sibling:
		return "sibling"
	default:
		return "unknown"
	}
}

// RelativeSet holds a person's relatives by category. A nil *RelativeSet
// means "not fetched"; a zero RelativeSet means "fetched, no relatives".
// The two are distinct signals to the scorer.
type RelativeSet struct {
	Parents  []Record
	Children []Record
	Spouses  []Record
	Siblings []Record
}

// ByCategory returns the relatives in the given category, in directory order.
func (s *RelativeSet) ByCategory(c Category) []Record {
	if s == nil {
		return nil
	}
	switch c {
	case Parent:
		return s.Parents
	case Child:
		return s.Children
	case Spouse:
		return s.Spouses
	case Sibling:
		return s.Siblings
	default:
		return nil
	}
}

// Add appends a relative to the given category.
func (s *RelativeSet) Add(c Category, r Record) {
	switch c {
	case Parent:
		s.Parents = append(s.Parents, r)
	case Child:
		s.Children = append(s.Children, r)
	case Spouse:
		s.Spouses = append(s.Spouses, r)
	case Sibling:
		s.Siblings = append(s.Siblings, r)
	}
}

// SearchCriteria narrows a directory search. Zero-valued fields are omitted
// from the request.
type SearchCriteria struct {
	FirstName string
	LastName  string
	BirthYear int
	Limit     int
}

// Empty reports whether no category holds any relatives.
func (s *RelativeSet) Empty() bool {
	if s == nil {
		return true
	}
	return len(s.Parents) == 0 && len(s.Children) == 0 && len(s.Spouses) == 0 && len(s.Siblings) == 0
}
