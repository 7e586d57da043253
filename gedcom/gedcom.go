// Package gedcom renders person records as a GEDCOM 5.5.1 lineage-linked
// document. Families are derived from parent links, plus optional spouse
// links for couples with no children in the dataset.
package gedcom

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/lineakit/bridgefinder/person"
)

var monthAbbrevs = [...]string{
	"", "JAN", "FEB", "MAR", "APR", "MAY", "JUN",
	"JUL", "AUG", "SEP", "OCT", "NOV", "DEC",
}

// Exporter builds one GEDCOM document from a fixed set of people.
type Exporter struct {
	people  map[string]person.Record
	order   []string
	spouses map[string][]string
	now     func() time.Time
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithSpouseLinks supplies spouse IDs per person ID, producing FAM records
// for couples that have no shared child in the dataset.
func WithSpouseLinks(links map[string][]string) Option {
	return func(e *Exporter) { e.spouses = links }
}

// WithClock replaces the header timestamp source (used by tests).
func WithClock(now func() time.Time) Option {
	return func(e *Exporter) { e.now = now }
}

// NewExporter indexes the given people. Records without an ID are dropped;
// output order follows input order.
func NewExporter(people []person.Record, opts ...Option) *Exporter {
	e := &Exporter{
		people: make(map[string]person.Record, len(people)),
		now:    time.Now,
	}
	for _, p := range people {
		if p.ID == "" {
			continue
		}
		if _, seen := e.people[p.ID]; !seen {
			e.order = append(e.order, p.ID)
		}
		e.people[p.ID] = p
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

type family struct {
	husband  string
	wife     string
	children []string
}

// Export renders the document.
func (e *Exporter) Export() string {
	famKeys, fams := e.families()

	var b strings.Builder
	b.WriteString("0 HEAD\n")
	b.WriteString("1 SOUR WikiTree\n")
	b.WriteString("1 GEDC\n")
	b.WriteString("2 VERS 5.5.1\n")
	b.WriteString("2 FORM LINEAGE-LINKED\n")
	b.WriteString("1 CHAR UTF-8\n")
	fmt.Fprintf(&b, "1 DATE %s\n", strings.ToUpper(e.now().Format("02 Jan 2006")))

	for _, id := range e.order {
		p := e.people[id]
		fmt.Fprintf(&b, "0 @I%s@ INDI\n", id)
		fmt.Fprintf(&b, "1 NAME %s /%s/\n", p.FirstName, p.LastNameAtBirth)
		if p.Gender != "" {
			fmt.Fprintf(&b, "1 SEX %s\n", strings.ToUpper(p.Gender[:1]))
		}
		writeEvent(&b, "BIRT", p.BirthDate, p.BirthLocation)
		writeEvent(&b, "DEAT", p.DeathDate, p.DeathLocation)
		if p.HasParent() {
			fmt.Fprintf(&b, "1 FAMC @%s@\n", familyKey(p.Father, p.Mother))
		}
		if p.Key != "" {
			fmt.Fprintf(&b, "1 NOTE WikiTree ID: %s\n", p.Key)
		}
	}

	for _, key := range famKeys {
		fam := fams[key]
		fmt.Fprintf(&b, "0 @%s@ FAM\n", key)
		if _, ok := e.people[fam.husband]; ok {
			fmt.Fprintf(&b, "1 HUSB @I%s@\n", fam.husband)
		}
		if _, ok := e.people[fam.wife]; ok {
			fmt.Fprintf(&b, "1 WIFE @I%s@\n", fam.wife)
		}
		for _, child := range fam.children {
			fmt.Fprintf(&b, "1 CHIL @I%s@\n", child)
		}
	}

	b.WriteString("0 TRLR\n")
	return b.String()
}

// families groups people by their parent pair, then adds childless couples
// from spouse links. Key order is first-appearance order so repeated exports
// of the same dataset are identical.
func (e *Exporter) families() ([]string, map[string]*family) {
	fams := make(map[string]*family)
	var keys []string

	add := func(key string, husband, wife string) *family {
		fam, ok := fams[key]
		if !ok {
			fam = &family{husband: husband, wife: wife}
			fams[key] = fam
			keys = append(keys, key)
		}
		return fam
	}

	for _, id := range e.order {
		p := e.people[id]
		if !p.HasParent() {
			continue
		}
		fam := add(familyKey(p.Father, p.Mother), orZero(p.Father), orZero(p.Mother))
		fam.children = append(fam.children, id)
	}

	for _, id := range e.order {
		for _, spouseID := range e.spouses[id] {
			if _, ok := e.people[spouseID]; !ok {
				continue
			}
			husband, wife := coupleRoles(e.people[id], e.people[spouseID])
			add(familyKey(husband, wife), husband, wife)
		}
	}

	return keys, fams
}

// coupleRoles assigns HUSB/WIFE slots from gender, falling back to ID order
// so the same couple always yields the same family key.
func coupleRoles(a, b person.Record) (husband, wife string) {
	switch {
	case a.Gender == "Male" || b.Gender == "Female":
		return a.ID, b.ID
	case a.Gender == "Female" || b.Gender == "Male":
		return b.ID, a.ID
	case a.ID < b.ID:
		return a.ID, b.ID
	default:
		return b.ID, a.ID
	}
}

func familyKey(father, mother string) string {
	return "F_" + orZero(father) + "_" + orZero(mother)
}

func orZero(id string) string {
	if id == "" {
		return "0"
	}
	return id
}

func writeEvent(b *strings.Builder, tag, rawDate, place string) {
	date := formatDate(rawDate)
	if date == "" && place == "" {
		return
	}
	fmt.Fprintf(b, "1 %s\n", tag)
	if date != "" {
		fmt.Fprintf(b, "2 DATE %s\n", date)
	}
	if place != "" {
		fmt.Fprintf(b, "2 PLAC %s\n", place)
	}
}

// formatDate converts directory dates like "1835-11-30" to GEDCOM form
// ("30 NOV 1835"), dropping zero components. Dates that are not in the
// dashed form pass through unchanged so qualifiers like "Abt 1850" survive.
func formatDate(raw string) string {
	if raw == "" || raw == "0000-00-00" || raw == "0000" {
		return ""
	}

	parts := strings.SplitN(raw, "-", 3)
	year := parts[0]
	month, day := 0, 0
	if len(parts) > 1 {
		m, err := strconv.Atoi(parts[1])
		if err != nil {
			return raw
		}
		month = m
	}
	if len(parts) > 2 {
		d, err := strconv.Atoi(parts[2])
		if err != nil {
			return raw
		}
		day = d
	}

	var out []string
	if day >= 1 && day <= 31 {
		out = append(out, strconv.Itoa(day))
	}
	if month >= 1 && month <= 12 {
		out = append(out, monthAbbrevs[month])
	}
	if year != "0000" {
		out = append(out, year)
	}
	return strings.Join(out, " ")
}
