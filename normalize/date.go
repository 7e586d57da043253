// Package normalize turns free-form genealogical fields (dates, places,
// names) into comparable normalized forms. Every parser in this package is
// total: unparseable input degrades to zero values, never to an error.
package normalize

import (
	"regexp"
	"strconv"
	"strings"
)

// Date is a normalized calendar date. A zero component means unknown; all
// three may be zero simultaneously.
type Date struct {
	Year  int
	Month int
	Day   int
}

// IsZero reports whether no component of the date is known.
func (d Date) IsZero() bool { return d.Year == 0 && d.Month == 0 && d.Day == 0 }

var (
	isoRE        = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)
	qualifierRE  = regexp.MustCompile(`^(?i)(abt\.?|about|bef\.?|before|aft\.?|after|circa|c\.?|~)\s*`)
	rangeRE      = regexp.MustCompile(`^(\d{4})[/-](\d{2,4})$`)
	orRE         = regexp.MustCompile(`^(?i)(\d{4})\s+or\s+\d{4}$`)
	dayFirstRE   = regexp.MustCompile(`^(\d{1,2})\s+([A-Za-z]+)\s+(\d{4})$`)
	monthFirstRE = regexp.MustCompile(`^([A-Za-z]+)\s+(\d{1,2}),?\s+(\d{4})$`)
	bareYearRE   = regexp.MustCompile(`^(\d{4})$`)
	anyYearRE    = regexp.MustCompile(`\b(\d{4})\b`)
)

// Month names are matched on their first three letters, which also covers
// "Sept" and full names.
var monthPrefixes = map[string]int{
	"jan": 1, "feb": 2, "mar": 3, "apr": 4, "may": 5, "jun": 6,
	"jul": 7, "aug": 8, "sep": 9, "oct": 10, "nov": 11, "dec": 12,
}

// ParseDate parses a free-form genealogical date string. It handles ISO
// dates with zero placeholders ("1850-01-00"), approximation qualifiers
// ("Abt 1850", "c. 1850"), year ranges ("1850/51", "1850 or 1851"), and
// text dates ("15 Jan 1850", "January 15, 1850"). Qualifier stripping
// happens after the ISO check so "2023-00-00" is never treated as text.
func ParseDate(raw string) Date {
	s := strings.TrimSpace(raw)
	if s == "" || s == "0000-00-00" || s == "0" {
		return Date{}
	}

	if m := isoRE.FindStringSubmatch(s); m != nil {
		return clampDate(Date{
			Year:  isoComponent(m[1], "0000"),
			Month: isoComponent(m[2], "00"),
			Day:   isoComponent(m[3], "00"),
		})
	}

	s = qualifierRE.ReplaceAllString(s, "")

	if m := rangeRE.FindStringSubmatch(s); m != nil {
		return Date{Year: atoi(m[1])}
	}
	if m := orRE.FindStringSubmatch(s); m != nil {
		return Date{Year: atoi(m[1])}
	}

	if m := dayFirstRE.FindStringSubmatch(s); m != nil {
		return clampDate(Date{
			Day:   atoi(m[1]),
			Month: monthPrefixes[monthKey(m[2])],
			Year:  atoi(m[3]),
		})
	}
	if m := monthFirstRE.FindStringSubmatch(s); m != nil {
		return clampDate(Date{
			Month: monthPrefixes[monthKey(m[1])],
			Day:   atoi(m[2]),
			Year:  atoi(m[3]),
		})
	}

	if m := bareYearRE.FindStringSubmatch(s); m != nil {
		return Date{Year: atoi(m[1])}
	}
	if m := anyYearRE.FindStringSubmatch(s); m != nil {
		return Date{Year: atoi(m[1])}
	}

	return Date{}
}

// isoComponent parses one ISO date component; the zero-form ("0000", "00")
// and numeric zero mean unknown, not zero.
func isoComponent(s, zeroForm string) int {
	if s == zeroForm {
		return 0
	}
	return atoi(s)
}

func monthKey(name string) string {
	name = strings.ToLower(name)
	if len(name) > 3 {
		name = name[:3]
	}
	return name
}

// clampDate drops implausible month/day values so callers can rely on
// 1..12 and 1..31 ranges without revalidating.
func clampDate(d Date) Date {
	if d.Month < 1 || d.Month > 12 {
		d.Month = 0
	}
	if d.Day < 1 || d.Day > 31 {
		d.Day = 0
	}
	return d
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s) //nolint:errcheck // callers pass regexp-validated digits
	return n
}
