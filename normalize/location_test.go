package normalize

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseLocation(t *testing.T) {
	g := DefaultGazetteer()
	tests := []struct {
		name string
		raw  string
		want Place
	}{
		{
			name: "empty",
			raw:  "",
			want: Place{},
		},
		{
			name: "city state country",
			raw:  "Columbus, Ohio, USA",
			want: Place{City: "columbus", State: "ohio", Country: "usa", Region: "north_america"},
		},
		{
			name: "state alone backfills country and region",
			raw:  "Ohio",
			want: Place{State: "ohio", Country: "usa", Region: "north_america"},
		},
		{
			name: "uk county backfills country and region",
			raw:  "Little Snoring, Norfolk",
			want: Place{City: "little snoring", County: "norfolk", Country: "uk", Region: "british_isles"},
		},
		{
			name: "england resolves country before county",
			raw:  "Leeds, Yorkshire, England",
			want: Place{City: "leeds", County: "yorkshire", Country: "uk", Region: "british_isles"},
		},
		{
			name: "county regex fallback",
			raw:  "Boone County, Missouri",
			want: Place{City: "boone county", County: "boone", State: "missouri", Country: "usa", Region: "north_america"},
		},
		{
			name: "single segment state is not a city",
			raw:  "Texas, USA",
			want: Place{State: "texas", Country: "usa", Region: "north_america"},
		},
		{
			name: "country rule order wins",
			raw:  "Ontario, Canada",
			want: Place{City: "ontario", Country: "canada", Region: "north_america"},
		},
		{
			name: "prussia maps to germany",
			raw:  "Berlin, Prussia",
			want: Place{City: "berlin", Country: "germany", Region: "western_europe"},
		},
		{
			name: "unrecognized place",
			raw:  "Atlantis",
			want: Place{},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ParseLocation(tc.raw, g)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("ParseLocation(%q) mismatch (-want +got):\n%s", tc.raw, diff)
			}
		})
	}
}

func TestParseLocationNilGazetteer(t *testing.T) {
	if got := ParseLocation("Columbus, Ohio", nil); got != (Place{}) {
		t.Errorf("ParseLocation with nil gazetteer = %+v, want zero", got)
	}
}
