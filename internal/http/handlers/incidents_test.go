package handlers

import (
	"testing"
	"time"

	repos "github.com/brightlines/interference-tracker/internal/data/repos/incidents"
)

func sptr(s string) *string { return &s }

func viewRow() *repos.ViewRow {
	return &repos.ViewRow{
		PostID:       501,
		Title:        "Cyberattack on X",
		ContentClean: "Full incident narrative",
		StartDate:    sptr("2014-03-07"),
		Countries:    sptr("Estonia"),
		Actors:       sptr("Russia"),
		Tools:        sptr("Cyberattacks, Malign Finance"),
	}
}

func TestMatchFilters(t *testing.T) {
	mustDate := func(s string) *time.Time {
		d, err := time.Parse("2006-01-02", s)
		if err != nil {
			t.Fatalf("parse %q: %v", s, err)
		}
		return &d
	}

	cases := []struct {
		name string
		f    incidentFilters
		want bool
	}{
		{"no filters", incidentFilters{}, true},
		{"actor match", incidentFilters{Actors: []string{"Russia"}}, true},
		{"actor miss", incidentFilters{Actors: []string{"China"}}, false},
		{"country match", incidentFilters{Countries: []string{"Estonia", "Latvia"}}, true},
		{"tool csv split", incidentFilters{Tools: []string{"Malign Finance"}}, true},
		{"window contains", incidentFilters{Start: mustDate("2014-01-01"), End: mustDate("2014-12-31")}, true},
		{"window before", incidentFilters{End: mustDate("2013-12-31")}, false},
		{"window after", incidentFilters{Start: mustDate("2015-01-01")}, false},
		{"text match", incidentFilters{Query: "narrative"}, true},
		{"text case-insensitive", incidentFilters{Query: "CYBERATTACK"}, true},
		{"text miss", incidentFilters{Query: "ballot"}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := matchFilters(viewRow(), tc.f); got != tc.want {
				t.Fatalf("matchFilters = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestMatchFiltersUndatedRowPassesWindow(t *testing.T) {
	row := viewRow()
	row.StartDate = nil
	row.DateText = "Spring 2014"
	start, _ := time.Parse("2006-01-02", "2020-01-01")
	if !matchFilters(row, incidentFilters{Start: &start}) {
		t.Fatalf("a row without a parsable date should not be dropped by a date window")
	}
}

func TestSplitCSV(t *testing.T) {
	got := splitCSV(sptr(" a, b ,, c "))
	if len(got) != 3 || got[0] != "a" || got[1] != "b" || got[2] != "c" {
		t.Fatalf("splitCSV = %v", got)
	}
	if splitCSV(nil) != nil {
		t.Fatalf("splitCSV(nil) should be nil")
	}
}

func TestCountPairsOrdering(t *testing.T) {
	pairs := countPairs(map[string]int{"b": 2, "a": 2, "c": 5})
	if pairs[0].Name != "c" || pairs[1].Name != "a" || pairs[2].Name != "b" {
		t.Fatalf("countPairs = %v", pairs)
	}
}
