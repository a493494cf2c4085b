package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/brightlines/interference-tracker/internal/data/repos/incidents"
	"github.com/brightlines/interference-tracker/internal/data/repos/testutil"
	types "github.com/brightlines/interference-tracker/internal/domain"
)

const geoFixture = `{
  "features": [
    {
      "geometry": {"coordinates": [25.0, 58.6]},
      "properties": {
        "country": "Estonia",
        "count": "2",
        "incidents": [
          {
            "post_id": 501,
            "title": "<b>Cyberattack on X</b>",
            "link": "https://orig.example/?p=501",
            "content": "[su_box title=\"Note\"]Full incident narrative[/su_box]",
            "excerpt": "Short version",
            "date_text": "March 2014",
            "start_date": ["20140307"],
            "actors": [
              {"term_id": "9", "name": "Russia", "slug": "russia", "taxonomy": "threat-actor"}
            ],
            "tools": [
              {"term_id": 12, "name": "Cyberattacks", "slug": "cyberattacks", "taxonomy": "tool"}
            ]
          },
          {
            "post_id": "abc",
            "title": "Broken record"
          }
        ]
      }
    },
    {
      "geometry": {"coordinates": []},
      "properties": {
        "country": "  ",
        "incidents": [
          {"post_id": 900, "title": "Orphan"}
        ]
      }
    }
  ]
}`

const postFixture = `[
  {
    "id": "501",
    "slug": "cyberattack-on-x",
    "title": {"rendered": "Cyberattack on X"},
    "date": "2014-03-10T08:00:00",
    "acf": {
      "country": "Estonia",
      "lat": "58.6",
      "lng": "25.0",
      "source_url_1": "www.example.com/report",
      "source_url_2": ""
    }
  },
  {
    "id": 502,
    "slug": "second-incident",
    "title": {"rendered": "Second incident"},
    "date": "2015-06-01T00:00:00",
    "acf": {
      "date_text": "June 2015",
      "start_date": "20150601",
      "location": {"country": "Latvia", "lat": "56.9", "lng": "24.1"}
    }
  },
  {
    "id": null,
    "slug": "no-key",
    "title": {"rendered": "No key"}
  }
]`

func writeFixture(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write fixture %s: %v", name, err)
	}
	return path
}

func TestRunnerBothSources(t *testing.T) {
	db := testutil.DB(t)
	runner := NewRunner(NewDeps(db, testutil.Logger(t), nil))

	dir := t.TempDir()
	opts := Options{
		GeoPath:  writeFixture(t, dir, "geo.json", geoFixture),
		PostPath: writeFixture(t, dir, "posts.json", postFixture),
		SiteBase: "https://tracker.test",
	}

	ctx := context.Background()
	summary, err := runner.Run(ctx, opts)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(summary.Sources) != 2 {
		t.Fatalf("sources = %d, want 2", len(summary.Sources))
	}

	geo, post := summary.Sources[0], summary.Sources[1]
	if geo.Source != "geo" || geo.Processed != 1 || geo.Skipped != 2 {
		t.Fatalf("geo summary = %+v", geo)
	}
	if post.Source != "post" || post.Processed != 2 || post.Skipped != 1 {
		t.Fatalf("post summary = %+v", post)
	}

	view := incidents.NewViewRepo(db, testutil.Logger(t))
	row, err := view.GetByPostID(ctx, nil, 501)
	if err != nil {
		t.Fatalf("view GetByPostID: %v", err)
	}
	if row.Title != "Cyberattack on X" {
		t.Fatalf("title = %q", row.Title)
	}
	if row.ContentClean != "Full incident narrative" {
		t.Fatalf("content = %q; metadata feed must not blank the full feed", row.ContentClean)
	}
	if row.Slug != "cyberattack-on-x" {
		t.Fatalf("slug = %q; metadata feed should add the slug", row.Slug)
	}
	if row.Link != "https://tracker.test/incident/cyberattack-on-x/" {
		t.Fatalf("link = %q", row.Link)
	}
	if row.StartDate == nil || *row.StartDate != "2014-03-07" {
		t.Fatalf("start_date = %v", row.StartDate)
	}
	if row.Countries == nil || *row.Countries != "Estonia" {
		t.Fatalf("countries = %v", row.Countries)
	}
	if row.Actors == nil || *row.Actors != "Russia" {
		t.Fatalf("actors = %v", row.Actors)
	}
	if row.Tools == nil || *row.Tools != "Cyberattacks" {
		t.Fatalf("tools = %v", row.Tools)
	}
	if row.SourceDomains == nil || *row.SourceDomains != "example.com" {
		t.Fatalf("source_domains = %v", row.SourceDomains)
	}
	if row.SourceCount != 1 {
		t.Fatalf("source_count = %d", row.SourceCount)
	}
	if row.PublishedAt == nil {
		t.Fatalf("published_at missing")
	}

	second, err := view.GetByPostID(ctx, nil, 502)
	if err != nil {
		t.Fatalf("view GetByPostID 502: %v", err)
	}
	if second.Countries == nil || *second.Countries != "Latvia" {
		t.Fatalf("nested location fallback failed: %v", second.Countries)
	}
	if second.StartDate == nil || *second.StartDate != "2015-06-01" {
		t.Fatalf("start_date = %v", second.StartDate)
	}
}

func TestRunnerIdempotent(t *testing.T) {
	db := testutil.DB(t)
	runner := NewRunner(NewDeps(db, testutil.Logger(t), nil))

	dir := t.TempDir()
	opts := Options{
		GeoPath:  writeFixture(t, dir, "geo.json", geoFixture),
		PostPath: writeFixture(t, dir, "posts.json", postFixture),
		SiteBase: "https://tracker.test",
	}

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if _, err := runner.Run(ctx, opts); err != nil {
			t.Fatalf("Run pass %d: %v", i, err)
		}
	}

	counts := map[interface{}]int64{
		&types.Incident{}:        2,
		&types.Country{}:         2,
		&types.Actor{}:           1,
		&types.Tool{}:            1,
		&types.Source{}:          1,
		&types.IncidentCountry{}: 2,
		&types.IncidentActor{}:   1,
		&types.IncidentSource{}:  1,
	}
	for model, want := range counts {
		var got int64
		if err := db.Model(model).Count(&got).Error; err != nil {
			t.Fatalf("count %T: %v", model, err)
		}
		if got != want {
			t.Fatalf("count %T = %d, want %d after re-ingest", model, got, want)
		}
	}

	runs := incidents.NewRunRepo(db, testutil.Logger(t))
	audit, err := runs.GetRecent(ctx, nil, 10)
	if err != nil {
		t.Fatalf("GetRecent: %v", err)
	}
	if len(audit) != 4 {
		t.Fatalf("audit rows = %d, want 4", len(audit))
	}
	for _, run := range audit {
		if run.Status != "committed" {
			t.Fatalf("run status = %q", run.Status)
		}
	}
}

func TestRunnerRollsBackOnBadDocument(t *testing.T) {
	db := testutil.DB(t)
	runner := NewRunner(NewDeps(db, testutil.Logger(t), nil))

	dir := t.TempDir()
	opts := Options{
		GeoPath:  writeFixture(t, dir, "geo.json", geoFixture),
		PostPath: writeFixture(t, dir, "posts.json", `{"not": "an array"`),
		SiteBase: "https://tracker.test",
	}

	if _, err := runner.Run(context.Background(), opts); err == nil {
		t.Fatalf("expected decode error")
	}

	var n int64
	if err := db.Model(&types.Incident{}).Count(&n).Error; err != nil || n != 0 {
		t.Fatalf("batch not rolled back: err=%v incidents=%d", err, n)
	}
}

func TestRunnerRequiresInput(t *testing.T) {
	db := testutil.DB(t)
	runner := NewRunner(NewDeps(db, testutil.Logger(t), nil))
	if _, err := runner.Run(context.Background(), Options{}); err == nil {
		t.Fatalf("expected error for empty options")
	}
}
