package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"gorm.io/gorm"

	types "github.com/brightlines/interference-tracker/internal/domain"
	"github.com/brightlines/interference-tracker/internal/ingest/normalize"
	"github.com/brightlines/interference-tracker/internal/ingest/sanitize"
)

// runPost walks the flat CMS post export. This source carries metadata only
// (slug, publication time, source URLs, location); the merge policy in the
// upsert layer keeps it from blanking content ingested from the geo feed.
func (r *Runner) runPost(ctx context.Context, tx *gorm.DB, opts Options) (*SourceSummary, error) {
	src := &SourceSummary{Source: "post"}

	raw, err := os.ReadFile(opts.PostPath)
	if err != nil {
		return src, fmt.Errorf("open post document: %w", err)
	}
	var doc PostDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return src, fmt.Errorf("decode post document: %w", err)
	}

	for _, rec := range doc {
		err := tx.Transaction(func(rtx *gorm.DB) error {
			return r.ingestPostRecord(ctx, rtx, src, rec, opts.SiteBase)
		})
		if err != nil {
			src.Skipped++
			src.Warnings = append(src.Warnings, fmt.Sprintf("post record skipped: %v", err))
			r.log.Warn("Post record skipped", "error", err)
			continue
		}
		src.Processed++
	}

	return src, nil
}

func (r *Runner) ingestPostRecord(ctx context.Context, tx *gorm.DB, src *SourceSummary, rec PostRecord, siteBase string) error {
	postID, err := parseID(rec.ID)
	if err != nil {
		return fmt.Errorf("natural key: %w", err)
	}

	title := sanitize.CleanText(rec.Title.Rendered)
	slug := strings.TrimSpace(rec.Slug)

	link := ""
	if slug != "" && siteBase != "" {
		link = strings.TrimRight(siteBase, "/") + "/incident/" + slug + "/"
	}

	row := &types.Incident{
		PostID:      postID,
		Slug:        slug,
		Title:       title,
		Link:        link,
		DateText:    strings.TrimSpace(rec.Fields.DateText),
		StartDate:   normalize.DatePtr(rec.Fields.StartDate),
		EndDate:     normalize.DatePtr(rec.Fields.EndDate),
		Display:     true,
		PublishedAt: parsePublished(rec.Date),
	}

	stored, err := r.deps.Incidents.Upsert(ctx, tx, row)
	if err != nil {
		return err
	}

	if name, lat, lng := postLocation(rec.Fields); name != "" {
		country, err := r.deps.Countries.Upsert(ctx, tx, &types.Country{
			Name: name,
			Lat:  lat,
			Lon:  lng,
		})
		if err != nil {
			return fmt.Errorf("upsert country %q: %w", name, err)
		}
		r.fillCoordinates(ctx, tx, country)
		if err := r.deps.Links.LinkCountry(ctx, tx, stored.ID, country.ID); err != nil {
			return fmt.Errorf("link country: %w", err)
		}
		src.Linked++
	}

	for i, slot := range rec.Fields.SourceSlots() {
		cleaned, ok := normalize.URL(slot)
		if !ok {
			continue
		}
		domain, _ := normalize.Domain(cleaned)
		source, err := r.deps.Sources.Upsert(ctx, tx, &types.Source{URL: cleaned, Domain: domain})
		if err != nil {
			return fmt.Errorf("upsert source slot %d: %w", i+1, err)
		}
		if err := r.deps.Links.LinkSource(ctx, tx, stored.ID, source.ID, i+1); err != nil {
			return fmt.Errorf("link source slot %d: %w", i+1, err)
		}
		src.Linked++
	}

	return nil
}

// postLocation prefers the top-level country/lat/lng fields and falls back
// to the nested location object. Malformed coordinates come back nil.
func postLocation(f PostFields) (string, *float64, *float64) {
	name := strings.TrimSpace(f.Country)
	lat := parseCoord(f.Lat)
	lng := parseCoord(f.Lng)

	if f.Location != nil {
		if name == "" {
			name = strings.TrimSpace(f.Location.Country)
		}
		if lat == nil {
			lat = parseCoord(f.Location.Lat)
		}
		if lng == nil {
			lng = parseCoord(f.Location.Lng)
		}
	}
	return name, lat, lng
}

func parsePublished(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range []string{"2006-01-02T15:04:05", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}
