package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gorm.io/gorm"

	types "github.com/brightlines/interference-tracker/internal/domain"
	"github.com/brightlines/interference-tracker/internal/ingest/normalize"
	"github.com/brightlines/interference-tracker/internal/ingest/sanitize"
)

// runGeo walks the country feature tree. Failing to open or decode the
// document is fatal for the batch; everything below that costs at most one
// feature or one record.
func (r *Runner) runGeo(ctx context.Context, tx *gorm.DB, path string) (*SourceSummary, error) {
	src := &SourceSummary{Source: "geo"}

	raw, err := os.ReadFile(path)
	if err != nil {
		return src, fmt.Errorf("open geo document: %w", err)
	}
	var doc GeoDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return src, fmt.Errorf("decode geo document: %w", err)
	}

	for _, ftr := range doc.Features {
		name := strings.TrimSpace(ftr.Properties.Country)
		if name == "" {
			r.log.Warn("Geo feature missing country name, skipping", "incidents", len(ftr.Properties.Incidents))
			src.Warnings = append(src.Warnings, "feature missing country name")
			src.Skipped += len(ftr.Properties.Incidents)
			continue
		}

		country := &types.Country{
			Name:             name,
			DatasetCountHint: parseCountHint(ftr.Properties.Count),
		}
		if c := ftr.Geometry.Coordinates; len(c) >= 2 {
			lon, lat := c[0], c[1]
			country.Lon = &lon
			country.Lat = &lat
		}

		stored, err := r.deps.Countries.Upsert(ctx, tx, country)
		if err != nil {
			return src, fmt.Errorf("upsert country %q: %w", name, err)
		}
		r.fillCoordinates(ctx, tx, stored)

		for _, inc := range ftr.Properties.Incidents {
			err := tx.Transaction(func(rtx *gorm.DB) error {
				return r.ingestGeoIncident(ctx, rtx, src, inc, stored.ID)
			})
			if err != nil {
				src.Skipped++
				src.Warnings = append(src.Warnings, fmt.Sprintf("geo record skipped: %v", err))
				r.log.Warn("Geo record skipped", "country", name, "error", err)
				continue
			}
			src.Processed++
		}
	}

	return src, nil
}

func (r *Runner) ingestGeoIncident(ctx context.Context, tx *gorm.DB, src *SourceSummary, inc GeoIncident, countryID uint) error {
	postID, err := parseID(inc.PostID)
	if err != nil {
		return fmt.Errorf("natural key: %w", err)
	}

	title := sanitize.CleanText(inc.Title)
	if title == "" {
		return fmt.Errorf("post %d: empty title after sanitization", postID)
	}

	content, cw := sanitize.Clean(inc.Content)
	excerpt, ew := sanitize.Clean(inc.Excerpt)
	for _, w := range cw {
		src.Warnings = append(src.Warnings, fmt.Sprintf("post %d content: %s", postID, w))
	}
	for _, w := range ew {
		src.Warnings = append(src.Warnings, fmt.Sprintf("post %d excerpt: %s", postID, w))
	}

	display := true
	if inc.Display != nil {
		display = *inc.Display
	}

	row := &types.Incident{
		PostID:       postID,
		Title:        title,
		Link:         strings.TrimSpace(inc.Link),
		ContentClean: content,
		ExcerptClean: excerpt,
		DateText:     strings.TrimSpace(inc.DateText),
		StartDate:    firstDate(inc.StartDate),
		EndDate:      firstDate(inc.EndDate),
		Display:      display,
	}

	stored, err := r.deps.Incidents.Upsert(ctx, tx, row)
	if err != nil {
		return err
	}

	if err := r.deps.Links.LinkCountry(ctx, tx, stored.ID, countryID); err != nil {
		return fmt.Errorf("link country: %w", err)
	}
	src.Linked++

	for _, term := range inc.Actors {
		termID, err := parseID(term.TermID)
		if err != nil {
			src.Warnings = append(src.Warnings, fmt.Sprintf("post %d actor term: %v", postID, err))
			continue
		}
		actor, err := r.deps.Actors.Upsert(ctx, tx, &types.Actor{
			TermID:      termID,
			Name:        term.Name,
			Slug:        term.Slug,
			Taxonomy:    term.Taxonomy,
			Description: term.Description,
		})
		if err != nil {
			return fmt.Errorf("upsert actor %d: %w", termID, err)
		}
		// The export carries no role/confidence yet.
		if err := r.deps.Links.LinkActor(ctx, tx, stored.ID, actor.ID, nil, nil); err != nil {
			return fmt.Errorf("link actor %d: %w", termID, err)
		}
		src.Linked++
	}

	for _, term := range inc.Tools {
		termID, err := parseID(term.TermID)
		if err != nil {
			src.Warnings = append(src.Warnings, fmt.Sprintf("post %d tool term: %v", postID, err))
			continue
		}
		tool, err := r.deps.Tools.Upsert(ctx, tx, &types.Tool{
			TermID:      termID,
			Name:        term.Name,
			Slug:        term.Slug,
			Taxonomy:    term.Taxonomy,
			Description: term.Description,
		})
		if err != nil {
			return fmt.Errorf("upsert tool %d: %w", termID, err)
		}
		if err := r.deps.Links.LinkTool(ctx, tx, stored.ID, tool.ID); err != nil {
			return fmt.Errorf("link tool %d: %w", termID, err)
		}
		src.Linked++
	}

	return nil
}

func firstDate(arr []string) *string {
	if len(arr) == 0 {
		return nil
	}
	return normalize.DatePtr(arr[0])
}
