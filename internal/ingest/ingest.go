package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/brightlines/interference-tracker/internal/data/db"
	repos "github.com/brightlines/interference-tracker/internal/data/repos/incidents"
	types "github.com/brightlines/interference-tracker/internal/domain"
	"github.com/brightlines/interference-tracker/internal/geocode"
	"github.com/brightlines/interference-tracker/internal/pkg/logger"
)

// Deps bundles everything the adapters write through. Geocoder may be
// geocode.Disabled{} when external lookups are not permitted.
type Deps struct {
	DB  *gorm.DB
	Log *logger.Logger

	Incidents repos.IncidentRepo
	Countries repos.CountryRepo
	Actors    repos.ActorRepo
	Tools     repos.ToolRepo
	Sources   repos.SourceRepo
	Links     repos.LinkRepo
	Runs      repos.RunRepo

	Geocoder geocode.Resolver
}

func NewDeps(gdb *gorm.DB, log *logger.Logger, geocoder geocode.Resolver) Deps {
	if geocoder == nil {
		geocoder = geocode.Disabled{}
	}
	return Deps{
		DB:        gdb,
		Log:       log,
		Incidents: repos.NewIncidentRepo(gdb, log),
		Countries: repos.NewCountryRepo(gdb, log),
		Actors:    repos.NewActorRepo(gdb, log),
		Tools:     repos.NewToolRepo(gdb, log),
		Sources:   repos.NewSourceRepo(gdb, log),
		Links:     repos.NewLinkRepo(gdb, log),
		Runs:      repos.NewRunRepo(gdb, log),
		Geocoder:  geocoder,
	}
}

type Options struct {
	GeoPath  string
	PostPath string

	// SiteBase builds the canonical incident link from a post slug.
	SiteBase string
}

type SourceSummary struct {
	Source    string   `json:"source"`
	Processed int      `json:"processed"`
	Skipped   int      `json:"skipped"`
	Linked    int      `json:"linked"`
	Warnings  []string `json:"warnings,omitempty"`
}

type Summary struct {
	Sources []SourceSummary `json:"sources"`
}

type Runner struct {
	deps Deps
	log  *logger.Logger
}

func NewRunner(deps Deps) *Runner {
	return &Runner{deps: deps, log: deps.Log.With("service", "IngestRunner")}
}

// Run executes one ingestion batch: ensure schema, then both requested
// adapters inside a single transaction, then exactly one commit. A failure
// to open or decode an input document rolls the whole batch back; a bad
// record inside a decoded document only costs that record (each record runs
// under its own savepoint).
func (r *Runner) Run(ctx context.Context, opts Options) (*Summary, error) {
	if opts.GeoPath == "" && opts.PostPath == "" {
		return nil, fmt.Errorf("no input documents given")
	}

	if err := db.EnsureSchema(r.deps.DB); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	summary := &Summary{}
	startedAt := time.Now().UTC()

	txErr := r.deps.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if opts.GeoPath != "" {
			src, err := r.runGeo(ctx, tx, opts.GeoPath)
			if src != nil {
				summary.Sources = append(summary.Sources, *src)
			}
			if err != nil {
				return err
			}
		}
		if opts.PostPath != "" {
			src, err := r.runPost(ctx, tx, opts)
			if src != nil {
				summary.Sources = append(summary.Sources, *src)
			}
			if err != nil {
				return err
			}
		}
		return nil
	})

	status := "committed"
	if txErr != nil {
		status = "rolled_back"
	}
	r.recordRuns(ctx, summary, status, startedAt)

	if txErr != nil {
		return summary, txErr
	}

	for _, src := range summary.Sources {
		r.log.Info("Ingest source complete",
			"source", src.Source,
			"processed", src.Processed,
			"skipped", src.Skipped,
			"linked", src.Linked,
			"warnings", len(src.Warnings),
		)
	}
	return summary, nil
}

// recordRuns persists the audit rows outside the batch transaction so a
// rolled-back batch still leaves a trace.
func (r *Runner) recordRuns(ctx context.Context, summary *Summary, status string, startedAt time.Time) {
	finished := time.Now().UTC()
	for _, src := range summary.Sources {
		detail, err := json.Marshal(src.Warnings)
		if err != nil {
			detail = nil
		}
		run := &types.IngestRun{
			ID:         uuid.New(),
			Source:     src.Source,
			Status:     status,
			Processed:  src.Processed,
			Skipped:    src.Skipped,
			Linked:     src.Linked,
			Detail:     detail,
			StartedAt:  startedAt,
			FinishedAt: &finished,
		}
		if err := r.deps.Runs.Create(ctx, nil, run); err != nil {
			r.log.Warn("Failed to persist ingest run", "source", src.Source, "error", err)
		}
	}
}

// fillCoordinates consults the injected geocoder only for countries that
// still lack a centroid after the upsert.
func (r *Runner) fillCoordinates(ctx context.Context, tx *gorm.DB, country *types.Country) {
	if country.Lat != nil && country.Lon != nil {
		return
	}
	res, ok, err := r.deps.Geocoder.Resolve(ctx, country.Name)
	if err != nil {
		r.log.Warn("Geocode lookup failed", "country", country.Name, "error", err)
		return
	}
	if !ok {
		return
	}
	if err := r.deps.Countries.FillCoordinates(ctx, tx, country.ID, res.Lat, res.Lon); err != nil {
		r.log.Warn("Failed to store geocoded centroid", "country", country.Name, "error", err)
	}
}
