package db

import (
	"fmt"

	"gorm.io/gorm"

	types "github.com/brightlines/interference-tracker/internal/domain"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		// Entities
		&types.Incident{},
		&types.Country{},
		&types.Actor{},
		&types.Tool{},
		&types.Source{},

		// Joins
		&types.IncidentCountry{},
		&types.IncidentActor{},
		&types.IncidentTool{},
		&types.IncidentSource{},

		// Audit
		&types.IngestRun{},
	)
}

func EnsureIncidentIndexes(db *gorm.DB) error {
	stmts := []string{
		`CREATE INDEX IF NOT EXISTS idx_incident_display_start ON incident(display, start_date);`,
		`CREATE INDEX IF NOT EXISTS idx_incident_source_slot ON incident_source(incident_id, slot_no);`,
	}
	for _, s := range stmts {
		if err := db.Exec(s).Error; err != nil {
			return fmt.Errorf("ensure index: %w", err)
		}
	}
	return nil
}

// EnsureDenormView (re)creates the read-optimized projection the dashboard
// consumes: one row per incident with its linked vocabularies flattened into
// deduplicated comma-joined lists.
func EnsureDenormView(db *gorm.DB) error {
	var concat func(expr string) string
	switch db.Dialector.Name() {
	case "postgres":
		concat = func(expr string) string {
			return fmt.Sprintf("string_agg(DISTINCT %s, ',')", expr)
		}
	default: // sqlite
		concat = func(expr string) string {
			return fmt.Sprintf("GROUP_CONCAT(DISTINCT %s)", expr)
		}
	}

	if err := db.Exec(`DROP VIEW IF EXISTS incident_denorm;`).Error; err != nil {
		return fmt.Errorf("drop incident_denorm: %w", err)
	}

	stmt := fmt.Sprintf(`
		CREATE VIEW incident_denorm AS
		SELECT
			i.id AS incident_id,
			i.post_id,
			i.slug,
			i.title,
			i.link,
			i.content_clean,
			i.excerpt_clean,
			i.date_text,
			i.start_date,
			i.end_date,
			i.display,
			i.published_at,
			(SELECT %s
			   FROM incident_country ic
			   JOIN country c ON c.id = ic.country_id
			  WHERE ic.incident_id = i.id) AS countries,
			(SELECT %s
			   FROM incident_actor ia
			   JOIN actor a ON a.id = ia.actor_id
			  WHERE ia.incident_id = i.id) AS actors,
			(SELECT %s
			   FROM incident_tool it
			   JOIN tool t ON t.id = it.tool_id
			  WHERE it.incident_id = i.id) AS tools,
			(SELECT %s
			   FROM incident_source isr
			   JOIN source s ON s.id = isr.source_id
			  WHERE isr.incident_id = i.id) AS source_domains,
			(SELECT %s
			   FROM incident_source isr
			   JOIN source s ON s.id = isr.source_id
			  WHERE isr.incident_id = i.id) AS source_urls,
			(SELECT COUNT(*)
			   FROM incident_source isr
			  WHERE isr.incident_id = i.id) AS source_count
		FROM incident i;`,
		concat("c.name"), concat("a.name"), concat("t.name"),
		concat("s.domain"), concat("s.url"),
	)

	if err := db.Exec(stmt).Error; err != nil {
		return fmt.Errorf("create incident_denorm: %w", err)
	}
	return nil
}

// EnsureSchema runs migration, indexes and the view in order. It must run
// before any ingest writes happen.
func EnsureSchema(db *gorm.DB) error {
	if err := AutoMigrateAll(db); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	if err := EnsureIncidentIndexes(db); err != nil {
		return err
	}
	if err := EnsureDenormView(db); err != nil {
		return err
	}
	return nil
}

func (s *StoreService) EnsureSchema() error {
	s.log.Info("Migrating incident store schema...")
	if err := EnsureSchema(s.db); err != nil {
		s.log.Error("Schema migration failed", "error", err)
		return err
	}
	return nil
}
