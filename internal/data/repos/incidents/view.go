package incidents

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/brightlines/interference-tracker/internal/pkg/logger"
)

// ViewRow is one row of the incident_denorm projection. The list columns are
// deduplicated comma-joined strings, exactly what the dashboard consumes.
type ViewRow struct {
	IncidentID   uint    `gorm:"column:incident_id" json:"incident_id"`
	PostID       int64   `gorm:"column:post_id" json:"post_id"`
	Slug         string  `gorm:"column:slug" json:"slug,omitempty"`
	Title        string  `gorm:"column:title" json:"title"`
	Link         string  `gorm:"column:link" json:"link,omitempty"`
	ContentClean string  `gorm:"column:content_clean" json:"content_clean,omitempty"`
	ExcerptClean string  `gorm:"column:excerpt_clean" json:"excerpt_clean,omitempty"`
	DateText     string  `gorm:"column:date_text" json:"date_text,omitempty"`
	StartDate    *string `gorm:"column:start_date" json:"start_date,omitempty"`
	EndDate      *string `gorm:"column:end_date" json:"end_date,omitempty"`
	Display      bool    `gorm:"column:display" json:"display"`

	PublishedAt *time.Time `gorm:"column:published_at" json:"published_at,omitempty"`

	Countries     *string `gorm:"column:countries" json:"countries,omitempty"`
	Actors        *string `gorm:"column:actors" json:"actors,omitempty"`
	Tools         *string `gorm:"column:tools" json:"tools,omitempty"`
	SourceDomains *string `gorm:"column:source_domains" json:"source_domains,omitempty"`
	SourceURLs    *string `gorm:"column:source_urls" json:"source_urls,omitempty"`
	SourceCount   int     `gorm:"column:source_count" json:"source_count"`
}

type ViewRepo interface {
	List(ctx context.Context, tx *gorm.DB, displayedOnly bool) ([]*ViewRow, error)
	GetByPostID(ctx context.Context, tx *gorm.DB, postID int64) (*ViewRow, error)
}

type viewRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewViewRepo(db *gorm.DB, baseLog *logger.Logger) ViewRepo {
	return &viewRepo{db: db, log: baseLog.With("repo", "ViewRepo")}
}

func (r *viewRepo) List(ctx context.Context, tx *gorm.DB, displayedOnly bool) ([]*ViewRow, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	q := transaction.WithContext(ctx).Table("incident_denorm")
	if displayedOnly {
		q = q.Where("display = ?", true)
	}

	var rows []*ViewRow
	if err := q.Order("post_id").Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *viewRepo) GetByPostID(ctx context.Context, tx *gorm.DB, postID int64) (*ViewRow, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var row ViewRow
	if err := transaction.WithContext(ctx).
		Table("incident_denorm").
		Where("post_id = ?", postID).
		First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}
