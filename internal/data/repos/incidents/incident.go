package incidents

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/brightlines/interference-tracker/internal/domain"
	"github.com/brightlines/interference-tracker/internal/pkg/logger"
)

// ErrInvalidPostID marks a record whose natural key is missing or
// non-positive. Callers skip the record and keep the batch going.
var ErrInvalidPostID = errors.New("invalid post id")

type IncidentRepo interface {
	Upsert(ctx context.Context, tx *gorm.DB, in *types.Incident) (*types.Incident, error)
	GetByPostID(ctx context.Context, tx *gorm.DB, postID int64) (*types.Incident, error)
	DeleteByPostID(ctx context.Context, tx *gorm.DB, postID int64) error
}

type incidentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewIncidentRepo(db *gorm.DB, baseLog *logger.Logger) IncidentRepo {
	return &incidentRepo{db: db, log: baseLog.With("repo", "IncidentRepo")}
}

// Upsert merges on the post id with a richer-source-wins policy: string
// fields are only overwritten by non-empty incoming values, the normalized
// dates only by present values, so a metadata-only source can never blank
// content ingested earlier from the full feed. Display always tracks the
// incoming record; published_at sticks once set.
func (r *incidentRepo) Upsert(ctx context.Context, tx *gorm.DB, in *types.Incident) (*types.Incident, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if in.PostID <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPostID, in.PostID)
	}

	if err := transaction.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "post_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"slug":          gorm.Expr("COALESCE(NULLIF(excluded.slug,''), incident.slug)"),
			"title":         gorm.Expr("COALESCE(NULLIF(excluded.title,''), incident.title)"),
			"link":          gorm.Expr("COALESCE(NULLIF(excluded.link,''), incident.link)"),
			"content_clean": gorm.Expr("COALESCE(NULLIF(excluded.content_clean,''), incident.content_clean)"),
			"excerpt_clean": gorm.Expr("COALESCE(NULLIF(excluded.excerpt_clean,''), incident.excerpt_clean)"),
			"date_text":     gorm.Expr("COALESCE(NULLIF(excluded.date_text,''), incident.date_text)"),
			"start_date":    gorm.Expr("COALESCE(excluded.start_date, incident.start_date)"),
			"end_date":      gorm.Expr("COALESCE(excluded.end_date, incident.end_date)"),
			"display":       gorm.Expr("excluded.display"),
			"published_at":  gorm.Expr("COALESCE(incident.published_at, excluded.published_at)"),
			"updated_at":    gorm.Expr("excluded.updated_at"),
		}),
	}).Create(in).Error; err != nil {
		return nil, err
	}

	return r.GetByPostID(ctx, transaction, in.PostID)
}

func (r *incidentRepo) GetByPostID(ctx context.Context, tx *gorm.DB, postID int64) (*types.Incident, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var row types.Incident
	if err := transaction.WithContext(ctx).
		Where("post_id = ?", postID).
		First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// DeleteByPostID removes the incident and, through the cascading foreign
// keys, its association rows. Shared vocabulary rows stay.
func (r *incidentRepo) DeleteByPostID(ctx context.Context, tx *gorm.DB, postID int64) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(ctx).
		Where("post_id = ?", postID).
		Delete(&types.Incident{}).Error
}
