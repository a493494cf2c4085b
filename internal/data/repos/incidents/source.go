package incidents

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/brightlines/interference-tracker/internal/domain"
	"github.com/brightlines/interference-tracker/internal/pkg/logger"
)

type SourceRepo interface {
	Upsert(ctx context.Context, tx *gorm.DB, in *types.Source) (*types.Source, error)
	GetByURL(ctx context.Context, tx *gorm.DB, url string) (*types.Source, error)
}

type sourceRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSourceRepo(db *gorm.DB, baseLog *logger.Logger) SourceRepo {
	return &sourceRepo{db: db, log: baseLog.With("repo", "SourceRepo")}
}

// Upsert keys on the canonical URL. The extracted domain is only overwritten
// when the incoming value is non-empty.
func (r *sourceRepo) Upsert(ctx context.Context, tx *gorm.DB, in *types.Source) (*types.Source, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "url"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"domain": gorm.Expr("COALESCE(NULLIF(excluded.domain,''), source.domain)"),
		}),
	}).Create(in).Error; err != nil {
		return nil, err
	}

	return r.GetByURL(ctx, transaction, in.URL)
}

func (r *sourceRepo) GetByURL(ctx context.Context, tx *gorm.DB, url string) (*types.Source, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var row types.Source
	if err := transaction.WithContext(ctx).
		Where("url = ?", url).
		First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}
