package incidents

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/brightlines/interference-tracker/internal/domain"
	"github.com/brightlines/interference-tracker/internal/pkg/logger"
)

type ToolRepo interface {
	Upsert(ctx context.Context, tx *gorm.DB, in *types.Tool) (*types.Tool, error)
	GetByTermID(ctx context.Context, tx *gorm.DB, termID int64) (*types.Tool, error)
}

type toolRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewToolRepo(db *gorm.DB, baseLog *logger.Logger) ToolRepo {
	return &toolRepo{db: db, log: baseLog.With("repo", "ToolRepo")}
}

// Same merge policy as actors: the export owns name/slug/taxonomy, the
// description is only ever upgraded, never blanked.
func (r *toolRepo) Upsert(ctx context.Context, tx *gorm.DB, in *types.Tool) (*types.Tool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "term_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"name":        gorm.Expr("excluded.name"),
			"slug":        gorm.Expr("excluded.slug"),
			"taxonomy":    gorm.Expr("excluded.taxonomy"),
			"description": gorm.Expr("COALESCE(NULLIF(excluded.description,''), tool.description)"),
		}),
	}).Create(in).Error; err != nil {
		return nil, err
	}

	return r.GetByTermID(ctx, transaction, in.TermID)
}

func (r *toolRepo) GetByTermID(ctx context.Context, tx *gorm.DB, termID int64) (*types.Tool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var row types.Tool
	if err := transaction.WithContext(ctx).
		Where("term_id = ?", termID).
		First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}
