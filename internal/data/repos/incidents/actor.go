package incidents

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/brightlines/interference-tracker/internal/domain"
	"github.com/brightlines/interference-tracker/internal/pkg/logger"
)

type ActorRepo interface {
	Upsert(ctx context.Context, tx *gorm.DB, in *types.Actor) (*types.Actor, error)
	GetByTermID(ctx context.Context, tx *gorm.DB, termID int64) (*types.Actor, error)
}

type actorRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewActorRepo(db *gorm.DB, baseLog *logger.Logger) ActorRepo {
	return &actorRepo{db: db, log: baseLog.With("repo", "ActorRepo")}
}

// Upsert keys on the CMS term id. Name/slug/taxonomy track the latest export;
// an empty incoming description keeps whatever was already stored.
func (r *actorRepo) Upsert(ctx context.Context, tx *gorm.DB, in *types.Actor) (*types.Actor, error) {
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
			"description": gorm.Expr("COALESCE(NULLIF(excluded.description,''), actor.description)"),
		}),
	}).Create(in).Error; err != nil {
		return nil, err
	}

	return r.GetByTermID(ctx, transaction, in.TermID)
}

func (r *actorRepo) GetByTermID(ctx context.Context, tx *gorm.DB, termID int64) (*types.Actor, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var row types.Actor
	if err := transaction.WithContext(ctx).
		Where("term_id = ?", termID).
		First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}
