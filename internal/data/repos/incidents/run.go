package incidents

import (
	"context"

	"gorm.io/gorm"

	types "github.com/brightlines/interference-tracker/internal/domain"
	"github.com/brightlines/interference-tracker/internal/pkg/logger"
)

type RunRepo interface {
	Create(ctx context.Context, tx *gorm.DB, run *types.IngestRun) error
	GetRecent(ctx context.Context, tx *gorm.DB, limit int) ([]*types.IngestRun, error)
}

type runRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRunRepo(db *gorm.DB, baseLog *logger.Logger) RunRepo {
	return &runRepo{db: db, log: baseLog.With("repo", "RunRepo")}
}

func (r *runRepo) Create(ctx context.Context, tx *gorm.DB, run *types.IngestRun) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Create(run).Error
}

func (r *runRepo) GetRecent(ctx context.Context, tx *gorm.DB, limit int) ([]*types.IngestRun, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if limit <= 0 {
		limit = 20
	}

	var rows []*types.IngestRun
	if err := transaction.WithContext(ctx).
		Order("started_at DESC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
