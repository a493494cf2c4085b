package incidents

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/brightlines/interference-tracker/internal/domain"
	"github.com/brightlines/interference-tracker/internal/pkg/logger"
)

// LinkRepo owns the four association tables. Linking is idempotent: a
// duplicate pair is a silent no-op. The Replace* variants are the
// read-modify-write path for the edit form: clear every link of that kind,
// then relink from scratch.
type LinkRepo interface {
	LinkCountry(ctx context.Context, tx *gorm.DB, incidentID, countryID uint) error
	LinkActor(ctx context.Context, tx *gorm.DB, incidentID, actorID uint, role, confidence *string) error
	LinkTool(ctx context.Context, tx *gorm.DB, incidentID, toolID uint) error
	LinkSource(ctx context.Context, tx *gorm.DB, incidentID, sourceID uint, slotNo int) error

	ReplaceCountries(ctx context.Context, tx *gorm.DB, incidentID uint, countryIDs []uint) error
	ReplaceActors(ctx context.Context, tx *gorm.DB, incidentID uint, actorIDs []uint) error
	ReplaceTools(ctx context.Context, tx *gorm.DB, incidentID uint, toolIDs []uint) error
	ReplaceSources(ctx context.Context, tx *gorm.DB, incidentID uint, sourceIDs []uint) error
}

type linkRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLinkRepo(db *gorm.DB, baseLog *logger.Logger) LinkRepo {
	return &linkRepo{db: db, log: baseLog.With("repo", "LinkRepo")}
}

func (r *linkRepo) tx(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *linkRepo) LinkCountry(ctx context.Context, tx *gorm.DB, incidentID, countryID uint) error {
	return r.tx(tx).WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&types.IncidentCountry{IncidentID: incidentID, CountryID: countryID}).Error
}

func (r *linkRepo) LinkActor(ctx context.Context, tx *gorm.DB, incidentID, actorID uint, role, confidence *string) error {
	return r.tx(tx).WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&types.IncidentActor{
			IncidentID: incidentID,
			ActorID:    actorID,
			Role:       role,
			Confidence: confidence,
		}).Error
}

func (r *linkRepo) LinkTool(ctx context.Context, tx *gorm.DB, incidentID, toolID uint) error {
	return r.tx(tx).WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&types.IncidentTool{IncidentID: incidentID, ToolID: toolID}).Error
}

func (r *linkRepo) LinkSource(ctx context.Context, tx *gorm.DB, incidentID, sourceID uint, slotNo int) error {
	return r.tx(tx).WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&types.IncidentSource{IncidentID: incidentID, SourceID: sourceID, SlotNo: slotNo}).Error
}

func (r *linkRepo) ReplaceCountries(ctx context.Context, tx *gorm.DB, incidentID uint, countryIDs []uint) error {
	transaction := r.tx(tx).WithContext(ctx)
	if err := transaction.
		Where("incident_id = ?", incidentID).
		Delete(&types.IncidentCountry{}).Error; err != nil {
		return err
	}
	for _, id := range countryIDs {
		if err := r.LinkCountry(ctx, tx, incidentID, id); err != nil {
			return err
		}
	}
	return nil
}

func (r *linkRepo) ReplaceActors(ctx context.Context, tx *gorm.DB, incidentID uint, actorIDs []uint) error {
	transaction := r.tx(tx).WithContext(ctx)
	if err := transaction.
		Where("incident_id = ?", incidentID).
		Delete(&types.IncidentActor{}).Error; err != nil {
		return err
	}
	for _, id := range actorIDs {
		if err := r.LinkActor(ctx, tx, incidentID, id, nil, nil); err != nil {
			return err
		}
	}
	return nil
}

func (r *linkRepo) ReplaceTools(ctx context.Context, tx *gorm.DB, incidentID uint, toolIDs []uint) error {
	transaction := r.tx(tx).WithContext(ctx)
	if err := transaction.
		Where("incident_id = ?", incidentID).
		Delete(&types.IncidentTool{}).Error; err != nil {
		return err
	}
	for _, id := range toolIDs {
		if err := r.LinkTool(ctx, tx, incidentID, id); err != nil {
			return err
		}
	}
	return nil
}

func (r *linkRepo) ReplaceSources(ctx context.Context, tx *gorm.DB, incidentID uint, sourceIDs []uint) error {
	transaction := r.tx(tx).WithContext(ctx)
	if err := transaction.
		Where("incident_id = ?", incidentID).
		Delete(&types.IncidentSource{}).Error; err != nil {
		return err
	}
	for i, id := range sourceIDs {
		if err := r.LinkSource(ctx, tx, incidentID, id, i+1); err != nil {
			return err
		}
	}
	return nil
}
