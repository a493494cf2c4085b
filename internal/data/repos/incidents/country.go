package incidents

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/brightlines/interference-tracker/internal/domain"
	"github.com/brightlines/interference-tracker/internal/pkg/logger"
)

type CountryRepo interface {
	Upsert(ctx context.Context, tx *gorm.DB, in *types.Country) (*types.Country, error)
	GetOrCreate(ctx context.Context, tx *gorm.DB, name string) (*types.Country, error)
	GetByNames(ctx context.Context, tx *gorm.DB, names []string) ([]*types.Country, error)
	FillCoordinates(ctx context.Context, tx *gorm.DB, countryID uint, lat, lon float64) error
}

type countryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCountryRepo(db *gorm.DB, baseLog *logger.Logger) CountryRepo {
	return &countryRepo{db: db, log: baseLog.With("repo", "CountryRepo")}
}

// Upsert inserts a country or merges into the existing row keyed by name.
// Coordinates and the count hint keep the existing value when one is already
// set; a sparser re-ingest never erases a known centroid.
func (r *countryRepo) Upsert(ctx context.Context, tx *gorm.DB, in *types.Country) (*types.Country, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "name"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"lat":                gorm.Expr("COALESCE(country.lat, excluded.lat)"),
			"lon":                gorm.Expr("COALESCE(country.lon, excluded.lon)"),
			"dataset_count_hint": gorm.Expr("COALESCE(country.dataset_count_hint, excluded.dataset_count_hint)"),
		}),
	}).Create(in).Error; err != nil {
		return nil, err
	}

	var row types.Country
	if err := transaction.WithContext(ctx).
		Where("name = ?", in.Name).
		First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *countryRepo) GetOrCreate(ctx context.Context, tx *gorm.DB, name string) (*types.Country, error) {
	return r.Upsert(ctx, tx, &types.Country{Name: name})
}

func (r *countryRepo) GetByNames(ctx context.Context, tx *gorm.DB, names []string) ([]*types.Country, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Country
	if len(names) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("name IN ?", names).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// FillCoordinates sets the centroid only when the row has none yet. Used by
// the optional geocoding pass.
func (r *countryRepo) FillCoordinates(ctx context.Context, tx *gorm.DB, countryID uint, lat, lon float64) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(ctx).
		Model(&types.Country{}).
		Where("id = ? AND lat IS NULL", countryID).
		Updates(map[string]interface{}{"lat": lat, "lon": lon}).Error
}
