package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/lager/backend/internal/domain/shared"
	"github.com/lager/backend/internal/domain/stock"
	"gorm.io/gorm"
)

// GormLocationRepository implements stock.LocationRepository using GORM
type GormLocationRepository struct {
	db *gorm.DB
}

// NewGormLocationRepository creates a new GormLocationRepository
func NewGormLocationRepository(db *gorm.DB) *GormLocationRepository {
	return &GormLocationRepository{db: db}
}

// FindByID retrieves a location by ID
func (r *GormLocationRepository) FindByID(ctx context.Context, id uuid.UUID) (*stock.Location, error) {
	var location stock.Location
	if err := r.db.WithContext(ctx).First(&location, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &location, nil
}

// FindByCode retrieves a location by its unique code
func (r *GormLocationRepository) FindByCode(ctx context.Context, locationCode string) (*stock.Location, error) {
	var location stock.Location
	if err := r.db.WithContext(ctx).First(&location, "location_code = ?", locationCode).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &location, nil
}

// FindByIDs retrieves the locations for a set of IDs
func (r *GormLocationRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]stock.Location, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var locations []stock.Location
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&locations).Error
	return locations, err
}

// FindAll retrieves locations with pagination and optional search
func (r *GormLocationRepository) FindAll(ctx context.Context, filter shared.Filter) (shared.Paginated[stock.Location], error) {
	query := r.db.WithContext(ctx).Model(&stock.Location{})

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where(
			"LOWER(location_code) LIKE LOWER(?) OR LOWER(name) LIKE LOWER(?)",
			pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return shared.Paginated[stock.Location]{}, err
	}

	var locations []stock.Location
	err := query.
		Order(orderClause(filter, "location_code")).
		Offset(filter.Offset()).
		Limit(pageSize(filter)).
		Find(&locations).Error
	if err != nil {
		return shared.Paginated[stock.Location]{}, err
	}

	return shared.NewPaginated(locations, total, page(filter), pageSize(filter)), nil
}

// Save persists a location
func (r *GormLocationRepository) Save(ctx context.Context, location *stock.Location) error {
	return r.db.WithContext(ctx).Save(location).Error
}

// Delete removes a location
func (r *GormLocationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&stock.Location{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// ExistsByCode checks whether a location code is already taken
func (r *GormLocationRepository) ExistsByCode(ctx context.Context, locationCode string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&stock.Location{}).
		Where("location_code = ?", locationCode).
		Count(&count).Error
	return count > 0, err
}

var _ stock.LocationRepository = (*GormLocationRepository)(nil)
