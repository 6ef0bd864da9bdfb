package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lager/backend/internal/domain/shared"
	"github.com/lager/backend/internal/domain/stock"
	"gorm.io/gorm"
)

// GormMaterialRepository implements stock.MaterialRepository using GORM
type GormMaterialRepository struct {
	db *gorm.DB
}

// NewGormMaterialRepository creates a new GormMaterialRepository
func NewGormMaterialRepository(db *gorm.DB) *GormMaterialRepository {
	return &GormMaterialRepository{db: db}
}

// FindByID retrieves a material by ID
func (r *GormMaterialRepository) FindByID(ctx context.Context, id uuid.UUID) (*stock.Material, error) {
	var material stock.Material
	if err := r.db.WithContext(ctx).First(&material, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &material, nil
}

// FindByNumber retrieves a material by its unique material number
func (r *GormMaterialRepository) FindByNumber(ctx context.Context, materialNumber string) (*stock.Material, error) {
	var material stock.Material
	if err := r.db.WithContext(ctx).First(&material, "material_number = ?", materialNumber).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &material, nil
}

// FindAll retrieves materials with pagination and optional search
func (r *GormMaterialRepository) FindAll(ctx context.Context, filter shared.Filter) (shared.Paginated[stock.Material], error) {
	query := r.db.WithContext(ctx).Model(&stock.Material{})

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where(
			"LOWER(material_number) LIKE LOWER(?) OR LOWER(name) LIKE LOWER(?) OR LOWER(category) LIKE LOWER(?)",
			pattern, pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return shared.Paginated[stock.Material]{}, err
	}

	var materials []stock.Material
	err := query.
		Order(orderClause(filter, "material_number")).
		Offset(filter.Offset()).
		Limit(pageSize(filter)).
		Find(&materials).Error
	if err != nil {
		return shared.Paginated[stock.Material]{}, err
	}

	return shared.NewPaginated(materials, total, page(filter), pageSize(filter)), nil
}

// FindInStock retrieves materials whose aggregate stock is positive
func (r *GormMaterialRepository) FindInStock(ctx context.Context, filter shared.Filter) (shared.Paginated[stock.Material], error) {
	query := r.db.WithContext(ctx).Model(&stock.Material{}).Where("current_stock > 0")

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where(
			"LOWER(material_number) LIKE LOWER(?) OR LOWER(name) LIKE LOWER(?)",
			pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return shared.Paginated[stock.Material]{}, err
	}

	var materials []stock.Material
	err := query.
		Order(orderClause(filter, "material_number")).
		Offset(filter.Offset()).
		Limit(pageSize(filter)).
		Find(&materials).Error
	if err != nil {
		return shared.Paginated[stock.Material]{}, err
	}

	return shared.NewPaginated(materials, total, page(filter), pageSize(filter)), nil
}

// FindBelowMinStock retrieves materials under their minimum stock
func (r *GormMaterialRepository) FindBelowMinStock(ctx context.Context) ([]stock.Material, error) {
	var materials []stock.Material
	err := r.db.WithContext(ctx).
		Where("min_stock > 0 AND current_stock < min_stock").
		Order("material_number").
		Find(&materials).Error
	return materials, err
}

// FindAllIDs retrieves the IDs of every material
func (r *GormMaterialRepository) FindAllIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&stock.Material{}).
		Order("created_at").
		Pluck("id", &ids).Error
	return ids, err
}

// Save persists a material unconditionally
func (r *GormMaterialRepository) Save(ctx context.Context, material *stock.Material) error {
	return r.db.WithContext(ctx).Save(material).Error
}

// SaveWithLock persists a material only when the stored row still carries
// the expected version. The lost update surfaces as CONCURRENCY_CONFLICT.
func (r *GormMaterialRepository) SaveWithLock(ctx context.Context, material *stock.Material, expectedVersion int) error {
	result := r.db.WithContext(ctx).
		Model(material).
		Where("id = ? AND version = ?", material.ID, expectedVersion).
		Updates(map[string]interface{}{
			"current_stock": material.CurrentStock,
			"min_stock":     material.MinStock,
			"last_location": material.LastLocation,
			"version":       material.Version,
			"updated_at":    time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// ExistsByNumber checks whether a material number is already taken
func (r *GormMaterialRepository) ExistsByNumber(ctx context.Context, materialNumber string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&stock.Material{}).
		Where("material_number = ?", materialNumber).
		Count(&count).Error
	return count > 0, err
}

var _ stock.MaterialRepository = (*GormMaterialRepository)(nil)
