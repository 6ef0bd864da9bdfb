package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/lager/backend/internal/domain/shared"
	"github.com/lager/backend/internal/domain/stock"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormPositionRepository implements stock.PositionRepository using GORM
type GormPositionRepository struct {
	db *gorm.DB
}

// NewGormPositionRepository creates a new GormPositionRepository
func NewGormPositionRepository(db *gorm.DB) *GormPositionRepository {
	return &GormPositionRepository{db: db}
}

// FindByMaterialAndLocation retrieves one material's position at one location
func (r *GormPositionRepository) FindByMaterialAndLocation(ctx context.Context, materialID, locationID uuid.UUID) (*stock.Position, error) {
	var position stock.Position
	err := r.db.WithContext(ctx).
		First(&position, "material_id = ? AND location_id = ?", materialID, locationID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &position, nil
}

// FindByMaterial retrieves all positions of a material
func (r *GormPositionRepository) FindByMaterial(ctx context.Context, materialID uuid.UUID) ([]stock.Position, error) {
	var positions []stock.Position
	err := r.db.WithContext(ctx).
		Where("material_id = ?", materialID).
		Order("last_updated DESC").
		Find(&positions).Error
	return positions, err
}

// FindByLocation retrieves all positions at a location
func (r *GormPositionRepository) FindByLocation(ctx context.Context, locationID uuid.UUID) ([]stock.Position, error) {
	var positions []stock.Position
	err := r.db.WithContext(ctx).
		Where("location_id = ?", locationID).
		Order("last_updated DESC").
		Find(&positions).Error
	return positions, err
}

// SumByMaterial returns the sum of all position quantities for a material.
// Materials without positions sum to zero.
func (r *GormPositionRepository) SumByMaterial(ctx context.Context, materialID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := r.db.WithContext(ctx).
		Model(&stock.Position{}).
		Select("SUM(quantity)").
		Where("material_id = ?", materialID).
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}

// AnyAtLocation reports whether any position exists at the location
func (r *GormPositionRepository) AnyAtLocation(ctx context.Context, locationID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&stock.Position{}).
		Where("location_id = ?", locationID).
		Count(&count).Error
	return count > 0, err
}

// CountByMaterialIDs returns the number of positions per material
func (r *GormPositionRepository) CountByMaterialIDs(ctx context.Context, materialIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	counts := make(map[uuid.UUID]int64, len(materialIDs))
	if len(materialIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		MaterialID uuid.UUID
		Count      int64
	}
	err := r.db.WithContext(ctx).
		Model(&stock.Position{}).
		Select("material_id, COUNT(*) AS count").
		Where("material_id IN ?", materialIDs).
		Group("material_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		counts[row.MaterialID] = row.Count
	}
	return counts, nil
}

// Save persists a position
func (r *GormPositionRepository) Save(ctx context.Context, position *stock.Position) error {
	return r.db.WithContext(ctx).Save(position).Error
}

// Delete removes a position row
func (r *GormPositionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&stock.Position{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ stock.PositionRepository = (*GormPositionRepository)(nil)
