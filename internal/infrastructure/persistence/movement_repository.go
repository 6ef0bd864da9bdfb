package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/lager/backend/internal/domain/shared"
	"github.com/lager/backend/internal/domain/stock"
	"gorm.io/gorm"
)

// GormMovementRepository implements the append-only ledger repository.
// There deliberately are no update or delete methods.
type GormMovementRepository struct {
	db *gorm.DB
}

// NewGormMovementRepository creates a new GormMovementRepository
func NewGormMovementRepository(db *gorm.DB) *GormMovementRepository {
	return &GormMovementRepository{db: db}
}

// Create appends a movement to the ledger
func (r *GormMovementRepository) Create(ctx context.Context, movement *stock.Movement) error {
	return r.db.WithContext(ctx).Create(movement).Error
}

// FindByID retrieves a single ledger entry
func (r *GormMovementRepository) FindByID(ctx context.Context, id uuid.UUID) (*stock.Movement, error) {
	var movement stock.Movement
	if err := r.db.WithContext(ctx).First(&movement, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &movement, nil
}

// FindAll retrieves ledger entries with pagination, newest first
func (r *GormMovementRepository) FindAll(ctx context.Context, filter shared.Filter) (shared.Paginated[stock.Movement], error) {
	return r.paginate(ctx, r.db.WithContext(ctx).Model(&stock.Movement{}), filter)
}

// FindByMaterial retrieves the ledger entries of one material, newest first
func (r *GormMovementRepository) FindByMaterial(ctx context.Context, materialID uuid.UUID, filter shared.Filter) (shared.Paginated[stock.Movement], error) {
	query := r.db.WithContext(ctx).
		Model(&stock.Movement{}).
		Where("material_id = ?", materialID)
	return r.paginate(ctx, query, filter)
}

// CountByKind returns the number of ledger entries per movement kind
func (r *GormMovementRepository) CountByKind(ctx context.Context) (map[stock.MovementKind]int64, error) {
	var rows []struct {
		Kind  stock.MovementKind
		Count int64
	}
	err := r.db.WithContext(ctx).
		Model(&stock.Movement{}).
		Select("kind, COUNT(*) as count").
		Group("kind").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[stock.MovementKind]int64, len(rows))
	for _, row := range rows {
		counts[row.Kind] = row.Count
	}
	return counts, nil
}

func (r *GormMovementRepository) paginate(_ context.Context, query *gorm.DB, filter shared.Filter) (shared.Paginated[stock.Movement], error) {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("LOWER(reason) LIKE LOWER(?) OR kind = ?", pattern, filter.Search)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return shared.Paginated[stock.Movement]{}, err
	}

	var movements []stock.Movement
	err := query.
		Order("occurred_at DESC, created_at DESC").
		Offset(filter.Offset()).
		Limit(pageSize(filter)).
		Find(&movements).Error
	if err != nil {
		return shared.Paginated[stock.Movement]{}, err
	}

	return shared.NewPaginated(movements, total, page(filter), pageSize(filter)), nil
}

var _ stock.MovementRepository = (*GormMovementRepository)(nil)
