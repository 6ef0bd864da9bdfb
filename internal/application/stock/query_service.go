package stock

import (
	"context"

	"github.com/google/uuid"
	"github.com/lager/backend/internal/domain/identity"
	"github.com/lager/backend/internal/domain/shared"
	"github.com/lager/backend/internal/domain/stock"
)

// QueryService serves the read views over materials, positions and the
// movement ledger. Reads go straight to the repositories outside any
// transaction scope.
type QueryService struct {
	materialRepo stock.MaterialRepository
	locationRepo stock.LocationRepository
	positionRepo stock.PositionRepository
	movementRepo stock.MovementRepository
	userRepo     identity.UserRepository
}

// NewQueryService creates a new QueryService
func NewQueryService(
	materialRepo stock.MaterialRepository,
	locationRepo stock.LocationRepository,
	positionRepo stock.PositionRepository,
	movementRepo stock.MovementRepository,
	userRepo identity.UserRepository,
) *QueryService {
	return &QueryService{
		materialRepo: materialRepo,
		locationRepo: locationRepo,
		positionRepo: positionRepo,
		movementRepo: movementRepo,
		userRepo:     userRepo,
	}
}

// ListMaterials returns a paginated material overview
func (s *QueryService) ListMaterials(ctx context.Context, filter shared.Filter) (shared.Paginated[MaterialView], error) {
	page, err := s.materialRepo.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[MaterialView]{}, err
	}

	views := make([]MaterialView, 0, len(page.Items))
	for i := range page.Items {
		views = append(views, toMaterialView(&page.Items[i]))
	}
	return shared.Paginated[MaterialView]{
		Items:      views,
		Total:      page.Total,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages,
	}, nil
}

// ListInventory returns materials currently carrying stock together with
// the number of locations holding each
func (s *QueryService) ListInventory(ctx context.Context, filter shared.Filter) (shared.Paginated[InventoryView], error) {
	page, err := s.materialRepo.FindInStock(ctx, filter)
	if err != nil {
		return shared.Paginated[InventoryView]{}, err
	}

	materialIDs := make([]uuid.UUID, 0, len(page.Items))
	for i := range page.Items {
		materialIDs = append(materialIDs, page.Items[i].ID)
	}
	counts, err := s.positionRepo.CountByMaterialIDs(ctx, materialIDs)
	if err != nil {
		return shared.Paginated[InventoryView]{}, err
	}

	views := make([]InventoryView, 0, len(page.Items))
	for i := range page.Items {
		views = append(views, InventoryView{
			MaterialView:  toMaterialView(&page.Items[i]),
			PositionCount: counts[page.Items[i].ID],
		})
	}
	return shared.Paginated[InventoryView]{
		Items:      views,
		Total:      page.Total,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages,
	}, nil
}

// GetMaterial returns a material with all its positions
func (s *QueryService) GetMaterial(ctx context.Context, id uuid.UUID) (*MaterialDetailView, error) {
	material, err := s.materialRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	positions, err := s.positionRepo.FindByMaterial(ctx, id)
	if err != nil {
		return nil, err
	}

	locationByID, err := s.locationLookup(ctx, positionLocationIDs(positions))
	if err != nil {
		return nil, err
	}

	detail := &MaterialDetailView{
		MaterialView: toMaterialView(material),
		Positions:    make([]PositionView, 0, len(positions)),
	}
	for i := range positions {
		p := &positions[i]
		view := PositionView{
			MaterialID:  p.MaterialID,
			LocationID:  p.LocationID,
			Quantity:    p.Quantity,
			LastUpdated: p.LastUpdated,
		}
		if loc, ok := locationByID[p.LocationID]; ok {
			view.LocationCode = loc.LocationCode
			view.LocationName = loc.Name
		}
		detail.Positions = append(detail.Positions, view)
	}
	return detail, nil
}

// GetMaterialByNumber returns a material with its positions, looked up by number
func (s *QueryService) GetMaterialByNumber(ctx context.Context, materialNumber string) (*MaterialDetailView, error) {
	material, err := s.materialRepo.FindByNumber(ctx, materialNumber)
	if err != nil {
		return nil, err
	}
	return s.GetMaterial(ctx, material.ID)
}

// GetInventoryByLocation returns everything stored at one location
func (s *QueryService) GetInventoryByLocation(ctx context.Context, locationID uuid.UUID) ([]PositionView, error) {
	location, err := s.locationRepo.FindByID(ctx, locationID)
	if err != nil {
		return nil, err
	}
	positions, err := s.positionRepo.FindByLocation(ctx, locationID)
	if err != nil {
		return nil, err
	}

	views := make([]PositionView, 0, len(positions))
	for i := range positions {
		p := &positions[i]
		view := PositionView{
			MaterialID:   p.MaterialID,
			LocationID:   p.LocationID,
			LocationCode: location.LocationCode,
			LocationName: location.Name,
			Quantity:     p.Quantity,
			LastUpdated:  p.LastUpdated,
		}
		if material, err := s.materialRepo.FindByID(ctx, p.MaterialID); err == nil {
			view.MaterialNumber = material.MaterialNumber
			view.MaterialName = material.Name
			view.Unit = material.Unit
		}
		views = append(views, view)
	}
	return views, nil
}

// ListLowStock returns the materials currently under their minimum stock
func (s *QueryService) ListLowStock(ctx context.Context) ([]MaterialView, error) {
	materials, err := s.materialRepo.FindBelowMinStock(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]MaterialView, 0, len(materials))
	for i := range materials {
		views = append(views, toMaterialView(&materials[i]))
	}
	return views, nil
}

// ListMovements returns the ledger, newest first
func (s *QueryService) ListMovements(ctx context.Context, filter shared.Filter) (shared.Paginated[MovementView], error) {
	page, err := s.movementRepo.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[MovementView]{}, err
	}
	return s.toMovementPage(ctx, page)
}

// ListMovementsByMaterial returns one material's ledger entries, newest first
func (s *QueryService) ListMovementsByMaterial(ctx context.Context, materialID uuid.UUID, filter shared.Filter) (shared.Paginated[MovementView], error) {
	if _, err := s.materialRepo.FindByID(ctx, materialID); err != nil {
		return shared.Paginated[MovementView]{}, err
	}
	page, err := s.movementRepo.FindByMaterial(ctx, materialID, filter)
	if err != nil {
		return shared.Paginated[MovementView]{}, err
	}
	return s.toMovementPage(ctx, page)
}

// MovementStats returns the number of ledger entries per movement kind
func (s *QueryService) MovementStats(ctx context.Context) (map[stock.MovementKind]int64, error) {
	return s.movementRepo.CountByKind(ctx)
}

func (s *QueryService) toMovementPage(ctx context.Context, page shared.Paginated[stock.Movement]) (shared.Paginated[MovementView], error) {
	locationIDs := make([]uuid.UUID, 0, len(page.Items)*2)
	performerIDs := make([]uuid.UUID, 0, len(page.Items))
	for i := range page.Items {
		m := &page.Items[i]
		if m.FromLocationID != nil {
			locationIDs = append(locationIDs, *m.FromLocationID)
		}
		if m.ToLocationID != nil {
			locationIDs = append(locationIDs, *m.ToLocationID)
		}
		if m.PerformedBy != nil {
			performerIDs = append(performerIDs, *m.PerformedBy)
		}
	}

	locationByID, err := s.locationLookup(ctx, locationIDs)
	if err != nil {
		return shared.Paginated[MovementView]{}, err
	}
	performerByID, err := s.performerLookup(ctx, performerIDs)
	if err != nil {
		return shared.Paginated[MovementView]{}, err
	}

	views := make([]MovementView, 0, len(page.Items))
	for i := range page.Items {
		m := &page.Items[i]
		view := MovementView{
			ID:         m.ID,
			Kind:       m.Kind.String(),
			MaterialID: m.MaterialID,
			Quantity:   m.Quantity,
			Reason:     m.Reason,
			OccurredAt: m.OccurredAt,
		}
		if m.FromLocationID != nil {
			if loc, ok := locationByID[*m.FromLocationID]; ok {
				view.FromLocation = loc.LocationCode
			}
		}
		if m.ToLocationID != nil {
			if loc, ok := locationByID[*m.ToLocationID]; ok {
				view.ToLocation = loc.LocationCode
			}
		}
		if m.PerformedBy != nil {
			if name, ok := performerByID[*m.PerformedBy]; ok {
				view.PerformedBy = name
			}
		}
		views = append(views, view)
	}

	return shared.Paginated[MovementView]{
		Items:      views,
		Total:      page.Total,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages,
	}, nil
}

func (s *QueryService) locationLookup(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]stock.Location, error) {
	byID := make(map[uuid.UUID]stock.Location)
	if len(ids) == 0 {
		return byID, nil
	}
	locations, err := s.locationRepo.FindByIDs(ctx, dedupe(ids))
	if err != nil {
		return nil, err
	}
	for _, loc := range locations {
		byID[loc.ID] = loc
	}
	return byID, nil
}

func (s *QueryService) performerLookup(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	byID := make(map[uuid.UUID]string)
	if len(ids) == 0 || s.userRepo == nil {
		return byID, nil
	}
	users, err := s.userRepo.FindByIDs(ctx, dedupe(ids))
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		byID[u.ID] = u.DisplayName
	}
	return byID, nil
}

func toMaterialView(m *stock.Material) MaterialView {
	return MaterialView{
		ID:             m.ID,
		MaterialNumber: m.MaterialNumber,
		Name:           m.Name,
		Description:    m.Description,
		Unit:           m.Unit,
		Category:       m.Category,
		Condition:      m.Condition,
		MinStock:       m.MinStock,
		CurrentStock:   m.CurrentStock,
		LastLocation:   m.LastLocation,
		BelowMinStock:  m.IsBelowMinStock(),
		UpdatedAt:      m.UpdatedAt,
	}
}

func positionLocationIDs(positions []stock.Position) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(positions))
	for i := range positions {
		ids = append(ids, positions[i].LocationID)
	}
	return ids
}

func dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
