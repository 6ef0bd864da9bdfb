package persistence

import (
	"fmt"
	"strings"

	"github.com/lager/backend/internal/domain/shared"
)

// Sortable column allowlist shared by the list queries. Anything else
// falls back to the caller's default column.
var sortableColumns = map[string]bool{
	"created_at":      true,
	"updated_at":      true,
	"material_number": true,
	"name":            true,
	"location_code":   true,
	"occurred_at":     true,
	"current_stock":   true,
	"quantity":        true,
}

func orderClause(filter shared.Filter, defaultColumn string) string {
	column := strings.ToLower(filter.OrderBy)
	if !sortableColumns[column] {
		column = defaultColumn
	}
	direction := "ASC"
	if strings.EqualFold(filter.OrderDir, "desc") {
		direction = "DESC"
	}
	return fmt.Sprintf("%s %s", column, direction)
}

func page(filter shared.Filter) int {
	if filter.Page < 1 {
		return 1
	}
	return filter.Page
}

func pageSize(filter shared.Filter) int {
	if filter.PageSize < 1 {
		return 20
	}
	if filter.PageSize > 200 {
		return 200
	}
	return filter.PageSize
}
