package usecases_port

import (
	"context"

	"property-service/internal/core/domain"

	"github.com/google/uuid"
)

// SearchPropertiesUseCasePort is the public entry point of the search core.
// userID is nil for anonymous callers; identified callers additionally get
// their search recorded in history.
type SearchPropertiesUseCasePort interface {
	Execute(ctx context.Context, filters domain.SearchFilters, userID *uuid.UUID) (*domain.PaginatedResult, error)
}
