package port

import (
	"context"

	"property-service/internal/core/domain"

	"github.com/google/uuid"
)

// CachedResultPage is the serialized form of one search page: the items plus
// the exact total known at store-read time.
type CachedResultPage struct {
	Items      []domain.PropertyRecord `json:"items"`
	TotalCount int                     `json:"total_count"`
}

// SearchCachePort is implemented by the cache service. A nil page from
// GetSearchResults means miss; failures surface as misses.
type SearchCachePort interface {
	GetSearchResults(ctx context.Context, filters domain.SearchFilters) *CachedResultPage
	CacheSearchResults(ctx context.Context, filters domain.SearchFilters, items []domain.PropertyRecord, totalCount int)
	// InvalidateSearchCache drops the whole search-result namespace.
	// Called by every property mutation.
	InvalidateSearchCache(ctx context.Context)

	GetPropertyDetails(ctx context.Context, id uuid.UUID) *domain.PropertyRecord
	CachePropertyDetails(ctx context.Context, record domain.PropertyRecord)
	InvalidatePropertyRelatedCache(ctx context.Context, id uuid.UUID)

	// IncrementPropertyViews bumps a cache-local counter; the sweep use case
	// reconciles it with the store. Not authoritative.
	IncrementPropertyViews(ctx context.Context, id uuid.UUID)
	// DrainPropertyViews atomically reads and resets the pending counter.
	DrainPropertyViews(ctx context.Context, id uuid.UUID) int
	// PendingViewIDs lists properties with undrained view counters.
	PendingViewIDs(ctx context.Context) []uuid.UUID
}
