package port

import (
	"context"

	"property-service/internal/core/domain"

	"github.com/google/uuid"
)

// SearchHistoryPort records executed searches and aggregates term popularity.
// It sits off the critical path: every method absorbs backend failures and
// returns empty results instead of errors.
type SearchHistoryPort interface {
	AddToSearchHistory(ctx context.Context, userID uuid.UUID, criteria domain.SearchCriteria, resultsCount int)
	GetSearchHistory(ctx context.Context, userID uuid.UUID, limit, offset int) []domain.SearchHistoryEntry

	TrackSearchTerm(ctx context.Context, term string)
	GetPopularSearchTerms(ctx context.Context, limit int) []domain.PopularTerm

	GetSimilarSearches(ctx context.Context, userID uuid.UUID, criteria domain.SearchCriteria, limit int) []domain.SearchHistoryEntry
}
