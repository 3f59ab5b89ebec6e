package usecases_port

import (
	"context"

	"property-service/internal/core/domain"

	"github.com/google/uuid"
)

type GetSearchHistoryUseCasePort interface {
	Execute(ctx context.Context, userID uuid.UUID, limit, offset int) []domain.SearchHistoryEntry
}

type GetPopularTermsUseCasePort interface {
	Execute(ctx context.Context, limit int) []domain.PopularTerm
}

type GetSimilarSearchesUseCasePort interface {
	Execute(ctx context.Context, userID uuid.UUID, criteria domain.SearchCriteria, limit int) []domain.SearchHistoryEntry
}
