package usecase

import (
	"context"

	"property-service/internal/core/domain"
	"property-service/internal/core/port"

	"github.com/google/uuid"
)

// Thin read-side use cases over the history tracker. They exist so the REST
// layer depends on use-case ports only, never on adapter ports directly.

type GetSearchHistoryUseCase struct {
	history port.SearchHistoryPort
}

func NewGetSearchHistoryUseCase(history port.SearchHistoryPort) *GetSearchHistoryUseCase {
	return &GetSearchHistoryUseCase{history: history}
}

func (uc *GetSearchHistoryUseCase) Execute(ctx context.Context, userID uuid.UUID, limit, offset int) []domain.SearchHistoryEntry {
	return uc.history.GetSearchHistory(ctx, userID, limit, offset)
}

type GetPopularTermsUseCase struct {
	history port.SearchHistoryPort
}

func NewGetPopularTermsUseCase(history port.SearchHistoryPort) *GetPopularTermsUseCase {
	return &GetPopularTermsUseCase{history: history}
}

func (uc *GetPopularTermsUseCase) Execute(ctx context.Context, limit int) []domain.PopularTerm {
	return uc.history.GetPopularSearchTerms(ctx, limit)
}

type GetSimilarSearchesUseCase struct {
	history port.SearchHistoryPort
}

func NewGetSimilarSearchesUseCase(history port.SearchHistoryPort) *GetSimilarSearchesUseCase {
	return &GetSimilarSearchesUseCase{history: history}
}

func (uc *GetSimilarSearchesUseCase) Execute(ctx context.Context, userID uuid.UUID, criteria domain.SearchCriteria, limit int) []domain.SearchHistoryEntry {
	return uc.history.GetSimilarSearches(ctx, userID, criteria, limit)
}
