package usecase

import (
	"context"
	"fmt"

	"property-service/internal/contextkeys"
	"property-service/internal/core/domain"
	"property-service/internal/core/port"
	"property-service/internal/core/search"

	"github.com/google/uuid"
)

// SearchPropertiesUseCase is the search orchestrator: cache lookup, filter
// compilation, store fetch, write-through, and asynchronous history
// recording. The store is the only hard dependency; cache and history
// failures degrade to slower or quieter behavior, never to errors.
type SearchPropertiesUseCase struct {
	storage port.PropertyStoragePort
	cache   port.SearchCachePort
	history port.SearchHistoryPort
}

func NewSearchPropertiesUseCase(storage port.PropertyStoragePort,
	cache port.SearchCachePort,
	history port.SearchHistoryPort) *SearchPropertiesUseCase {
	return &SearchPropertiesUseCase{
		storage: storage,
		cache:   cache,
		history: history,
	}
}

func (uc *SearchPropertiesUseCase) Execute(ctx context.Context, filters domain.SearchFilters, userID *uuid.UUID) (*domain.PaginatedResult, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{"use_case": "SearchProperties"})

	page, limit := filters.NormalizePagination()

	// Owner-scoped searches skip the shared cache entirely: the key space
	// stays public and per-user pages never leak between users.
	if cached := uc.cache.GetSearchResults(ctx, filters); cached != nil {
		ucLogger.Debug("Serving search from cache", port.Fields{"total": cached.TotalCount})
		uc.recordSearch(ctx, filters, userID, cached.TotalCount)
		return domain.NewPaginatedResult(cached.Items, page, limit, cached.TotalCount), nil
	}

	predicate := search.Compile(filters)
	items, total, err := uc.storage.FindAndCount(ctx, predicate, filters.ResolveSort(), limit, (page-1)*limit)
	if err != nil {
		ucLogger.Error("Property store query failed", err, nil)
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}

	uc.cache.CacheSearchResults(ctx, filters, items, total)
	uc.recordSearch(ctx, filters, userID, total)

	return domain.NewPaginatedResult(items, page, limit, total), nil
}

// recordSearch forwards the search to the history tracker off the request
// path. The goroutine carries the request logger into a fresh context so it
// outlives the HTTP request deadline.
func (uc *SearchPropertiesUseCase) recordSearch(ctx context.Context, filters domain.SearchFilters, userID *uuid.UUID, resultsCount int) {
	logger := contextkeys.LoggerFromContext(ctx)
	backgroundCtx := contextkeys.ContextWithLogger(context.Background(), logger)
	backgroundCtx = contextkeys.ContextWithTraceID(backgroundCtx, contextkeys.TraceIDFromContext(ctx))

	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("Search history recording panicked", fmt.Errorf("%v", r), nil)
			}
		}()

		if filters.Keywords != nil {
			uc.history.TrackSearchTerm(backgroundCtx, *filters.Keywords)
		}
		if userID != nil {
			uc.history.AddToSearchHistory(backgroundCtx, *userID, domain.CriteriaFromFilters(filters), resultsCount)
		}
	}()
}
