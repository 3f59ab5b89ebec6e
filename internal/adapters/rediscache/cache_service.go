// Package rediscache implements the result-cache coordination layer: search
// result pages, per-property detail entries and view counters, plus the
// search history tracker. All state lives in the remote key-value cache so
// it survives process restarts and is shared across instances.
package rediscache

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"property-service/internal/constants"
	"property-service/internal/core/domain"
	"property-service/internal/core/port"

	"github.com/google/uuid"
)

// CacheServiceConfig carries the TTL policy.
type CacheServiceConfig struct {
	// SearchTTL bounds staleness for entries written during the
	// invalidate/write race window.
	SearchTTL   time.Duration
	PropertyTTL time.Duration
}

// CacheService implements port.SearchCachePort.
type CacheService struct {
	kv     port.KeyValueCachePort
	cfg    CacheServiceConfig
	logger port.LoggerPort
}

func NewCacheService(kv port.KeyValueCachePort, cfg CacheServiceConfig, logger port.LoggerPort) (*CacheService, error) {
	if kv == nil {
		return nil, fmt.Errorf("key-value cache port cannot be nil")
	}
	if cfg.SearchTTL <= 0 {
		cfg.SearchTTL = 5 * time.Minute
	}
	if cfg.PropertyTTL <= 0 {
		cfg.PropertyTTL = 10 * time.Minute
	}
	return &CacheService{
		kv:     kv,
		cfg:    cfg,
		logger: logger.WithFields(port.Fields{"component": "cache_service"}),
	}, nil
}

// GetSearchResults returns the cached page for these filters, or nil on
// miss. User-scoped queries never consult the cache.
func (s *CacheService) GetSearchResults(ctx context.Context, filters domain.SearchFilters) *port.CachedResultPage {
	if filters.IsUserScoped() {
		return nil
	}
	raw, ok := s.kv.Get(ctx, buildSearchKey(filters))
	if !ok {
		return nil
	}
	var page port.CachedResultPage
	if err := json.Unmarshal([]byte(raw), &page); err != nil {
		s.logger.Warn("Dropping undecodable cached search page", port.Fields{"error": err.Error()})
		return nil
	}
	return &page
}

// CacheSearchResults writes through a freshly fetched page.
//
// A mutation's InvalidateSearchCache may interleave with this write: a search
// that started just before the mutation can store a pre-mutation page just
// after the flush. That stale entry survives at most until the next
// invalidation or the TTL, whichever comes first: an accepted bounded
// window, not a freshness guarantee violation.
func (s *CacheService) CacheSearchResults(ctx context.Context, filters domain.SearchFilters, items []domain.PropertyRecord, totalCount int) {
	if filters.IsUserScoped() {
		return
	}
	payload, err := json.Marshal(port.CachedResultPage{Items: items, TotalCount: totalCount})
	if err != nil {
		s.logger.Warn("Failed to encode search page for caching", port.Fields{"error": err.Error()})
		return
	}
	s.kv.Set(ctx, buildSearchKey(filters), string(payload), s.cfg.SearchTTL)
}

// InvalidateSearchCache drops the entire search-result namespace. Computing
// which cached keys a given mutation could affect is intractable for
// arbitrary filter combinations, so every mutation pays for a full flush.
// Correctness over hit-rate.
func (s *CacheService) InvalidateSearchCache(ctx context.Context) {
	if !s.kv.DelByPrefix(ctx, constants.SearchResultsPrefix) {
		s.logger.Debug("Search cache flush skipped, cache unavailable", nil)
	}
}

// GetPropertyDetails reads the per-entity cache (independent namespace).
func (s *CacheService) GetPropertyDetails(ctx context.Context, id uuid.UUID) *domain.PropertyRecord {
	raw, ok := s.kv.Get(ctx, constants.PropertyDetailsPrefix+id.String())
	if !ok {
		return nil
	}
	var record domain.PropertyRecord
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		s.logger.Warn("Dropping undecodable cached property", port.Fields{"property_id": id.String(), "error": err.Error()})
		return nil
	}
	return &record
}

func (s *CacheService) CachePropertyDetails(ctx context.Context, record domain.PropertyRecord) {
	payload, err := json.Marshal(record)
	if err != nil {
		s.logger.Warn("Failed to encode property for caching", port.Fields{"property_id": record.ID.String(), "error": err.Error()})
		return
	}
	s.kv.Set(ctx, constants.PropertyDetailsPrefix+record.ID.String(), string(payload), s.cfg.PropertyTTL)
}

// InvalidatePropertyRelatedCache drops the entity entry and, because the
// record could have matched any cached search, the search namespace too.
func (s *CacheService) InvalidatePropertyRelatedCache(ctx context.Context, id uuid.UUID) {
	s.kv.Del(ctx, constants.PropertyDetailsPrefix+id.String())
	s.InvalidateSearchCache(ctx)
}

// IncrementPropertyViews bumps the cache-local counter. The counter is an
// approximation: increments are lost while the cache is degraded.
func (s *CacheService) IncrementPropertyViews(ctx context.Context, id uuid.UUID) {
	s.kv.IncrBy(ctx, constants.PropertyViewsPrefix+id.String(), 1)
}

// DrainPropertyViews atomically collects and resets the pending counter for
// store reconciliation.
func (s *CacheService) DrainPropertyViews(ctx context.Context, id uuid.UUID) int {
	raw, ok := s.kv.GetDel(ctx, constants.PropertyViewsPrefix+id.String())
	if !ok {
		return 0
	}
	pending, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return pending
}

// PendingViewIDs lists the properties whose view counters await draining.
func (s *CacheService) PendingViewIDs(ctx context.Context) []uuid.UUID {
	keys, ok := s.kv.ScanKeys(ctx, constants.PropertyViewsPrefix)
	if !ok {
		return nil
	}
	ids := make([]uuid.UUID, 0, len(keys))
	for _, key := range keys {
		id, err := uuid.Parse(key[len(constants.PropertyViewsPrefix):])
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}
