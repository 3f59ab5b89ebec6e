package rediscache

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"property-service/internal/constants"
	"property-service/internal/core/domain"
	"property-service/internal/core/port"

	"github.com/google/uuid"
)

const (
	historyCap = 50
	minTermLen = 3
)

// HistoryTrackerConfig carries the retention policy.
type HistoryTrackerConfig struct {
	// HistoryTTL is rolling: every write renews it, so a user's history
	// expires only after this long without any search.
	HistoryTTL time.Duration
	// PopularityWindow bounds the popularity aggregation. The whole sorted
	// set expires together, resetting all scores at once.
	PopularityWindow time.Duration
}

// HistoryTracker implements port.SearchHistoryPort over the key-value cache.
// History lives in per-user lists (newest first, capped), popularity in one
// shared sorted set.
type HistoryTracker struct {
	kv     port.KeyValueCachePort
	cfg    HistoryTrackerConfig
	logger port.LoggerPort
}

func NewHistoryTracker(kv port.KeyValueCachePort, cfg HistoryTrackerConfig, logger port.LoggerPort) *HistoryTracker {
	if cfg.HistoryTTL <= 0 {
		cfg.HistoryTTL = 30 * 24 * time.Hour
	}
	if cfg.PopularityWindow <= 0 {
		cfg.PopularityWindow = 24 * time.Hour
	}
	return &HistoryTracker{
		kv:     kv,
		cfg:    cfg,
		logger: logger.WithFields(port.Fields{"component": "history_tracker"}),
	}
}

func historyKey(userID uuid.UUID) string {
	return constants.SearchHistoryPrefix + userID.String()
}

// AddToSearchHistory prepends the entry, trims to the cap and renews the
// rolling TTL. Trimming happens on every write so the list never grows past
// the cap even under concurrent pushes.
func (t *HistoryTracker) AddToSearchHistory(ctx context.Context, userID uuid.UUID, criteria domain.SearchCriteria, resultsCount int) {
	entry := domain.SearchHistoryEntry{
		ID:           uuid.New(),
		Criteria:     criteria,
		Timestamp:    time.Now().UTC(),
		ResultsCount: resultsCount,
	}
	payload, err := json.Marshal(entry)
	if err != nil {
		t.logger.Warn("Failed to encode history entry", port.Fields{"error": err.Error()})
		return
	}
	key := historyKey(userID)
	if !t.kv.ListPush(ctx, key, string(payload)) {
		return
	}
	t.kv.ListTrim(ctx, key, 0, historyCap-1)
	t.kv.Expire(ctx, key, t.cfg.HistoryTTL)
}

// GetSearchHistory returns the user's recorded searches, newest first.
// Undecodable entries are skipped, not fatal; the list still serves.
func (t *HistoryTracker) GetSearchHistory(ctx context.Context, userID uuid.UUID, limit, offset int) []domain.SearchHistoryEntry {
	if limit <= 0 {
		limit = historyCap
	}
	if offset < 0 {
		offset = 0
	}
	raws, ok := t.kv.ListRange(ctx, historyKey(userID), int64(offset), int64(offset+limit-1))
	if !ok {
		return nil
	}
	entries := make([]domain.SearchHistoryEntry, 0, len(raws))
	for _, raw := range raws {
		var entry domain.SearchHistoryEntry
		if err := json.Unmarshal([]byte(raw), &entry); err != nil {
			t.logger.Warn("Skipping undecodable history entry", port.Fields{"user_id": userID.String(), "error": err.Error()})
			continue
		}
		entries = append(entries, entry)
	}
	return entries
}

// TrackSearchTerm bumps the normalized term's popularity score. Terms
// shorter than the minimum are noise and are dropped. The aggregation key
// expires as a whole; the expiry is set only when the key is first created
// so mid-window increments do not extend the window.
func (t *HistoryTracker) TrackSearchTerm(ctx context.Context, term string) {
	normalized := strings.ToLower(strings.TrimSpace(term))
	if len(normalized) < minTermLen {
		return
	}
	existed := t.kv.Exists(ctx, constants.PopularTermsKey)
	if !t.kv.SortedIncr(ctx, constants.PopularTermsKey, normalized, 1) {
		return
	}
	if !existed {
		t.kv.Expire(ctx, constants.PopularTermsKey, t.cfg.PopularityWindow)
	}
}

func (t *HistoryTracker) GetPopularSearchTerms(ctx context.Context, limit int) []domain.PopularTerm {
	if limit <= 0 {
		limit = 10
	}
	members, ok := t.kv.SortedTop(ctx, constants.PopularTermsKey, int64(limit))
	if !ok {
		return nil
	}
	terms := make([]domain.PopularTerm, 0, len(members))
	for _, m := range members {
		terms = append(terms, domain.PopularTerm{Term: m.Member, Score: m.Score})
	}
	return terms
}

// GetSimilarSearches scans the user's own history for entries whose criteria
// overlap the given ones. The history is capped, so a full scan is cheap.
func (t *HistoryTracker) GetSimilarSearches(ctx context.Context, userID uuid.UUID, criteria domain.SearchCriteria, limit int) []domain.SearchHistoryEntry {
	if limit <= 0 {
		limit = 10
	}
	history := t.GetSearchHistory(ctx, userID, historyCap, 0)
	similar := make([]domain.SearchHistoryEntry, 0, limit)
	for _, entry := range history {
		if !domain.AreCriteriaSimilar(criteria, entry.Criteria) {
			continue
		}
		similar = append(similar, entry)
		if len(similar) >= limit {
			break
		}
	}
	return similar
}
