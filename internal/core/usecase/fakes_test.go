package usecase

import (
	"context"
	"strconv"
	"sync"
	"time"

	"property-service/internal/core/domain"
	"property-service/internal/core/port"

	"github.com/google/uuid"
)

// fakeStorage records calls and serves canned responses.
type fakeStorage struct {
	mu sync.Mutex

	findItems []domain.PropertyRecord
	findTotal int
	findErr   error
	findCalls int
	lastSort  domain.SortSpec
	lastLimit int
	lastOff   int

	records map[uuid.UUID]domain.PropertyRecord

	renewN   int
	expireN  int
	renewErr error

	addedViews map[uuid.UUID]int
	addViewErr error
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{
		records:    make(map[uuid.UUID]domain.PropertyRecord),
		addedViews: make(map[uuid.UUID]int),
	}
}

func (s *fakeStorage) FindAndCount(_ context.Context, _ domain.CompiledPredicate, sort domain.SortSpec, limit, offset int) ([]domain.PropertyRecord, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.findCalls++
	s.lastSort = sort
	s.lastLimit = limit
	s.lastOff = offset
	if s.findErr != nil {
		return nil, 0, s.findErr
	}
	return s.findItems, s.findTotal, nil
}

func (s *fakeStorage) FindByID(_ context.Context, id uuid.UUID) (*domain.PropertyRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findErr != nil {
		return nil, s.findErr
	}
	r, ok := s.records[id]
	if !ok {
		return nil, domain.ErrPropertyNotFound
	}
	return &r, nil
}

func (s *fakeStorage) Create(_ context.Context, record domain.PropertyRecord) (*domain.PropertyRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findErr != nil {
		return nil, s.findErr
	}
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	s.records[record.ID] = record
	return &record, nil
}

func (s *fakeStorage) Update(_ context.Context, record domain.PropertyRecord) (*domain.PropertyRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[record.ID]; !ok {
		return nil, domain.ErrPropertyNotFound
	}
	s.records[record.ID] = record
	return &record, nil
}

func (s *fakeStorage) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[id]; !ok {
		return domain.ErrPropertyNotFound
	}
	delete(s.records, id)
	return nil
}

func (s *fakeStorage) SetFeatured(_ context.Context, id uuid.UUID, featured bool) (*domain.PropertyRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.records[id]
	if !ok {
		return nil, domain.ErrPropertyNotFound
	}
	r.IsFeatured = featured
	s.records[id] = r
	return &r, nil
}

func (s *fakeStorage) RenewExpiring(_ context.Context, _, _ time.Duration) (int, error) {
	if s.renewErr != nil {
		return 0, s.renewErr
	}
	return s.renewN, nil
}

func (s *fakeStorage) ExpireOverdue(_ context.Context) (int, error) {
	return s.expireN, nil
}

func (s *fakeStorage) AddViews(_ context.Context, id uuid.UUID, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.addViewErr != nil {
		return s.addViewErr
	}
	s.addedViews[id] += delta
	return nil
}

// fakeSearchCache is an always-available in-memory cache.
type fakeSearchCache struct {
	mu sync.Mutex

	pages       map[string]*port.CachedResultPage
	details     map[uuid.UUID]domain.PropertyRecord
	views       map[uuid.UUID]int
	flushes     int
	invalidated []uuid.UUID
}

func newFakeSearchCache() *fakeSearchCache {
	return &fakeSearchCache{
		pages:   make(map[string]*port.CachedResultPage),
		details: make(map[uuid.UUID]domain.PropertyRecord),
		views:   make(map[uuid.UUID]int),
	}
}

// pageKey is a crude stand-in for real key derivation; tests only need
// same-filters lookups to collide.
func pageKey(f domain.SearchFilters) string {
	page, limit := f.NormalizePagination()
	key := strconv.Itoa(page) + ":" + strconv.Itoa(limit)
	if f.Keywords != nil {
		key += ":" + *f.Keywords
	}
	if f.ListingType != nil {
		key += ":" + *f.ListingType
	}
	return key
}

func (c *fakeSearchCache) GetSearchResults(_ context.Context, f domain.SearchFilters) *port.CachedResultPage {
	if f.IsUserScoped() {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pages[pageKey(f)]
}

func (c *fakeSearchCache) CacheSearchResults(_ context.Context, f domain.SearchFilters, items []domain.PropertyRecord, total int) {
	if f.IsUserScoped() {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pages[pageKey(f)] = &port.CachedResultPage{Items: items, TotalCount: total}
}

func (c *fakeSearchCache) InvalidateSearchCache(_ context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pages = make(map[string]*port.CachedResultPage)
	c.flushes++
}

func (c *fakeSearchCache) GetPropertyDetails(_ context.Context, id uuid.UUID) *domain.PropertyRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	if r, ok := c.details[id]; ok {
		return &r
	}
	return nil
}

func (c *fakeSearchCache) CachePropertyDetails(_ context.Context, record domain.PropertyRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.details[record.ID] = record
}

func (c *fakeSearchCache) InvalidatePropertyRelatedCache(_ context.Context, id uuid.UUID) {
	c.mu.Lock()
	delete(c.details, id)
	c.invalidated = append(c.invalidated, id)
	c.mu.Unlock()
	c.InvalidateSearchCache(context.Background())
}

func (c *fakeSearchCache) IncrementPropertyViews(_ context.Context, id uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.views[id]++
}

func (c *fakeSearchCache) DrainPropertyViews(_ context.Context, id uuid.UUID) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := c.views[id]
	delete(c.views, id)
	return n
}

func (c *fakeSearchCache) PendingViewIDs(_ context.Context) []uuid.UUID {
	c.mu.Lock()
	defer c.mu.Unlock()
	ids := make([]uuid.UUID, 0, len(c.views))
	for id := range c.views {
		ids = append(ids, id)
	}
	return ids
}

// fakeHistory records calls; done is signalled on every write so tests can
// wait for the async recording goroutine.
type fakeHistory struct {
	mu      sync.Mutex
	entries map[uuid.UUID][]domain.SearchHistoryEntry
	terms   []string
	done    chan struct{}
}

func newFakeHistory() *fakeHistory {
	return &fakeHistory{
		entries: make(map[uuid.UUID][]domain.SearchHistoryEntry),
		done:    make(chan struct{}, 16),
	}
}

func (h *fakeHistory) AddToSearchHistory(_ context.Context, userID uuid.UUID, criteria domain.SearchCriteria, resultsCount int) {
	h.mu.Lock()
	h.entries[userID] = append(h.entries[userID], domain.SearchHistoryEntry{Criteria: criteria, ResultsCount: resultsCount})
	h.mu.Unlock()
	h.done <- struct{}{}
}

func (h *fakeHistory) GetSearchHistory(_ context.Context, userID uuid.UUID, _, _ int) []domain.SearchHistoryEntry {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.entries[userID]
}

func (h *fakeHistory) TrackSearchTerm(_ context.Context, term string) {
	h.mu.Lock()
	h.terms = append(h.terms, term)
	h.mu.Unlock()
	h.done <- struct{}{}
}

func (h *fakeHistory) GetPopularSearchTerms(_ context.Context, _ int) []domain.PopularTerm {
	return nil
}

func (h *fakeHistory) GetSimilarSearches(_ context.Context, _ uuid.UUID, _ domain.SearchCriteria, _ int) []domain.SearchHistoryEntry {
	return nil
}

// fakeEvents captures published lifecycle events.
type fakeEvents struct {
	mu    sync.Mutex
	kinds []string
	err   error
}

func (e *fakeEvents) PublishLifecycleEvent(_ context.Context, kind string, _ *domain.PropertyRecord) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.err != nil {
		return e.err
	}
	e.kinds = append(e.kinds, kind)
	return nil
}
