package rediscache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"property-service/internal/constants"
	"property-service/internal/core/domain"

	"github.com/google/uuid"
)

func newTestTracker(kv *fakeKV) *HistoryTracker {
	return NewHistoryTracker(kv, HistoryTrackerConfig{
		HistoryTTL:       30 * 24 * time.Hour,
		PopularityWindow: 24 * time.Hour,
	}, quietLogger{})
}

func TestSearchHistoryNewestFirstAndCapped(t *testing.T) {
	kv := newFakeKV()
	tracker := newTestTracker(kv)
	ctx := context.Background()
	userID := uuid.New()

	for i := 0; i < historyCap+10; i++ {
		city := fmt.Sprintf("city-%d", i)
		tracker.AddToSearchHistory(ctx, userID, domain.SearchCriteria{Cities: []string{city}}, i)
	}

	history := tracker.GetSearchHistory(ctx, userID, historyCap+10, 0)
	if len(history) != historyCap {
		t.Fatalf("history length = %d, want cap %d", len(history), historyCap)
	}
	// Newest entry first; the oldest ten were trimmed away.
	if got := history[0].Criteria.Cities[0]; got != fmt.Sprintf("city-%d", historyCap+9) {
		t.Errorf("head entry = %q, want newest", got)
	}
	if got := history[len(history)-1].Criteria.Cities[0]; got != "city-10" {
		t.Errorf("tail entry = %q, want city-10", got)
	}
}

func TestSearchHistoryPagination(t *testing.T) {
	kv := newFakeKV()
	tracker := newTestTracker(kv)
	ctx := context.Background()
	userID := uuid.New()

	for i := 0; i < 5; i++ {
		tracker.AddToSearchHistory(ctx, userID, domain.SearchCriteria{Cities: []string{fmt.Sprintf("city-%d", i)}}, i)
	}

	page := tracker.GetSearchHistory(ctx, userID, 2, 2)
	if len(page) != 2 {
		t.Fatalf("page length = %d, want 2", len(page))
	}
	if page[0].Criteria.Cities[0] != "city-2" || page[1].Criteria.Cities[0] != "city-1" {
		t.Errorf("unexpected page contents: %q, %q", page[0].Criteria.Cities[0], page[1].Criteria.Cities[0])
	}
}

func TestSearchHistoryIsolatedPerUser(t *testing.T) {
	kv := newFakeKV()
	tracker := newTestTracker(kv)
	ctx := context.Background()

	alice, bob := uuid.New(), uuid.New()
	tracker.AddToSearchHistory(ctx, alice, domain.SearchCriteria{Keywords: sp("garden")}, 3)

	if got := tracker.GetSearchHistory(ctx, bob, 10, 0); len(got) != 0 {
		t.Errorf("bob sees alice's history: %+v", got)
	}
}

func TestTrackSearchTermNormalizationAndRanking(t *testing.T) {
	kv := newFakeKV()
	tracker := newTestTracker(kv)
	ctx := context.Background()

	// Case/whitespace variants of one term aggregate together.
	tracker.TrackSearchTerm(ctx, "Garden")
	tracker.TrackSearchTerm(ctx, " garden ")
	tracker.TrackSearchTerm(ctx, "GARDEN")
	tracker.TrackSearchTerm(ctx, "pool")
	// Too short to track.
	tracker.TrackSearchTerm(ctx, "ny")
	tracker.TrackSearchTerm(ctx, "  a ")

	terms := tracker.GetPopularSearchTerms(ctx, 10)
	if len(terms) != 2 {
		t.Fatalf("tracked %d terms, want 2: %+v", len(terms), terms)
	}
	if terms[0].Term != "garden" || terms[0].Score != 3 {
		t.Errorf("top term = %+v, want garden/3", terms[0])
	}
	if terms[1].Term != "pool" || terms[1].Score != 1 {
		t.Errorf("second term = %+v, want pool/1", terms[1])
	}
}

func TestTrackSearchTermWindowSetOnce(t *testing.T) {
	kv := newFakeKV()
	tracker := newTestTracker(kv)
	ctx := context.Background()

	tracker.TrackSearchTerm(ctx, "garden")
	tracker.TrackSearchTerm(ctx, "garden")
	tracker.TrackSearchTerm(ctx, "pool")

	// Only the creating increment arms the window; later ones must not
	// extend it.
	if kv.expires != 1 {
		t.Errorf("window expiry set %d times, want 1", kv.expires)
	}
	if ttl := kv.ttls[constants.PopularTermsKey]; ttl != 24*time.Hour {
		t.Errorf("window = %v, want 24h", ttl)
	}
}

func TestGetPopularSearchTermsLimit(t *testing.T) {
	kv := newFakeKV()
	tracker := newTestTracker(kv)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		term := fmt.Sprintf("term-%d", i)
		for j := 0; j <= i; j++ {
			tracker.TrackSearchTerm(ctx, term)
		}
	}

	terms := tracker.GetPopularSearchTerms(ctx, 3)
	if len(terms) != 3 {
		t.Fatalf("got %d terms, want 3", len(terms))
	}
	if terms[0].Term != "term-4" {
		t.Errorf("top term = %q, want term-4", terms[0].Term)
	}
}

func TestGetSimilarSearches(t *testing.T) {
	kv := newFakeKV()
	tracker := newTestTracker(kv)
	ctx := context.Background()
	userID := uuid.New()

	tracker.AddToSearchHistory(ctx, userID, domain.SearchCriteria{
		PropertyTypes: []string{domain.PropertyTypeApartment},
		MinPrice:      fp(100000), MaxPrice: fp(200000),
	}, 12)
	tracker.AddToSearchHistory(ctx, userID, domain.SearchCriteria{
		PropertyTypes: []string{domain.PropertyTypeLand},
	}, 0)

	similar := tracker.GetSimilarSearches(ctx, userID, domain.SearchCriteria{
		PropertyTypes: []string{domain.PropertyTypeApartment, domain.PropertyTypeHouse},
		MinPrice:      fp(150000), MaxPrice: fp(250000),
	}, 10)
	if len(similar) != 1 {
		t.Fatalf("got %d similar entries, want 1: %+v", len(similar), similar)
	}
	if similar[0].ResultsCount != 12 {
		t.Errorf("matched the wrong entry: %+v", similar[0])
	}
}

func TestHistoryDegradedCacheReturnsEmpty(t *testing.T) {
	kv := newFakeKV()
	kv.down = true
	tracker := newTestTracker(kv)
	ctx := context.Background()
	userID := uuid.New()

	tracker.AddToSearchHistory(ctx, userID, domain.SearchCriteria{Keywords: sp("garden")}, 1)
	tracker.TrackSearchTerm(ctx, "garden")

	if got := tracker.GetSearchHistory(ctx, userID, 10, 0); len(got) != 0 {
		t.Errorf("degraded tracker returned history: %+v", got)
	}
	if got := tracker.GetPopularSearchTerms(ctx, 10); len(got) != 0 {
		t.Errorf("degraded tracker returned terms: %+v", got)
	}
}
