package domain

import (
	"time"

	"github.com/google/uuid"
)

// SearchCriteria is the reduced filter form kept in a user's search history.
// Only the dimensions that similarity comparison understands are stored.
type SearchCriteria struct {
	PropertyTypes []string `json:"property_types,omitempty"`
	ListingType   *string  `json:"listing_type,omitempty"`
	Cities        []string `json:"cities,omitempty"`
	MinPrice      *float64 `json:"min_price,omitempty"`
	MaxPrice      *float64 `json:"max_price,omitempty"`
	Keywords      *string  `json:"keywords,omitempty"`
}

// SearchHistoryEntry is one recorded search, owned per user.
type SearchHistoryEntry struct {
	ID           uuid.UUID      `json:"id"`
	Criteria     SearchCriteria `json:"criteria"`
	Timestamp    time.Time      `json:"timestamp"`
	ResultsCount int            `json:"results_count"`
}

// PopularTerm is a normalized search term with its popularity score.
type PopularTerm struct {
	Term  string  `json:"term"`
	Score float64 `json:"score"`
}

// CriteriaFromFilters projects full search filters onto the history form.
func CriteriaFromFilters(f SearchFilters) SearchCriteria {
	c := SearchCriteria{
		ListingType: f.ListingType,
		MinPrice:    f.MinPrice,
		MaxPrice:    f.MaxPrice,
		Keywords:    f.Keywords,
	}
	if len(f.PropertyTypes) > 0 {
		c.PropertyTypes = append([]string(nil), f.PropertyTypes...)
	}
	if f.Location != nil && *f.Location != "" {
		c.Cities = []string{*f.Location}
	}
	return c
}

// AreCriteriaSimilar compares two criteria sets dimension by dimension:
// property-type set intersection, listing-type equality, city set
// intersection and price-range overlap. Every dimension present on both
// sides must match; a dimension absent on either side is skipped.
func AreCriteriaSimilar(a, b SearchCriteria) bool {
	if len(a.PropertyTypes) > 0 && len(b.PropertyTypes) > 0 {
		if !stringSetsIntersect(a.PropertyTypes, b.PropertyTypes) {
			return false
		}
	}
	if a.ListingType != nil && b.ListingType != nil {
		if *a.ListingType != *b.ListingType {
			return false
		}
	}
	if len(a.Cities) > 0 && len(b.Cities) > 0 {
		if !stringSetsIntersect(a.Cities, b.Cities) {
			return false
		}
	}
	if hasPriceRange(a) && hasPriceRange(b) {
		if !priceRangesOverlap(a, b) {
			return false
		}
	}
	return true
}

func hasPriceRange(c SearchCriteria) bool {
	return c.MinPrice != nil || c.MaxPrice != nil
}

// priceRangesOverlap is an interval intersection test; a missing bound is
// treated as unbounded on that side.
func priceRangesOverlap(a, b SearchCriteria) bool {
	aMin, aMax := boundsOf(a)
	bMin, bMax := boundsOf(b)
	return aMin <= bMax && bMin <= aMax
}

func boundsOf(c SearchCriteria) (min, max float64) {
	min = 0
	max = float64(1<<63 - 1)
	if c.MinPrice != nil {
		min = *c.MinPrice
	}
	if c.MaxPrice != nil {
		max = *c.MaxPrice
	}
	return min, max
}

func stringSetsIntersect(a, b []string) bool {
	set := make(map[string]bool, len(a))
	for _, v := range a {
		set[v] = true
	}
	for _, v := range b {
		if set[v] {
			return true
		}
	}
	return false
}
