package rediscache

import (
	"crypto/sha256"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"property-service/internal/constants"
	"property-service/internal/core/domain"
)

// buildSearchKey derives the deterministic cache key for a filter set.
// Canonicalization rules, centralized here and nowhere else:
//   - only present fields contribute, as "name=value" parts;
//   - parts are sorted by name before hashing, so the key is independent of
//     construction order;
//   - strings are lower-cased and trimmed, string sets are sorted;
//   - floats use the shortest round-trip formatting, never %v;
//   - pagination and sort are part of the key: page 2 must not collide with
//     page 1 of the same filters.
//
// Two logically identical filter sets always collide to the same key; the
// sha256 digest keeps key length flat regardless of filter complexity.
func buildSearchKey(f domain.SearchFilters) string {
	page, limit := f.NormalizePagination()

	parts := []string{
		"page=" + strconv.Itoa(page),
		"limit=" + strconv.Itoa(limit),
	}
	add := func(name, value string) {
		parts = append(parts, name+"="+value)
	}

	if len(f.PropertyTypes) > 0 {
		add("property_types", canonicalSet(f.PropertyTypes))
	}
	if f.ListingType != nil {
		add("listing_type", canonicalString(*f.ListingType))
	}
	if f.Status != nil {
		add("status", canonicalString(*f.Status))
	}
	if f.MinPrice != nil {
		add("min_price", canonicalFloat(*f.MinPrice))
	}
	if f.MaxPrice != nil {
		add("max_price", canonicalFloat(*f.MaxPrice))
	}
	if f.MinArea != nil {
		add("min_area", canonicalFloat(*f.MinArea))
	}
	if f.MaxArea != nil {
		add("max_area", canonicalFloat(*f.MaxArea))
	}
	if f.Bedrooms != nil {
		add("bedrooms", strconv.Itoa(*f.Bedrooms))
	}
	if f.Bathrooms != nil {
		add("bathrooms", strconv.Itoa(*f.Bathrooms))
	}
	if f.Location != nil && *f.Location != "" {
		add("location", canonicalString(*f.Location))
	}
	if f.Keywords != nil && *f.Keywords != "" {
		add("keywords", canonicalString(*f.Keywords))
	}
	if len(f.Amenities) > 0 {
		add("amenities", canonicalSet(f.Amenities))
	}
	if f.Latitude != nil {
		add("latitude", canonicalFloat(*f.Latitude))
	}
	if f.Longitude != nil {
		add("longitude", canonicalFloat(*f.Longitude))
	}
	if f.RadiusKm != nil {
		add("radius_km", canonicalFloat(*f.RadiusKm))
	}
	if f.OwnerID != nil {
		// Owner-scoped searches are never cached, but the key stays total
		// over the filter space anyway.
		add("owner_id", strings.ToLower(f.OwnerID.String()))
	}
	if f.IsActive != nil {
		add("is_active", strconv.FormatBool(*f.IsActive))
	}
	if f.IsFeatured != nil {
		add("is_featured", strconv.FormatBool(*f.IsFeatured))
	}
	if f.SortBy != nil && *f.SortBy != "" {
		add("sort_by", canonicalString(*f.SortBy))
	}
	if f.SortOrder != nil && *f.SortOrder != "" {
		add("sort_order", canonicalString(*f.SortOrder))
	}

	sort.Strings(parts)
	digest := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return constants.SearchResultsPrefix + fmt.Sprintf("%x", digest)
}

func canonicalString(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func canonicalFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// canonicalSet normalizes and sorts set-valued fields, so {"b","a"} and
// {"a","b"} produce the same key segment.
func canonicalSet(values []string) string {
	normalized := make([]string, 0, len(values))
	for _, v := range values {
		normalized = append(normalized, canonicalString(v))
	}
	sort.Strings(normalized)
	return strings.Join(normalized, ",")
}
