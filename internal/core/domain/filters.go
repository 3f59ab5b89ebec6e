package domain

import (
	"github.com/google/uuid"
)

// Sort fields accepted in SearchFilters.SortBy.
const (
	SortByPrice     = "price"
	SortByArea      = "area"
	SortByCreatedAt = "created_at"
	SortByViews     = "views_count"
)

const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// SearchFilters carries every optional search constraint. A nil pointer or an
// empty slice means "unconstrained"; it must never be read as false/zero.
type SearchFilters struct {
	PropertyTypes []string
	ListingType   *string
	Status        *string

	MinPrice *float64
	MaxPrice *float64
	MinArea  *float64
	MaxArea  *float64

	Bedrooms  *int
	Bathrooms *int

	Location *string
	Keywords *string

	Amenities []string

	Latitude  *float64
	Longitude *float64
	RadiusKm  *float64

	// OwnerID scopes the search to a single user's records ("my properties").
	// Owner-scoped searches bypass the shared result cache.
	OwnerID *uuid.UUID

	IsActive   *bool
	IsFeatured *bool

	SortBy    *string
	SortOrder *string

	Page     int
	PageSize int
}

// IsUserScoped reports whether the query is constrained to one user's own
// records and therefore ineligible for the shared cache.
func (f SearchFilters) IsUserScoped() bool {
	return f.OwnerID != nil
}

// NormalizePagination returns page and limit with defaults applied and the
// page size clamped, leaving the filters themselves untouched.
func (f SearchFilters) NormalizePagination() (page, limit int) {
	page = f.Page
	if page < 1 {
		page = 1
	}
	limit = f.PageSize
	if limit < 1 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return page, limit
}

// SortSpec is the resolved ordering for a search: explicit SortBy wins,
// otherwise featured listings come first, newest first within each group.
type SortSpec struct {
	Field string
	Order string
	// FeaturedFirst selects the default two-key sort
	// (is_featured DESC, created_at DESC) and ignores Field/Order.
	FeaturedFirst bool
}

// ResolveSort determines the ordering for these filters.
func (f SearchFilters) ResolveSort() SortSpec {
	if f.SortBy != nil && *f.SortBy != "" {
		order := SortDesc
		if f.SortOrder != nil && *f.SortOrder == SortAsc {
			order = SortAsc
		}
		return SortSpec{Field: *f.SortBy, Order: order}
	}
	return SortSpec{FeaturedFirst: true}
}
