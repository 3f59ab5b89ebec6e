package rest

import (
	"fmt"
	"net/http"
	"strings"

	"property-service/internal/contextkeys"
	"property-service/internal/core/domain"
)

// parseSearchFilters maps the query string onto domain.SearchFilters.
// Enum values are validated here so the search core never sees an unknown
// property or listing type.
func parseSearchFilters(r *http.Request) (domain.SearchFilters, error) {
	var filters domain.SearchFilters
	q := r.URL.Query()

	if raw := q.Get("property_types"); raw != "" {
		for _, pt := range strings.Split(raw, ",") {
			pt = strings.TrimSpace(strings.ToLower(pt))
			if pt == "" {
				continue
			}
			if !domain.KnownPropertyTypes[pt] {
				return filters, fmt.Errorf("unknown property type %q", pt)
			}
			filters.PropertyTypes = append(filters.PropertyTypes, pt)
		}
	}

	if lt := queryString(r, "listing_type"); lt != nil {
		normalized := strings.ToLower(*lt)
		if !domain.KnownListingTypes[normalized] {
			return filters, fmt.Errorf("unknown listing type %q", *lt)
		}
		filters.ListingType = &normalized
	}

	filters.Status = queryString(r, "status")
	filters.Location = queryString(r, "location")
	filters.Keywords = queryString(r, "keywords")
	filters.SortBy = queryString(r, "sort_by")
	filters.SortOrder = queryString(r, "sort_order")

	if raw := q.Get("amenities"); raw != "" {
		for _, a := range strings.Split(raw, ",") {
			a = strings.TrimSpace(strings.ToLower(a))
			if a != "" {
				filters.Amenities = append(filters.Amenities, a)
			}
		}
	}

	var err error
	if filters.MinPrice, err = queryFloat(r, "min_price"); err != nil {
		return filters, fmt.Errorf("invalid min_price")
	}
	if filters.MaxPrice, err = queryFloat(r, "max_price"); err != nil {
		return filters, fmt.Errorf("invalid max_price")
	}
	if filters.MinArea, err = queryFloat(r, "min_area"); err != nil {
		return filters, fmt.Errorf("invalid min_area")
	}
	if filters.MaxArea, err = queryFloat(r, "max_area"); err != nil {
		return filters, fmt.Errorf("invalid max_area")
	}
	if filters.Bedrooms, err = queryInt(r, "bedrooms"); err != nil {
		return filters, fmt.Errorf("invalid bedrooms")
	}
	if filters.Bathrooms, err = queryInt(r, "bathrooms"); err != nil {
		return filters, fmt.Errorf("invalid bathrooms")
	}
	if filters.Latitude, err = queryFloat(r, "latitude"); err != nil {
		return filters, fmt.Errorf("invalid latitude")
	}
	if filters.Longitude, err = queryFloat(r, "longitude"); err != nil {
		return filters, fmt.Errorf("invalid longitude")
	}
	if filters.RadiusKm, err = queryFloat(r, "radius_km"); err != nil {
		return filters, fmt.Errorf("invalid radius_km")
	}
	if filters.IsActive, err = queryBool(r, "is_active"); err != nil {
		return filters, fmt.Errorf("invalid is_active")
	}
	if filters.IsFeatured, err = queryBool(r, "is_featured"); err != nil {
		return filters, fmt.Errorf("invalid is_featured")
	}

	page, err := queryInt(r, "page")
	if err != nil {
		return filters, fmt.Errorf("invalid page")
	}
	if page != nil {
		filters.Page = *page
	}
	limit, err := queryInt(r, "limit")
	if err != nil {
		return filters, fmt.Errorf("invalid limit")
	}
	if limit != nil {
		filters.PageSize = *limit
	}

	// mine=true scopes the search to the caller's own records and requires
	// an identified user. Owner-scoped searches skip the shared cache.
	mine, err := queryBool(r, "mine")
	if err != nil {
		return filters, fmt.Errorf("invalid mine")
	}
	if mine != nil && *mine {
		userID := contextkeys.UserIDFromContext(r.Context())
		if userID == nil {
			return filters, fmt.Errorf("mine=true requires the X-User-ID header")
		}
		filters.OwnerID = userID
	}

	return filters, nil
}
