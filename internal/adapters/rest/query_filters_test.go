package rest

import (
	"net/http/httptest"
	"testing"

	"property-service/internal/contextkeys"

	"github.com/google/uuid"
)

func TestParseSearchFiltersFull(t *testing.T) {
	r := httptest.NewRequest("GET",
		"/api/v1/properties?property_types=apartment,condo&listing_type=rent"+
			"&min_price=500&max_price=1500&bedrooms=2&location=Austin"+
			"&keywords=garden+view&amenities=pool,garage&is_active=true"+
			"&sort_by=price&sort_order=asc&page=3&limit=25", nil)

	filters, err := parseSearchFilters(r)
	if err != nil {
		t.Fatalf("parseSearchFilters: %v", err)
	}

	if len(filters.PropertyTypes) != 2 || filters.PropertyTypes[0] != "apartment" || filters.PropertyTypes[1] != "condo" {
		t.Errorf("property types = %v", filters.PropertyTypes)
	}
	if filters.ListingType == nil || *filters.ListingType != "rent" {
		t.Errorf("listing type = %v", filters.ListingType)
	}
	if filters.MinPrice == nil || *filters.MinPrice != 500 {
		t.Errorf("min price = %v", filters.MinPrice)
	}
	if filters.MaxPrice == nil || *filters.MaxPrice != 1500 {
		t.Errorf("max price = %v", filters.MaxPrice)
	}
	if filters.Bedrooms == nil || *filters.Bedrooms != 2 {
		t.Errorf("bedrooms = %v", filters.Bedrooms)
	}
	if filters.Location == nil || *filters.Location != "Austin" {
		t.Errorf("location = %v", filters.Location)
	}
	if filters.Keywords == nil || *filters.Keywords != "garden view" {
		t.Errorf("keywords = %v", filters.Keywords)
	}
	if len(filters.Amenities) != 2 {
		t.Errorf("amenities = %v", filters.Amenities)
	}
	if filters.IsActive == nil || !*filters.IsActive {
		t.Errorf("is_active = %v", filters.IsActive)
	}
	if filters.SortBy == nil || *filters.SortBy != "price" {
		t.Errorf("sort_by = %v", filters.SortBy)
	}
	if filters.Page != 3 || filters.PageSize != 25 {
		t.Errorf("page/limit = %d/%d", filters.Page, filters.PageSize)
	}
}

func TestParseSearchFiltersAbsentMeansNil(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/v1/properties", nil)

	filters, err := parseSearchFilters(r)
	if err != nil {
		t.Fatalf("parseSearchFilters: %v", err)
	}

	if filters.MinPrice != nil || filters.MaxPrice != nil || filters.Bedrooms != nil {
		t.Error("absent numeric params must stay nil, not zero")
	}
	if filters.ListingType != nil || filters.Keywords != nil {
		t.Error("absent string params must stay nil")
	}
	if filters.PropertyTypes != nil || filters.Amenities != nil {
		t.Error("absent list params must stay nil")
	}
	if filters.Page != 0 || filters.PageSize != 0 {
		t.Error("absent pagination must stay zero for later normalization")
	}
}

func TestParseSearchFiltersRejectsBadValues(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{"unknown property type", "property_types=castle"},
		{"unknown listing type", "listing_type=lease"},
		{"non-numeric price", "min_price=cheap"},
		{"non-numeric page", "page=first"},
		{"non-boolean flag", "is_featured=maybe"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/api/v1/properties?"+tt.query, nil)
			if _, err := parseSearchFilters(r); err == nil {
				t.Errorf("expected error for %q", tt.query)
			}
		})
	}
}

func TestParseSearchFiltersNormalizesEnumCase(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/v1/properties?property_types=Apartment&listing_type=SALE", nil)

	filters, err := parseSearchFilters(r)
	if err != nil {
		t.Fatalf("parseSearchFilters: %v", err)
	}
	if filters.PropertyTypes[0] != "apartment" {
		t.Errorf("property type not lowercased: %q", filters.PropertyTypes[0])
	}
	if *filters.ListingType != "sale" {
		t.Errorf("listing type not lowercased: %q", *filters.ListingType)
	}
}

func TestParseSearchFiltersMineScoping(t *testing.T) {
	// Anonymous caller asking for own records is rejected.
	r := httptest.NewRequest("GET", "/api/v1/properties?mine=true", nil)
	if _, err := parseSearchFilters(r); err == nil {
		t.Error("mine=true without identity must fail")
	}

	// Identified caller gets the owner filter set.
	userID := uuid.New()
	r = httptest.NewRequest("GET", "/api/v1/properties?mine=true", nil)
	r = r.WithContext(contextkeys.ContextWithUserID(r.Context(), userID))

	filters, err := parseSearchFilters(r)
	if err != nil {
		t.Fatalf("parseSearchFilters: %v", err)
	}
	if filters.OwnerID == nil || *filters.OwnerID != userID {
		t.Errorf("owner id = %v, want %s", filters.OwnerID, userID)
	}
	if !filters.IsUserScoped() {
		t.Error("owner-scoped filters must report user scoping")
	}
}
