// Package search holds the filter compiler: the pure translation of
// user-supplied SearchFilters into a store-executable predicate tree.
package search

import (
	"math"

	"property-service/internal/core/domain"
)

// degreesPerKm approximates one degree of latitude (~111 km). The radius
// filter compiles to a bounding box, not a great-circle distance: callers
// get a slightly larger area than the requested circle.
const degreesPerKm = 1.0 / 111.0

// amenityFields maps caller-facing amenity names to boolean store fields.
// Unknown amenity names are dropped silently (pre-validated upstream).
var amenityFields = map[string]string{
	domain.AmenityPool:      "has_pool",
	domain.AmenityGarage:    "has_garage",
	domain.AmenityGarden:    "has_garden",
	domain.AmenityBalcony:   "has_balcony",
	domain.AmenityParking:   "has_parking",
	domain.AmenityFurnished: "is_furnished",
}

// Compile translates filters into a predicate tree. Field presence is the
// only truth signal: an unset field produces no condition at all. The
// function is pure: identical filters always yield a structurally
// identical predicate.
func Compile(f domain.SearchFilters) domain.CompiledPredicate {
	var p domain.CompiledPredicate

	addEq := func(field string, value interface{}) {
		p.Conditions = append(p.Conditions, domain.Condition{Field: field, Op: domain.OpEq, Value: value})
	}
	addRange := func(field string, min, max *float64) {
		if min != nil {
			p.Conditions = append(p.Conditions, domain.Condition{Field: field, Op: domain.OpGte, Value: *min})
		}
		if max != nil {
			p.Conditions = append(p.Conditions, domain.Condition{Field: field, Op: domain.OpLte, Value: *max})
		}
	}

	if len(f.PropertyTypes) == 1 {
		addEq("property_type", f.PropertyTypes[0])
	} else if len(f.PropertyTypes) > 1 {
		p.Conditions = append(p.Conditions, domain.Condition{Field: "property_type", Op: domain.OpIn, Value: f.PropertyTypes})
	}
	if f.ListingType != nil {
		addEq("listing_type", *f.ListingType)
	}
	if f.Status != nil {
		addEq("status", *f.Status)
	}

	addRange("price", f.MinPrice, f.MaxPrice)
	addRange("area", f.MinArea, f.MaxArea)

	if f.Bedrooms != nil {
		addEq("bedrooms", *f.Bedrooms)
	}
	if f.Bathrooms != nil {
		addEq("bathrooms", *f.Bathrooms)
	}

	// Location widens within itself: one OR-group across the address fields.
	if f.Location != nil && *f.Location != "" {
		p.OrGroups = append(p.OrGroups, containsGroup(*f.Location, "address", "city", "state"))
	}

	// Keywords also widen within their group, but the group as a whole
	// narrows the result set like any other condition.
	if f.Keywords != nil && *f.Keywords != "" {
		p.OrGroups = append(p.OrGroups, containsGroup(*f.Keywords, "title", "description", "city", "state", "address"))
	}

	for _, amenity := range f.Amenities {
		if field, ok := amenityFields[amenity]; ok {
			addEq(field, true)
		}
	}

	if f.Latitude != nil && f.Longitude != nil && f.RadiusKm != nil {
		latDelta := *f.RadiusKm * degreesPerKm
		lonDelta := latDelta
		// Longitude degrees shrink with latitude; guard the cos near poles.
		if cosLat := math.Cos(*f.Latitude * math.Pi / 180); cosLat > 0.01 {
			lonDelta = latDelta / cosLat
		}
		latMin, latMax := *f.Latitude-latDelta, *f.Latitude+latDelta
		lonMin, lonMax := *f.Longitude-lonDelta, *f.Longitude+lonDelta
		addRange("latitude", &latMin, &latMax)
		addRange("longitude", &lonMin, &lonMax)
	}

	if f.OwnerID != nil {
		addEq("owner_id", *f.OwnerID)
	}
	if f.IsActive != nil {
		addEq("is_active", *f.IsActive)
	}
	if f.IsFeatured != nil {
		addEq("is_featured", *f.IsFeatured)
	}

	return p
}

func containsGroup(text string, fields ...string) domain.ConditionGroup {
	group := domain.ConditionGroup{Conditions: make([]domain.Condition, 0, len(fields))}
	for _, field := range fields {
		group.Conditions = append(group.Conditions, domain.Condition{Field: field, Op: domain.OpContains, Value: text})
	}
	return group
}
