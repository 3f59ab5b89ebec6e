package domain

import (
	"time"

	"github.com/google/uuid"
)

// Property types accepted by the service. The REST layer validates incoming
// values against this set before they reach the search core.
const (
	PropertyTypeApartment  = "apartment"
	PropertyTypeHouse      = "house"
	PropertyTypeCondo      = "condo"
	PropertyTypeTownhouse  = "townhouse"
	PropertyTypeLand       = "land"
	PropertyTypeCommercial = "commercial"
)

const (
	ListingTypeSale = "sale"
	ListingTypeRent = "rent"
)

const (
	StatusActive  = "active"
	StatusPending = "pending"
	StatusSold    = "sold"
	StatusRented  = "rented"
	StatusExpired = "expired"
)

// KnownPropertyTypes is used by the caller layer for enum validation.
var KnownPropertyTypes = map[string]bool{
	PropertyTypeApartment:  true,
	PropertyTypeHouse:      true,
	PropertyTypeCondo:      true,
	PropertyTypeTownhouse:  true,
	PropertyTypeLand:       true,
	PropertyTypeCommercial: true,
}

var KnownListingTypes = map[string]bool{
	ListingTypeSale: true,
	ListingTypeRent: true,
}

// Amenity names exposed to callers, mapped to boolean columns by the store.
const (
	AmenityPool      = "pool"
	AmenityGarage    = "garage"
	AmenityGarden    = "garden"
	AmenityBalcony   = "balcony"
	AmenityParking   = "parking"
	AmenityFurnished = "furnished"
)

// PropertyRecord is the full listing as stored and returned by searches.
type PropertyRecord struct {
	ID          uuid.UUID `json:"id"`
	OwnerID     uuid.UUID `json:"owner_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`

	PropertyType string `json:"property_type"`
	ListingType  string `json:"listing_type"`
	Status       string `json:"status"`

	Price     float64 `json:"price"`
	Area      float64 `json:"area"`
	Bedrooms  int     `json:"bedrooms"`
	Bathrooms int     `json:"bathrooms"`

	Address   string  `json:"address"`
	City      string  `json:"city"`
	State     string  `json:"state"`
	ZipCode   string  `json:"zip_code"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`

	HasPool     bool `json:"has_pool"`
	HasGarage   bool `json:"has_garage"`
	HasGarden   bool `json:"has_garden"`
	HasBalcony  bool `json:"has_balcony"`
	HasParking  bool `json:"has_parking"`
	IsFurnished bool `json:"is_furnished"`

	IsActive   bool `json:"is_active"`
	IsFeatured bool `json:"is_featured"`
	ViewsCount int  `json:"views_count"`

	// LocationHash is a geohash-derived fingerprint maintained by the store
	// adapter for duplicate detection. Not part of the search contract.
	LocationHash string `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SweepStats summarizes a batch status change (renewal or expiration sweep).
type SweepStats struct {
	Renewed int
	Expired int
}
