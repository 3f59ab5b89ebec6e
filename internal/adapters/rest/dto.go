package rest

import (
	"time"

	"property-service/internal/core/domain"

	"github.com/google/uuid"
)

// PropertyRequest is the body for create and update calls.
type PropertyRequest struct {
	OwnerID     string `json:"owner_id"`
	Title       string `json:"title"`
	Description string `json:"description"`

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

	IsActive bool `json:"is_active"`

	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

func (req PropertyRequest) toDomain() (domain.PropertyRecord, error) {
	ownerID, err := uuid.Parse(req.OwnerID)
	if err != nil {
		return domain.PropertyRecord{}, err
	}

	record := domain.PropertyRecord{
		OwnerID:      ownerID,
		Title:        req.Title,
		Description:  req.Description,
		PropertyType: req.PropertyType,
		ListingType:  req.ListingType,
		Status:       req.Status,
		Price:        req.Price,
		Area:         req.Area,
		Bedrooms:     req.Bedrooms,
		Bathrooms:    req.Bathrooms,
		Address:      req.Address,
		City:         req.City,
		State:        req.State,
		ZipCode:      req.ZipCode,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		HasPool:      req.HasPool,
		HasGarage:    req.HasGarage,
		HasGarden:    req.HasGarden,
		HasBalcony:   req.HasBalcony,
		HasParking:   req.HasParking,
		IsFurnished:  req.IsFurnished,
		IsActive:     req.IsActive,
	}
	if req.ExpiresAt != nil {
		record.ExpiresAt = *req.ExpiresAt
	}
	return record, nil
}

// ToggleFeaturedRequest is the body for the feature toggle endpoint.
type ToggleFeaturedRequest struct {
	Featured bool `json:"featured"`
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error string `json:"error"`
}
