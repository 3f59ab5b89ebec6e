package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"property-service/internal/contextkeys"
	"property-service/internal/core/domain"
	"property-service/internal/core/port"
	"property-service/internal/core/port/usecases_port"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// PropertyHandler wires the HTTP surface to the use cases.
type PropertyHandler struct {
	searchUC  usecases_port.SearchPropertiesUseCasePort
	detailsUC usecases_port.GetPropertyDetailsUseCasePort
	createUC  usecases_port.CreatePropertyUseCasePort
	updateUC  usecases_port.UpdatePropertyUseCasePort
	deleteUC  usecases_port.DeletePropertyUseCasePort
	featureUC usecases_port.ToggleFeaturedUseCasePort
	historyUC usecases_port.GetSearchHistoryUseCasePort
	popularUC usecases_port.GetPopularTermsUseCasePort
	similarUC usecases_port.GetSimilarSearchesUseCasePort
}

func NewPropertyHandler(
	searchUC usecases_port.SearchPropertiesUseCasePort,
	detailsUC usecases_port.GetPropertyDetailsUseCasePort,
	createUC usecases_port.CreatePropertyUseCasePort,
	updateUC usecases_port.UpdatePropertyUseCasePort,
	deleteUC usecases_port.DeletePropertyUseCasePort,
	featureUC usecases_port.ToggleFeaturedUseCasePort,
	historyUC usecases_port.GetSearchHistoryUseCasePort,
	popularUC usecases_port.GetPopularTermsUseCasePort,
	similarUC usecases_port.GetSimilarSearchesUseCasePort,
) *PropertyHandler {
	return &PropertyHandler{
		searchUC:  searchUC,
		detailsUC: detailsUC,
		createUC:  createUC,
		updateUC:  updateUC,
		deleteUC:  deleteUC,
		featureUC: featureUC,
		historyUC: historyUC,
		popularUC: popularUC,
		similarUC: similarUC,
	}
}

// SearchProperties handles GET /api/v1/properties.
func (h *PropertyHandler) SearchProperties(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "SearchProperties"})

	filters, err := parseSearchFilters(r)
	if err != nil {
		logger.Warn("Rejected search request", port.Fields{"reason": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	userID := contextkeys.UserIDFromContext(r.Context())

	result, err := h.searchUC.Execute(r.Context(), filters, userID)
	if err != nil {
		logger.Error("Search use case failed", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, "Failed to search properties")
		return
	}

	RespondWithJSON(w, http.StatusOK, result)
}

// GetPropertyByID handles GET /api/v1/properties/{propertyID}.
func (h *PropertyHandler) GetPropertyByID(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "GetPropertyByID"})

	id, ok := propertyIDFromURL(w, r, logger)
	if !ok {
		return
	}

	record, err := h.detailsUC.Execute(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrPropertyNotFound) {
			WriteJSONError(w, http.StatusNotFound, "Property not found")
			return
		}
		logger.Error("Get property details use case failed", err, port.Fields{"property_id": id})
		WriteJSONError(w, http.StatusInternalServerError, "Failed to get property")
		return
	}

	RespondWithJSON(w, http.StatusOK, record)
}

// CreateProperty handles POST /api/v1/properties.
func (h *PropertyHandler) CreateProperty(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "CreateProperty"})

	record, ok := decodePropertyBody(w, r, logger)
	if !ok {
		return
	}

	created, err := h.createUC.Execute(r.Context(), record)
	if err != nil {
		logger.Error("Create property use case failed", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, "Failed to create property")
		return
	}

	logger.Info("Property created", port.Fields{"property_id": created.ID})
	RespondWithJSON(w, http.StatusCreated, created)
}

// UpdateProperty handles PUT /api/v1/properties/{propertyID}.
func (h *PropertyHandler) UpdateProperty(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "UpdateProperty"})

	id, ok := propertyIDFromURL(w, r, logger)
	if !ok {
		return
	}
	record, ok := decodePropertyBody(w, r, logger)
	if !ok {
		return
	}
	record.ID = id

	updated, err := h.updateUC.Execute(r.Context(), record)
	if err != nil {
		if errors.Is(err, domain.ErrPropertyNotFound) {
			WriteJSONError(w, http.StatusNotFound, "Property not found")
			return
		}
		logger.Error("Update property use case failed", err, port.Fields{"property_id": id})
		WriteJSONError(w, http.StatusInternalServerError, "Failed to update property")
		return
	}

	logger.Info("Property updated", port.Fields{"property_id": id})
	RespondWithJSON(w, http.StatusOK, updated)
}

// DeleteProperty handles DELETE /api/v1/properties/{propertyID}.
func (h *PropertyHandler) DeleteProperty(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "DeleteProperty"})

	id, ok := propertyIDFromURL(w, r, logger)
	if !ok {
		return
	}

	if err := h.deleteUC.Execute(r.Context(), id); err != nil {
		if errors.Is(err, domain.ErrPropertyNotFound) {
			WriteJSONError(w, http.StatusNotFound, "Property not found")
			return
		}
		logger.Error("Delete property use case failed", err, port.Fields{"property_id": id})
		WriteJSONError(w, http.StatusInternalServerError, "Failed to delete property")
		return
	}

	logger.Info("Property deleted", port.Fields{"property_id": id})
	w.WriteHeader(http.StatusNoContent)
}

// ToggleFeatured handles POST /api/v1/properties/{propertyID}/feature.
func (h *PropertyHandler) ToggleFeatured(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "ToggleFeatured"})

	id, ok := propertyIDFromURL(w, r, logger)
	if !ok {
		return
	}

	var reqDTO ToggleFeaturedRequest
	if err := json.NewDecoder(r.Body).Decode(&reqDTO); err != nil {
		logger.Warn("Failed to decode feature toggle body", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	updated, err := h.featureUC.Execute(r.Context(), id, reqDTO.Featured)
	if err != nil {
		if errors.Is(err, domain.ErrPropertyNotFound) {
			WriteJSONError(w, http.StatusNotFound, "Property not found")
			return
		}
		logger.Error("Toggle featured use case failed", err, port.Fields{"property_id": id})
		WriteJSONError(w, http.StatusInternalServerError, "Failed to toggle featured flag")
		return
	}

	logger.Info("Featured flag changed", port.Fields{"property_id": id, "featured": reqDTO.Featured})
	RespondWithJSON(w, http.StatusOK, updated)
}

// GetSearchHistory handles GET /api/v1/search/history.
func (h *PropertyHandler) GetSearchHistory(w http.ResponseWriter, r *http.Request) {
	userID := contextkeys.UserIDFromContext(r.Context())
	if userID == nil {
		WriteJSONError(w, http.StatusUnauthorized, "X-User-ID header is missing")
		return
	}

	limit, offset := paginationOrDefault(r, 20)

	entries := h.historyUC.Execute(r.Context(), *userID, limit, offset)
	RespondWithJSON(w, http.StatusOK, entries)
}

// GetPopularTerms handles GET /api/v1/search/popular.
func (h *PropertyHandler) GetPopularTerms(w http.ResponseWriter, r *http.Request) {
	limit, _ := paginationOrDefault(r, 10)

	terms := h.popularUC.Execute(r.Context(), limit)
	RespondWithJSON(w, http.StatusOK, terms)
}

// GetSimilarSearches handles GET /api/v1/search/similar. The reference
// criteria come from the same query parameters the search endpoint accepts.
func (h *PropertyHandler) GetSimilarSearches(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "GetSimilarSearches"})

	userID := contextkeys.UserIDFromContext(r.Context())
	if userID == nil {
		WriteJSONError(w, http.StatusUnauthorized, "X-User-ID header is missing")
		return
	}

	filters, err := parseSearchFilters(r)
	if err != nil {
		logger.Warn("Rejected similar-searches request", port.Fields{"reason": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	limit, _ := paginationOrDefault(r, 10)

	entries := h.similarUC.Execute(r.Context(), *userID, domain.CriteriaFromFilters(filters), limit)
	RespondWithJSON(w, http.StatusOK, entries)
}

func propertyIDFromURL(w http.ResponseWriter, r *http.Request, logger port.LoggerPort) (uuid.UUID, bool) {
	idStr := chi.URLParam(r, "propertyID")
	id, err := uuid.Parse(idStr)
	if err != nil {
		logger.Warn("Invalid property id in URL", port.Fields{"provided_id": idStr})
		WriteJSONError(w, http.StatusBadRequest, "Invalid property id in URL")
		return uuid.Nil, false
	}
	return id, true
}

func decodePropertyBody(w http.ResponseWriter, r *http.Request, logger port.LoggerPort) (domain.PropertyRecord, bool) {
	var reqDTO PropertyRequest
	if err := json.NewDecoder(r.Body).Decode(&reqDTO); err != nil {
		logger.Warn("Failed to decode property body", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return domain.PropertyRecord{}, false
	}

	record, err := reqDTO.toDomain()
	if err != nil {
		logger.Warn("Invalid owner_id in property body", port.Fields{"provided_id": reqDTO.OwnerID})
		WriteJSONError(w, http.StatusBadRequest, "Invalid owner_id format")
		return domain.PropertyRecord{}, false
	}

	if record.PropertyType != "" && !domain.KnownPropertyTypes[record.PropertyType] {
		WriteJSONError(w, http.StatusBadRequest, "Unknown property_type")
		return domain.PropertyRecord{}, false
	}
	if record.ListingType != "" && !domain.KnownListingTypes[record.ListingType] {
		WriteJSONError(w, http.StatusBadRequest, "Unknown listing_type")
		return domain.PropertyRecord{}, false
	}

	return record, true
}

func paginationOrDefault(r *http.Request, defaultLimit int) (limit, offset int) {
	if v, err := queryInt(r, "limit"); err == nil && v != nil && *v > 0 {
		defaultLimit = *v
	}
	limit = defaultLimit
	if v, err := queryInt(r, "offset"); err == nil && v != nil && *v > 0 {
		offset = *v
	}
	return limit, offset
}
