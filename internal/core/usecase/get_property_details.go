package usecase

import (
	"context"
	"errors"
	"fmt"

	"property-service/internal/contextkeys"
	"property-service/internal/core/domain"
	"property-service/internal/core/port"

	"github.com/google/uuid"
)

// GetPropertyDetailsUseCase serves single-property reads through the detail
// cache and counts the view in the cache-local counter.
type GetPropertyDetailsUseCase struct {
	storage port.PropertyStoragePort
	cache   port.SearchCachePort
}

func NewGetPropertyDetailsUseCase(storage port.PropertyStoragePort, cache port.SearchCachePort) *GetPropertyDetailsUseCase {
	return &GetPropertyDetailsUseCase{storage: storage, cache: cache}
}

func (uc *GetPropertyDetailsUseCase) Execute(ctx context.Context, id uuid.UUID) (*domain.PropertyRecord, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{"use_case": "GetPropertyDetails", "property_id": id.String()})

	if cached := uc.cache.GetPropertyDetails(ctx, id); cached != nil {
		uc.cache.IncrementPropertyViews(ctx, id)
		return cached, nil
	}

	record, err := uc.storage.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrPropertyNotFound) {
			return nil, err
		}
		ucLogger.Error("Property store read failed", err, nil)
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}

	uc.cache.CachePropertyDetails(ctx, *record)
	uc.cache.IncrementPropertyViews(ctx, id)
	return record, nil
}
