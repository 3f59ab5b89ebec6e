package usecase

import (
	"context"
	"errors"
	"fmt"

	"property-service/internal/contextkeys"
	"property-service/internal/core/domain"
	"property-service/internal/core/port"
)

type UpdatePropertyUseCase struct {
	storage port.PropertyStoragePort
	cache   port.SearchCachePort
	events  port.PropertyEventsPort
}

func NewUpdatePropertyUseCase(storage port.PropertyStoragePort,
	cache port.SearchCachePort,
	events port.PropertyEventsPort) *UpdatePropertyUseCase {
	return &UpdatePropertyUseCase{storage: storage, cache: cache, events: events}
}

func (uc *UpdatePropertyUseCase) Execute(ctx context.Context, record domain.PropertyRecord) (*domain.PropertyRecord, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{"use_case": "UpdateProperty", "property_id": record.ID.String()})

	updated, err := uc.storage.Update(ctx, record)
	if err != nil {
		if errors.Is(err, domain.ErrPropertyNotFound) {
			return nil, err
		}
		ucLogger.Error("Failed to update property", err, nil)
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}

	// Both namespaces: the detail entry is stale for sure, the search
	// namespace may be.
	uc.cache.InvalidatePropertyRelatedCache(ctx, updated.ID)
	if err := uc.events.PublishLifecycleEvent(ctx, port.EventPropertyUpdated, updated); err != nil {
		ucLogger.Warn("Failed to publish lifecycle event", port.Fields{"error": err.Error()})
	}

	return updated, nil
}
