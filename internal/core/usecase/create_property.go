package usecase

import (
	"context"
	"fmt"

	"property-service/internal/contextkeys"
	"property-service/internal/core/domain"
	"property-service/internal/core/port"
)

// CreatePropertyUseCase persists a new listing and runs the mutation hooks:
// search-cache flush and lifecycle event. Hooks run synchronously before the
// result returns, so a follow-up search never reads a page the mutation
// already made stale.
type CreatePropertyUseCase struct {
	storage port.PropertyStoragePort
	cache   port.SearchCachePort
	events  port.PropertyEventsPort
}

func NewCreatePropertyUseCase(storage port.PropertyStoragePort,
	cache port.SearchCachePort,
	events port.PropertyEventsPort) *CreatePropertyUseCase {
	return &CreatePropertyUseCase{storage: storage, cache: cache, events: events}
}

func (uc *CreatePropertyUseCase) Execute(ctx context.Context, record domain.PropertyRecord) (*domain.PropertyRecord, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{"use_case": "CreateProperty"})

	created, err := uc.storage.Create(ctx, record)
	if err != nil {
		ucLogger.Error("Failed to create property", err, nil)
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}

	uc.cache.InvalidateSearchCache(ctx)
	if err := uc.events.PublishLifecycleEvent(ctx, port.EventPropertyCreated, created); err != nil {
		ucLogger.Warn("Failed to publish lifecycle event", port.Fields{"error": err.Error()})
	}

	ucLogger.Info("Property created", port.Fields{"property_id": created.ID.String()})
	return created, nil
}
