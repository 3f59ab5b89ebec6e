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

type DeletePropertyUseCase struct {
	storage port.PropertyStoragePort
	cache   port.SearchCachePort
	events  port.PropertyEventsPort
}

func NewDeletePropertyUseCase(storage port.PropertyStoragePort,
	cache port.SearchCachePort,
	events port.PropertyEventsPort) *DeletePropertyUseCase {
	return &DeletePropertyUseCase{storage: storage, cache: cache, events: events}
}

func (uc *DeletePropertyUseCase) Execute(ctx context.Context, id uuid.UUID) error {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{"use_case": "DeleteProperty", "property_id": id.String()})

	if err := uc.storage.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrPropertyNotFound) {
			return err
		}
		ucLogger.Error("Failed to delete property", err, nil)
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}

	uc.cache.InvalidatePropertyRelatedCache(ctx, id)
	if err := uc.events.PublishLifecycleEvent(ctx, port.EventPropertyDeleted, &domain.PropertyRecord{ID: id}); err != nil {
		ucLogger.Warn("Failed to publish lifecycle event", port.Fields{"error": err.Error()})
	}

	ucLogger.Info("Property deleted", nil)
	return nil
}
