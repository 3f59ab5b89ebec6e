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

// ToggleFeaturedUseCase flips the featured flag. Featured placement changes
// the default ordering of every cached search page, so the mutation hooks
// run exactly as for content edits.
type ToggleFeaturedUseCase struct {
	storage port.PropertyStoragePort
	cache   port.SearchCachePort
	events  port.PropertyEventsPort
}

func NewToggleFeaturedUseCase(storage port.PropertyStoragePort,
	cache port.SearchCachePort,
	events port.PropertyEventsPort) *ToggleFeaturedUseCase {
	return &ToggleFeaturedUseCase{storage: storage, cache: cache, events: events}
}

func (uc *ToggleFeaturedUseCase) Execute(ctx context.Context, id uuid.UUID, featured bool) (*domain.PropertyRecord, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{"use_case": "ToggleFeatured", "property_id": id.String()})

	updated, err := uc.storage.SetFeatured(ctx, id, featured)
	if err != nil {
		if errors.Is(err, domain.ErrPropertyNotFound) {
			return nil, err
		}
		ucLogger.Error("Failed to set featured flag", err, nil)
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}

	uc.cache.InvalidatePropertyRelatedCache(ctx, id)
	if err := uc.events.PublishLifecycleEvent(ctx, port.EventPropertyFeatured, updated); err != nil {
		ucLogger.Warn("Failed to publish lifecycle event", port.Fields{"error": err.Error()})
	}

	return updated, nil
}
