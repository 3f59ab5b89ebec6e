package port

import (
	"context"
	"time"

	"property-service/internal/core/domain"

	"github.com/google/uuid"
)

// PropertyStoragePort is implemented by the persistent store adapter.
// FindAndCount must return the page and the exact total from a single
// transactional operation so the count never drifts from the data under
// concurrent writes.
type PropertyStoragePort interface {
	FindAndCount(ctx context.Context, predicate domain.CompiledPredicate, sort domain.SortSpec, limit, offset int) ([]domain.PropertyRecord, int, error)

	FindByID(ctx context.Context, id uuid.UUID) (*domain.PropertyRecord, error)
	Create(ctx context.Context, record domain.PropertyRecord) (*domain.PropertyRecord, error)
	Update(ctx context.Context, record domain.PropertyRecord) (*domain.PropertyRecord, error)
	Delete(ctx context.Context, id uuid.UUID) error
	SetFeatured(ctx context.Context, id uuid.UUID, featured bool) (*domain.PropertyRecord, error)

	// Batch status sweeps. Both trigger search-cache invalidation upstream.
	RenewExpiring(ctx context.Context, window time.Duration, renewFor time.Duration) (int, error)
	ExpireOverdue(ctx context.Context) (int, error)

	// AddViews folds cache-local view counters back into the store.
	AddViews(ctx context.Context, id uuid.UUID, delta int) error
}
