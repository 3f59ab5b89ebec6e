package usecases_port

import (
	"context"

	"property-service/internal/core/domain"

	"github.com/google/uuid"
)

type CreatePropertyUseCasePort interface {
	Execute(ctx context.Context, record domain.PropertyRecord) (*domain.PropertyRecord, error)
}

type UpdatePropertyUseCasePort interface {
	Execute(ctx context.Context, record domain.PropertyRecord) (*domain.PropertyRecord, error)
}

type DeletePropertyUseCasePort interface {
	Execute(ctx context.Context, id uuid.UUID) error
}

type ToggleFeaturedUseCasePort interface {
	Execute(ctx context.Context, id uuid.UUID, featured bool) (*domain.PropertyRecord, error)
}

// UpsertPropertyUseCasePort is the entry point for queue-driven ingestion:
// create when the id is unknown, update otherwise.
type UpsertPropertyUseCasePort interface {
	Execute(ctx context.Context, record domain.PropertyRecord) error
}
