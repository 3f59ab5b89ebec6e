package usecases_port

import (
	"context"

	"property-service/internal/core/domain"

	"github.com/google/uuid"
)

type GetPropertyDetailsUseCasePort interface {
	Execute(ctx context.Context, id uuid.UUID) (*domain.PropertyRecord, error)
}
