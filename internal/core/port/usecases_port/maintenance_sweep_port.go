package usecases_port

import (
	"context"

	"property-service/internal/core/domain"
)

// MaintenanceSweepUseCasePort runs the periodic batch jobs: listing
// auto-renewal, expiration, and view-counter reconciliation.
type MaintenanceSweepUseCasePort interface {
	Execute(ctx context.Context) (*domain.SweepStats, error)
}
