package usecase

import (
	"context"
	"fmt"
	"time"

	"property-service/internal/contextkeys"
	"property-service/internal/core/domain"
	"property-service/internal/core/port"
)

// MaintenanceSweepConfig tunes the periodic batch jobs.
type MaintenanceSweepConfig struct {
	// RenewalWindow selects active listings expiring within this horizon.
	RenewalWindow time.Duration
	// RenewFor is how far each renewed listing's expiry is pushed out.
	RenewFor time.Duration
}

// MaintenanceSweepUseCase runs one pass of the background maintenance work:
// renew expiring listings, expire overdue ones, and fold cache-local view
// counters back into the store. A failed step does not stop the later ones.
type MaintenanceSweepUseCase struct {
	storage port.PropertyStoragePort
	cache   port.SearchCachePort
	events  port.PropertyEventsPort
	cfg     MaintenanceSweepConfig
}

func NewMaintenanceSweepUseCase(storage port.PropertyStoragePort,
	cache port.SearchCachePort,
	events port.PropertyEventsPort,
	cfg MaintenanceSweepConfig) *MaintenanceSweepUseCase {
	if cfg.RenewalWindow <= 0 {
		cfg.RenewalWindow = 24 * time.Hour
	}
	if cfg.RenewFor <= 0 {
		cfg.RenewFor = 30 * 24 * time.Hour
	}
	return &MaintenanceSweepUseCase{storage: storage, cache: cache, events: events, cfg: cfg}
}

func (uc *MaintenanceSweepUseCase) Execute(ctx context.Context) (*domain.SweepStats, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{"use_case": "MaintenanceSweep"})

	stats := &domain.SweepStats{}
	var firstErr error

	renewed, err := uc.storage.RenewExpiring(ctx, uc.cfg.RenewalWindow, uc.cfg.RenewFor)
	if err != nil {
		ucLogger.Error("Renewal sweep failed", err, nil)
		firstErr = fmt.Errorf("renewal sweep: %w", err)
	}
	stats.Renewed = renewed

	expired, err := uc.storage.ExpireOverdue(ctx)
	if err != nil {
		ucLogger.Error("Expiration sweep failed", err, nil)
		if firstErr == nil {
			firstErr = fmt.Errorf("expiration sweep: %w", err)
		}
	}
	stats.Expired = expired

	// Status changes alter which listings searches may return.
	if stats.Renewed > 0 || stats.Expired > 0 {
		uc.cache.InvalidateSearchCache(ctx)
		if stats.Renewed > 0 {
			if err := uc.events.PublishLifecycleEvent(ctx, port.EventPropertyRenewed, nil); err != nil {
				ucLogger.Warn("Failed to publish renewal event", port.Fields{"error": err.Error()})
			}
		}
		if stats.Expired > 0 {
			if err := uc.events.PublishLifecycleEvent(ctx, port.EventPropertyExpired, nil); err != nil {
				ucLogger.Warn("Failed to publish expiration event", port.Fields{"error": err.Error()})
			}
		}
	}

	uc.reconcileViews(ctx, ucLogger)

	ucLogger.Info("Maintenance sweep finished", port.Fields{
		"renewed": stats.Renewed,
		"expired": stats.Expired,
	})
	return stats, firstErr
}

// reconcileViews drains each pending cache counter into the store. A drained
// count that fails to persist is re-added to the cache so it is retried on
// the next sweep instead of being lost.
func (uc *MaintenanceSweepUseCase) reconcileViews(ctx context.Context, logger port.LoggerPort) {
	for _, id := range uc.cache.PendingViewIDs(ctx) {
		pending := uc.cache.DrainPropertyViews(ctx, id)
		if pending == 0 {
			continue
		}
		if err := uc.storage.AddViews(ctx, id, pending); err != nil {
			logger.Warn("Failed to persist view counter, requeueing", port.Fields{
				"property_id": id.String(),
				"views":       pending,
				"error":       err.Error(),
			})
			for i := 0; i < pending; i++ {
				uc.cache.IncrementPropertyViews(ctx, id)
			}
		}
	}
}
