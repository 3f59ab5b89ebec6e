package usecase

import (
	"context"
	"errors"

	"property-service/internal/contextkeys"
	"property-service/internal/core/domain"
	"property-service/internal/core/port"
	"property-service/internal/core/port/usecases_port"
)

// UpsertPropertyUseCase handles queue-driven ingestion: an incoming record
// updates the existing row when the id is known and creates one otherwise.
// It delegates to the create/update use cases so the mutation hooks fire the
// same way as for REST-driven changes.
type UpsertPropertyUseCase struct {
	creator usecases_port.CreatePropertyUseCasePort
	updater usecases_port.UpdatePropertyUseCasePort
}

func NewUpsertPropertyUseCase(creator usecases_port.CreatePropertyUseCasePort,
	updater usecases_port.UpdatePropertyUseCasePort) *UpsertPropertyUseCase {
	return &UpsertPropertyUseCase{creator: creator, updater: updater}
}

func (uc *UpsertPropertyUseCase) Execute(ctx context.Context, record domain.PropertyRecord) error {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{"use_case": "UpsertProperty", "property_id": record.ID.String()})

	_, err := uc.updater.Execute(ctx, record)
	if err == nil {
		ucLogger.Debug("Upsert resolved to update", nil)
		return nil
	}
	if !errors.Is(err, domain.ErrPropertyNotFound) {
		return err
	}

	if _, err := uc.creator.Execute(ctx, record); err != nil {
		return err
	}
	ucLogger.Debug("Upsert resolved to create", nil)
	return nil
}
