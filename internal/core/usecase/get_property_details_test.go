package usecase

import (
	"context"
	"errors"
	"testing"

	"property-service/internal/core/domain"

	"github.com/google/uuid"
)

func TestDetailsReadThroughAndViewCount(t *testing.T) {
	storage := newFakeStorage()
	cache := newFakeSearchCache()
	uc := NewGetPropertyDetailsUseCase(storage, cache)

	record := domain.PropertyRecord{ID: uuid.New(), Title: "Cottage"}
	storage.records[record.ID] = record

	got, err := uc.Execute(context.Background(), record.ID)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if got.Title != "Cottage" {
		t.Errorf("Title = %q", got.Title)
	}
	if cache.GetPropertyDetails(context.Background(), record.ID) == nil {
		t.Error("record not cached after store read")
	}

	// Cached read still counts the view.
	if _, err := uc.Execute(context.Background(), record.ID); err != nil {
		t.Fatalf("cached Execute: %v", err)
	}
	if cache.views[record.ID] != 2 {
		t.Errorf("view counter = %d, want 2", cache.views[record.ID])
	}
}

func TestDetailsUnknownIDNotFound(t *testing.T) {
	uc := NewGetPropertyDetailsUseCase(newFakeStorage(), newFakeSearchCache())
	_, err := uc.Execute(context.Background(), uuid.New())
	if !errors.Is(err, domain.ErrPropertyNotFound) {
		t.Errorf("err = %v, want ErrPropertyNotFound", err)
	}
}

func TestDetailsStoreErrorWrapped(t *testing.T) {
	storage := newFakeStorage()
	storage.findErr = errors.New("connection reset")
	uc := NewGetPropertyDetailsUseCase(storage, newFakeSearchCache())

	_, err := uc.Execute(context.Background(), uuid.New())
	if !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Errorf("err = %v, want ErrStoreUnavailable", err)
	}
}
