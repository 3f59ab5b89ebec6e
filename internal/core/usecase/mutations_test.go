package usecase

import (
	"context"
	"errors"
	"testing"

	"property-service/internal/core/domain"
	"property-service/internal/core/port"

	"github.com/google/uuid"
)

func TestCreatePropertyRunsMutationHooks(t *testing.T) {
	storage := newFakeStorage()
	cache := newFakeSearchCache()
	events := &fakeEvents{}
	uc := NewCreatePropertyUseCase(storage, cache, events)

	cache.CacheSearchResults(context.Background(), domain.SearchFilters{}, nil, 0)

	created, err := uc.Execute(context.Background(), domain.PropertyRecord{Title: "New loft"})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if created.ID == uuid.Nil {
		t.Error("created record has no id")
	}
	if cache.flushes != 1 {
		t.Errorf("search cache flushed %d times, want 1", cache.flushes)
	}
	if len(events.kinds) != 1 || events.kinds[0] != port.EventPropertyCreated {
		t.Errorf("published events = %v", events.kinds)
	}
}

func TestCreatePropertySurvivesEventFailure(t *testing.T) {
	storage := newFakeStorage()
	events := &fakeEvents{err: errors.New("broker down")}
	uc := NewCreatePropertyUseCase(storage, newFakeSearchCache(), events)

	if _, err := uc.Execute(context.Background(), domain.PropertyRecord{}); err != nil {
		t.Errorf("mutation failed because of event publishing: %v", err)
	}
}

func TestUpdatePropertyInvalidatesBothNamespaces(t *testing.T) {
	storage := newFakeStorage()
	cache := newFakeSearchCache()
	events := &fakeEvents{}
	uc := NewUpdatePropertyUseCase(storage, cache, events)

	record := domain.PropertyRecord{ID: uuid.New(), Title: "Before"}
	storage.records[record.ID] = record
	cache.CachePropertyDetails(context.Background(), record)
	cache.CacheSearchResults(context.Background(), domain.SearchFilters{}, []domain.PropertyRecord{record}, 1)

	record.Title = "After"
	if _, err := uc.Execute(context.Background(), record); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if got := cache.GetPropertyDetails(context.Background(), record.ID); got != nil {
		t.Error("detail entry survived update")
	}
	if cache.flushes != 1 {
		t.Errorf("search cache flushed %d times, want 1", cache.flushes)
	}
	if len(events.kinds) != 1 || events.kinds[0] != port.EventPropertyUpdated {
		t.Errorf("published events = %v", events.kinds)
	}
}

func TestUpdateUnknownPropertyIsNotFound(t *testing.T) {
	uc := NewUpdatePropertyUseCase(newFakeStorage(), newFakeSearchCache(), &fakeEvents{})
	_, err := uc.Execute(context.Background(), domain.PropertyRecord{ID: uuid.New()})
	if !errors.Is(err, domain.ErrPropertyNotFound) {
		t.Errorf("err = %v, want ErrPropertyNotFound", err)
	}
}

func TestDeletePropertyRunsMutationHooks(t *testing.T) {
	storage := newFakeStorage()
	cache := newFakeSearchCache()
	events := &fakeEvents{}
	uc := NewDeletePropertyUseCase(storage, cache, events)

	record := domain.PropertyRecord{ID: uuid.New()}
	storage.records[record.ID] = record

	if err := uc.Execute(context.Background(), record.ID); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if cache.flushes != 1 {
		t.Errorf("search cache flushed %d times, want 1", cache.flushes)
	}
	if len(events.kinds) != 1 || events.kinds[0] != port.EventPropertyDeleted {
		t.Errorf("published events = %v", events.kinds)
	}
	if err := uc.Execute(context.Background(), record.ID); !errors.Is(err, domain.ErrPropertyNotFound) {
		t.Errorf("second delete err = %v, want ErrPropertyNotFound", err)
	}
}

func TestToggleFeatured(t *testing.T) {
	storage := newFakeStorage()
	cache := newFakeSearchCache()
	events := &fakeEvents{}
	uc := NewToggleFeaturedUseCase(storage, cache, events)

	record := domain.PropertyRecord{ID: uuid.New()}
	storage.records[record.ID] = record

	updated, err := uc.Execute(context.Background(), record.ID, true)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !updated.IsFeatured {
		t.Error("featured flag not set")
	}
	if cache.flushes != 1 {
		t.Error("featured toggle must flush the search cache")
	}
	if len(events.kinds) != 1 || events.kinds[0] != port.EventPropertyFeatured {
		t.Errorf("published events = %v", events.kinds)
	}
}

func TestUpsertCreatesWhenUnknownUpdatesWhenKnown(t *testing.T) {
	storage := newFakeStorage()
	cache := newFakeSearchCache()
	events := &fakeEvents{}
	creator := NewCreatePropertyUseCase(storage, cache, events)
	updater := NewUpdatePropertyUseCase(storage, cache, events)
	uc := NewUpsertPropertyUseCase(creator, updater)

	record := domain.PropertyRecord{ID: uuid.New(), Title: "Ingested"}
	if err := uc.Execute(context.Background(), record); err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if len(events.kinds) != 1 || events.kinds[0] != port.EventPropertyCreated {
		t.Errorf("first upsert events = %v, want created", events.kinds)
	}

	record.Title = "Ingested v2"
	if err := uc.Execute(context.Background(), record); err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if len(events.kinds) != 2 || events.kinds[1] != port.EventPropertyUpdated {
		t.Errorf("second upsert events = %v, want updated", events.kinds)
	}
	if got := storage.records[record.ID].Title; got != "Ingested v2" {
		t.Errorf("stored title = %q", got)
	}
}
