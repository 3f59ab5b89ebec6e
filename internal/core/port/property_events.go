package port

import (
	"context"

	"property-service/internal/core/domain"
)

// Lifecycle event kinds published after successful mutations.
const (
	EventPropertyCreated  = "created"
	EventPropertyUpdated  = "updated"
	EventPropertyDeleted  = "deleted"
	EventPropertyFeatured = "featured"
	EventPropertyRenewed  = "renewed"
	EventPropertyExpired  = "expired"
)

// PropertyEventsPort publishes property lifecycle events for downstream
// consumers (notifications, analytics). Publishing failures are logged by
// callers but never fail the originating mutation.
type PropertyEventsPort interface {
	PublishLifecycleEvent(ctx context.Context, kind string, record *domain.PropertyRecord) error
}

// EventListenerPort is a long-running inbound adapter (queue consumer).
type EventListenerPort interface {
	Start(ctx context.Context) error
	Close() error
}
