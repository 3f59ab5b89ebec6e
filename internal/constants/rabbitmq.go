package constants

// Queue names
const (
	QueuePropertyUpserts = "property_upserts"
)

// Exchanges
const (
	ExchangePropertyEvents = "property_events"
)

// Routing keys
const (
	RoutingKeyPropertyUpserts   = "db.properties.upsert"
	RoutingKeyPropertyLifecycle = "notify.property.lifecycle"
)

const (
	FinalDLXExchange   = "property_upserts_final_dlx"
	FinalDLQ           = "property_upserts_final_dlq"
	FinalDLQRoutingKey = "properties.dlq.key"
)
