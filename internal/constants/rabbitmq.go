package constants

// Обменник событий пайплайна
const (
	EventsExchange = "rental_hub_events"
)

// Ключи маршрутизации
const (
	RoutingKeyPriceChanged = "listing.price.changed"
)
