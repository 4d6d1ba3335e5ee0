package domain

import (
	"time"

	"github.com/google/uuid"
)

const NotificationTypePriceChange = "PRICE_CHANGE"

// FavoriteInterest — связь пользователь<->объявление. Внешняя сущность,
// здесь доступна только на чтение.
type FavoriteInterest struct {
	UserID    uuid.UUID
	ListingID uuid.UUID
}

// Notification — уведомление пользователю. Ядро только создаёт записи,
// чтение и пометка прочитанным живут во внешнем слое.
type Notification struct {
	ID      uuid.UUID               `json:"id"`
	UserID  uuid.UUID               `json:"userId"`
	Type    string                  `json:"type"`
	Title   string                  `json:"title"`
	Content string                  `json:"content"`
	Data    NotificationPayload     `json:"data"`
}

// NotificationPayload — структурированная нагрузка события изменения цены.
type NotificationPayload struct {
	PropertyID uuid.UUID `json:"propertyId"`
	OldPrice   int       `json:"oldPrice"`
	NewPrice   int       `json:"newPrice"`
}

// PriceChangeEvent — событие для внешних потребителей (очередь).
type PriceChangeEvent struct {
	PropertyID uuid.UUID `json:"propertyId"`
	Source     string    `json:"source"`
	SourceID   string    `json:"sourceId"`
	Title      string    `json:"title"`
	OldPrice   int       `json:"oldPrice"`
	NewPrice   int       `json:"newPrice"`
	OccurredAt time.Time `json:"occurredAt"`
}
