package port

import (
	"context"

	"rental-hub-service/internal/core/domain"
)

// NotificationSinkPort — create-only приёмник уведомлений.
type NotificationSinkPort interface {
	Create(ctx context.Context, notification domain.Notification) error
}

// PriceChangeEventsPort — публикация события изменения цены для внешних
// потребителей. Ошибка публикации не должна влиять на сохранение данных.
type PriceChangeEventsPort interface {
	PublishPriceChange(ctx context.Context, event domain.PriceChangeEvent) error
}
