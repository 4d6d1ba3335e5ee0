package usecases_port

import (
	"context"

	"rental-hub-service/internal/core/domain"
)

// NotifyPriceChangeUseCase — веерная рассылка уведомлений об изменении цены.
// Доставка at-most-once, сбой одного получателя не прерывает остальных.
type NotifyPriceChangeUseCase interface {
	Execute(ctx context.Context, listing *domain.Listing, oldPrice, newPrice int) error
}
