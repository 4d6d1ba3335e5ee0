package usecase

import (
	"context"
	"fmt"
	"time"

	"rental-hub-service/internal/contextkeys"
	"rental-hub-service/internal/core/domain"
	"rental-hub-service/internal/core/port"
)

// NotifyPriceChangeUseCase — веерная рассылка: одно событие изменения цены
// превращается в N независимых уведомлений заинтересованным пользователям.
type NotifyPriceChangeUseCase struct {
	favorites port.FavoriteReaderPort
	sink      port.NotificationSinkPort
	events    port.PriceChangeEventsPort // может быть nil, если очередь выключена
}

func NewNotifyPriceChangeUseCase(favorites port.FavoriteReaderPort, sink port.NotificationSinkPort, events port.PriceChangeEventsPort) *NotifyPriceChangeUseCase {
	return &NotifyPriceChangeUseCase{
		favorites: favorites,
		sink:      sink,
		events:    events,
	}
}

func (uc *NotifyPriceChangeUseCase) Execute(ctx context.Context, listing *domain.Listing, oldPrice, newPrice int) error {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":   "NotifyPriceChange",
		"listing_id": listing.ID,
		"old_price":  oldPrice,
		"new_price":  newPrice,
	})

	interests, err := uc.favorites.FindByListing(ctx, listing.ID)
	if err != nil {
		ucLogger.Error("Failed to read favorite interests", err, nil)
		return fmt.Errorf("read favorites for listing %s: %w", listing.ID, err)
	}

	created, failed := 0, 0
	for _, interest := range interests {
		notification := domain.Notification{
			UserID: interest.UserID,
			Type:   domain.NotificationTypePriceChange,
			Title:  "物件價格變動通知",
			Content: fmt.Sprintf("您收藏的物件「%s」價格從 $%d 變更為 $%d",
				listing.Title, oldPrice, newPrice),
			Data: domain.NotificationPayload{
				PropertyID: listing.ID,
				OldPrice:   oldPrice,
				NewPrice:   newPrice,
			},
		}

		// Сбой одного получателя не прерывает рассылку остальным
		if err := uc.sink.Create(ctx, notification); err != nil {
			failed++
			ucLogger.Error("Failed to create notification for recipient", err, port.Fields{
				"user_id": interest.UserID,
			})
			continue
		}
		created++
	}

	// Одно событие в очередь на всё изменение цены, независимо от числа
	// получателей. Публикация best-effort.
	if uc.events != nil {
		event := domain.PriceChangeEvent{
			PropertyID: listing.ID,
			Source:     listing.Source,
			SourceID:   listing.SourceID,
			Title:      listing.Title,
			OldPrice:   oldPrice,
			NewPrice:   newPrice,
			OccurredAt: time.Now(),
		}
		if err := uc.events.PublishPriceChange(ctx, event); err != nil {
			ucLogger.Error("Failed to publish price change event", err, nil)
		}
	}

	ucLogger.Info("Price change fan-out finished", port.Fields{
		"recipients": len(interests),
		"created":    created,
		"failed":     failed,
	})
	return nil
}
