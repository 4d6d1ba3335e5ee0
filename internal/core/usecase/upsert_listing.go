package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"rental-hub-service/internal/contextkeys"
	"rental-hub-service/internal/core/domain"
	"rental-hub-service/internal/core/port"
	"rental-hub-service/internal/core/port/usecases_port"
)

// UpsertListingUseCase — движок слияния. Дедупликация по (source, sourceId),
// ведение истории цен и запуск рассылки при изменении цены.
type UpsertListingUseCase struct {
	storage  port.ListingStoragePort
	notifier usecases_port.NotifyPriceChangeUseCase

	// Конкурентные upsert-ы одного ключа сериализуются мьютексом на ключ,
	// иначе параллельные запуски краулера теряют обновления и
	// дублируют записи истории цен.
	keysMu sync.Mutex
	keys   map[string]*sync.Mutex
}

func NewUpsertListingUseCase(storage port.ListingStoragePort, notifier usecases_port.NotifyPriceChangeUseCase) *UpsertListingUseCase {
	return &UpsertListingUseCase{
		storage:  storage,
		notifier: notifier,
		keys:     make(map[string]*sync.Mutex),
	}
}

func (uc *UpsertListingUseCase) lockKey(source, sourceID string) *sync.Mutex {
	key := source + ":" + sourceID
	uc.keysMu.Lock()
	defer uc.keysMu.Unlock()

	mu, ok := uc.keys[key]
	if !ok {
		mu = &sync.Mutex{}
		uc.keys[key] = mu
	}
	return mu
}

func (uc *UpsertListingUseCase) Execute(ctx context.Context, listing *domain.Listing) (domain.UpsertResult, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":  "UpsertListing",
		"source":    listing.Source,
		"source_id": listing.SourceID,
	})

	if listing.SourceID == "" {
		return domain.UpsertResult{}, fmt.Errorf("upsert: listing from %s has empty sourceId", listing.Source)
	}

	mu := uc.lockKey(listing.Source, listing.SourceID)
	mu.Lock()
	defer mu.Unlock()

	existing, err := uc.storage.FindByKey(ctx, listing.Source, listing.SourceID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		result, insertErr := uc.insert(ctx, ucLogger, listing)
		if !errors.Is(insertErr, domain.ErrAlreadyExists) {
			return result, insertErr
		}

		// Гонка вставки с другим процессом: мьютекс на ключ её не
		// закрывает. Конфликт уникальности разрешается повтором как
		// обновление, наружу он не уходит.
		ucLogger.Warn("Insert lost a cross-process race, retrying as update", nil)
		existing, err = uc.storage.FindByKey(ctx, listing.Source, listing.SourceID)
		if err != nil {
			ucLogger.Error("Lookup after insert conflict failed", err, nil)
			return domain.UpsertResult{}, fmt.Errorf("upsert conflict lookup for %s/%s: %w", listing.Source, listing.SourceID, err)
		}
		return uc.update(ctx, ucLogger, existing, listing)
	case err != nil:
		ucLogger.Error("Storage lookup failed", err, nil)
		return domain.UpsertResult{}, fmt.Errorf("upsert lookup for %s/%s: %w", listing.Source, listing.SourceID, err)
	}

	return uc.update(ctx, ucLogger, existing, listing)
}

func (uc *UpsertListingUseCase) insert(ctx context.Context, logger port.LoggerPort, listing *domain.Listing) (domain.UpsertResult, error) {
	now := time.Now()
	listing.LastSeenAt = now
	// Первая запись истории цен закладывается сразу текущей ценой
	listing.PriceHistory = []domain.PriceHistoryEntry{{Price: listing.Price, RecordedAt: now}}

	if err := uc.storage.Create(ctx, listing); err != nil {
		logger.Error("Failed to insert new listing", err, nil)
		return domain.UpsertResult{}, fmt.Errorf("insert listing %s/%s: %w", listing.Source, listing.SourceID, err)
	}

	logger.Debug("New listing inserted", port.Fields{"price": listing.Price})
	return domain.UpsertResult{IsNew: true, NewPrice: listing.Price, ListingID: listing.ID}, nil
}

func (uc *UpsertListingUseCase) update(ctx context.Context, logger port.LoggerPort, existing, incoming *domain.Listing) (domain.UpsertResult, error) {
	lastPrice, hasHistory := existing.LastPrice()
	// Запись дописывается только при реальном изменении цены;
	// равная цена не должна плодить дубликаты в истории.
	priceChanged := hasHistory && lastPrice != incoming.Price

	incoming.ID = existing.ID
	incoming.LastSeenAt = time.Now()

	if err := uc.storage.Update(ctx, incoming, priceChanged); err != nil {
		logger.Error("Failed to update existing listing", err, nil)
		return domain.UpsertResult{}, fmt.Errorf("update listing %s/%s: %w", incoming.Source, incoming.SourceID, err)
	}

	result := domain.UpsertResult{
		PriceChanged: priceChanged,
		OldPrice:     lastPrice,
		NewPrice:     incoming.Price,
		ListingID:    existing.ID,
	}

	if priceChanged {
		logger.Info("Price change detected", port.Fields{
			"old_price": lastPrice,
			"new_price": incoming.Price,
		})
		// Рассылка — побочный эффект fire-and-continue: её сбой не должен
		// откатывать уже сохранённое обновление.
		if err := uc.notifier.Execute(ctx, incoming, lastPrice, incoming.Price); err != nil {
			logger.Error("Price change notification dispatch failed", err, nil)
		}
	}

	return result, nil
}
