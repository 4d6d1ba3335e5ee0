package usecase

import (
	"context"

	"github.com/google/uuid"

	"rental-hub-service/internal/contextkeys"
	"rental-hub-service/internal/core/domain"
	"rental-hub-service/internal/core/port"
)

// GetListingUseCase — карточка объявления. Каждый просмотр карточки
// увеличивает счётчик, как и выдача в результатах поиска.
type GetListingUseCase struct {
	storage port.ListingStoragePort
}

func NewGetListingUseCase(storage port.ListingStoragePort) *GetListingUseCase {
	return &GetListingUseCase{storage: storage}
}

func (uc *GetListingUseCase) Execute(ctx context.Context, id uuid.UUID) (*domain.Listing, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{"use_case": "GetListing", "listing_id": id})

	listing, err := uc.storage.FindByID(ctx, id)
	if err != nil {
		ucLogger.Error("Listing lookup failed", err, nil)
		return nil, err // ErrNotFound уходит наверх как 404
	}

	if err := uc.storage.IncrementViewCounts(ctx, []uuid.UUID{id}); err != nil {
		ucLogger.Error("Failed to increment view count", err, nil)
	}
	listing.ViewCount++

	return listing, nil
}
