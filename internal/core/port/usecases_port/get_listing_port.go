package usecases_port

import (
	"context"

	"github.com/google/uuid"

	"rental-hub-service/internal/core/domain"
)

// GetListingUseCase — карточка объявления по ID, с инкрементом просмотров.
type GetListingUseCase interface {
	Execute(ctx context.Context, id uuid.UUID) (*domain.Listing, error)
}
