package port

import (
	"context"

	"github.com/google/uuid"

	"rental-hub-service/internal/core/domain"
)

// FavoriteReaderPort — чтение интересов пользователей. Сами избранные
// принадлежат внешнему слою, ядру доступен только просмотр по объявлению.
type FavoriteReaderPort interface {
	FindByListing(ctx context.Context, listingID uuid.UUID) ([]domain.FavoriteInterest, error)
}
