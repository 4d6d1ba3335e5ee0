package usecases_port

import (
	"context"

	"rental-hub-service/internal/core/domain"
)

// UpsertListingUseCase — идемпотентное слияние по ключу (source, sourceId)
// с ведением истории цен.
type UpsertListingUseCase interface {
	Execute(ctx context.Context, listing *domain.Listing) (domain.UpsertResult, error)
}
