package usecases_port

import (
	"context"

	"rental-hub-service/internal/core/domain"
)

// SuggestUseCase — подсказки по уникальным значениям district/mrt/roomType,
// с ограничением на категорию.
type SuggestUseCase interface {
	Execute(ctx context.Context, prefix string) ([]domain.Suggestion, error)
}
