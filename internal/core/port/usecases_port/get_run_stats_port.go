package usecases_port

import (
	"context"

	"rental-hub-service/internal/core/domain"
)

type GetRunStatsUseCase interface {
	Execute(ctx context.Context) (*domain.RunStats, error)
}
