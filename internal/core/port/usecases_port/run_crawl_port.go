package usecases_port

import (
	"context"

	"rental-hub-service/internal/core/domain"
)

// RunCrawlUseCase — один вызов crawlAll: каждый настроенный источник
// обходится ровно один раз, сбой одного источника не прерывает остальные.
type RunCrawlUseCase interface {
	Execute(ctx context.Context, sourceOptions map[string]domain.CrawlOptions) (*domain.RunSummary, error)
}
