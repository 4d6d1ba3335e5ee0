package usecases_port

import (
	"context"

	"rental-hub-service/internal/core/domain"
)

// RunLogsResult — страница журналов запусков краулера.
type RunLogsResult struct {
	Logs       []domain.CrawlRun `json:"logs"`
	Pagination SearchPagination  `json:"pagination"`
}

type GetRunLogsUseCase interface {
	Execute(ctx context.Context, filter domain.RunLogsFilter, page, limit int) (*RunLogsResult, error)
}
