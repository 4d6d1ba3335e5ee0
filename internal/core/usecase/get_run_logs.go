package usecase

import (
	"context"
	"fmt"

	"rental-hub-service/internal/contextkeys"
	"rental-hub-service/internal/core/domain"
	"rental-hub-service/internal/core/port"
	"rental-hub-service/internal/core/port/usecases_port"
)

type GetRunLogsUseCase struct {
	runs port.CrawlRunStoragePort
}

func NewGetRunLogsUseCase(runs port.CrawlRunStoragePort) *GetRunLogsUseCase {
	return &GetRunLogsUseCase{runs: runs}
}

func (uc *GetRunLogsUseCase) Execute(ctx context.Context, filter domain.RunLogsFilter, page, limit int) (*usecases_port.RunLogsResult, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{"use_case": "GetRunLogs", "page": page})

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := (page - 1) * limit

	result, err := uc.runs.FindWithFilters(ctx, filter, limit, offset)
	if err != nil {
		ucLogger.Error("Storage returned an error", err, nil)
		return nil, fmt.Errorf("load crawl run logs: %w", err)
	}

	pages := 0
	if result.Total > 0 {
		pages = (result.Total + limit - 1) / limit
	}

	return &usecases_port.RunLogsResult{
		Logs: result.Items,
		Pagination: usecases_port.SearchPagination{
			Page:  page,
			Limit: limit,
			Total: result.Total,
			Pages: pages,
		},
	}, nil
}
