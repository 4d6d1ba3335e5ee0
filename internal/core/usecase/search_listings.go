package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"rental-hub-service/internal/contextkeys"
	"rental-hub-service/internal/core/domain"
	"rental-hub-service/internal/core/port"
	"rental-hub-service/internal/core/port/usecases_port"
)

// SearchListingsUseCase — детерминированное выполнение структурированного
// фильтра с пагинацией и сортировкой.
type SearchListingsUseCase struct {
	storage port.ListingStoragePort
}

func NewSearchListingsUseCase(storage port.ListingStoragePort) *SearchListingsUseCase {
	return &SearchListingsUseCase{storage: storage}
}

func (uc *SearchListingsUseCase) Execute(ctx context.Context, criteria domain.SearchCriteria, page, limit int, sortBy, sortOrder string) (*usecases_port.SearchResult, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case": "SearchListings",
		"page":     page,
		"limit":    limit,
	})

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := (page - 1) * limit

	result, err := uc.storage.FindWithFilters(ctx, criteria, limit, offset, sortBy, sortOrder)
	if err != nil {
		ucLogger.Error("Storage returned an error", err, nil)
		return nil, fmt.Errorf("execute search filters: %w", err)
	}

	// Просмотр засчитывается на каждую выдачу объявления в результатах.
	// Повторный запрос той же страницы считает просмотр ещё раз —
	// поведение исходной системы сохранено намеренно.
	if len(result.Items) > 0 {
		ids := make([]uuid.UUID, 0, len(result.Items))
		for i := range result.Items {
			ids = append(ids, result.Items[i].ID)
		}
		if err := uc.storage.IncrementViewCounts(ctx, ids); err != nil {
			ucLogger.Error("Failed to increment view counts", err, nil)
		}
	}

	pages := 0
	if result.Total > 0 {
		pages = (result.Total + limit - 1) / limit
	}

	ucLogger.Info("Search executed", port.Fields{
		"total":         result.Total,
		"items_on_page": len(result.Items),
	})

	return &usecases_port.SearchResult{
		Properties: result.Items,
		Pagination: usecases_port.SearchPagination{
			Page:  page,
			Limit: limit,
			Total: result.Total,
			Pages: pages,
		},
		Criteria: criteria,
	}, nil
}
