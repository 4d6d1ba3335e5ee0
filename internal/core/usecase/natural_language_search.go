package usecase

import (
	"context"
	"fmt"

	"rental-hub-service/internal/contextkeys"
	"rental-hub-service/internal/core/port"
	"rental-hub-service/internal/core/port/usecases_port"
)

// NaturalLanguageSearchUseCase — поиск по свободному тексту: перевод в
// критерии через языковой сервис, журналирование каждого запроса и
// выполнение обычного фильтра.
type NaturalLanguageSearchUseCase struct {
	translator port.QueryTranslatorPort
	search     usecases_port.SearchListingsUseCase
	searchLog  port.SearchLogStoragePort
}

func NewNaturalLanguageSearchUseCase(translator port.QueryTranslatorPort, search usecases_port.SearchListingsUseCase, searchLog port.SearchLogStoragePort) *NaturalLanguageSearchUseCase {
	return &NaturalLanguageSearchUseCase{
		translator: translator,
		search:     search,
		searchLog:  searchLog,
	}
}

func (uc *NaturalLanguageSearchUseCase) Execute(ctx context.Context, query string, page, limit int) (*usecases_port.NaturalSearchResult, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case": "NaturalLanguageSearch",
		"query":    query,
	})

	ucLogger.Info("Translating natural language query", nil)

	criteria, translateErr := uc.translator.Translate(ctx, query)

	// Запрос журналируется всегда, в том числе при неудачном переводе —
	// тогда критерии остаются пустыми, а ошибка уходит вызывающему.
	logID, logErr := uc.searchLog.Create(ctx, query, criteria)
	if logErr != nil {
		ucLogger.Error("Failed to write search query log", logErr, nil)
	}

	if translateErr != nil {
		ucLogger.Error("Query translation failed", translateErr, nil)
		return nil, translateErr
	}

	result, err := uc.search.Execute(ctx, *criteria, page, limit, "", "")
	if err != nil {
		return nil, fmt.Errorf("execute translated criteria: %w", err)
	}

	// Дозапись количества результатов — единственное обновление журнала
	if logErr == nil {
		if err := uc.searchLog.SetResultCount(ctx, logID, result.Pagination.Total); err != nil {
			ucLogger.Error("Failed to backfill search log result count", err, nil)
		}
	}

	ucLogger.Info("Natural language search finished", port.Fields{
		"total": result.Pagination.Total,
	})

	return &usecases_port.NaturalSearchResult{
		Query:          query,
		ParsedCriteria: *criteria,
		Properties:     result.Properties,
		Pagination:     result.Pagination,
	}, nil
}
