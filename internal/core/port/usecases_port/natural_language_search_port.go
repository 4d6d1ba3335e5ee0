package usecases_port

import (
	"context"

	"rental-hub-service/internal/core/domain"
)

// NaturalSearchResult — ответ поиска по свободному тексту: исходный запрос,
// распознанные критерии и обычная страница выдачи.
type NaturalSearchResult struct {
	Query          string                `json:"query"`
	ParsedCriteria domain.SearchCriteria `json:"parsedCriteria"`
	Properties     []domain.Listing      `json:"properties"`
	Pagination     SearchPagination      `json:"pagination"`
}

// NaturalLanguageSearchUseCase — перевод текста в критерии с журналированием
// каждого запроса и дозаписью количества результатов.
type NaturalLanguageSearchUseCase interface {
	Execute(ctx context.Context, query string, page, limit int) (*NaturalSearchResult, error)
}
