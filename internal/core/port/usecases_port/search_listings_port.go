package usecases_port

import (
	"context"

	"rental-hub-service/internal/core/domain"
)

// SearchPagination — блок пагинации в ответе поиска.
type SearchPagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

// SearchResult — страница выдачи вместе с применёнными критериями.
type SearchResult struct {
	Properties []domain.Listing      `json:"properties"`
	Pagination SearchPagination      `json:"pagination"`
	Criteria   domain.SearchCriteria `json:"searchCriteria"`
}

// SearchListingsUseCase — детерминированное выполнение структурированного фильтра.
type SearchListingsUseCase interface {
	Execute(ctx context.Context, criteria domain.SearchCriteria, page, limit int, sortBy, sortOrder string) (*SearchResult, error)
}
