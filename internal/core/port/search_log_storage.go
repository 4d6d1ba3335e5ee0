package port

import (
	"context"

	"github.com/google/uuid"

	"rental-hub-service/internal/core/domain"
)

// SearchLogStoragePort — append-only журнал запросов на естественном языке.
type SearchLogStoragePort interface {
	// Create пишет запись журнала. criteria может быть nil,
	// если перевод запроса не удался — запрос всё равно фиксируется.
	Create(ctx context.Context, query string, criteria *domain.SearchCriteria) (uuid.UUID, error)

	// SetResultCount дозаписывает количество результатов после выполнения
	// поиска. Единственное допустимое обновление записи.
	SetResultCount(ctx context.Context, id uuid.UUID, count int) error
}
