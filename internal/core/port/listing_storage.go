package port

import (
	"context"

	"github.com/google/uuid"

	"rental-hub-service/internal/core/domain"
)

// ListingStoragePort — контракт хранилища объявлений.
// Запись идёт только через движок слияния, чтение — через поисковый слой.
type ListingStoragePort interface {
	// FindByKey возвращает объявление по ключу (source, sourceId) вместе с
	// последней записью истории цен. domain.ErrNotFound при промахе.
	FindByKey(ctx context.Context, source, sourceID string) (*domain.Listing, error)

	// Create вставляет новое объявление и закладывает первую запись
	// истории цен текущей ценой.
	Create(ctx context.Context, listing *domain.Listing) error

	// Update обновляет описательные поля и lastSeenAt существующей записи.
	// При appendPrice=true дописывает новую запись истории цен —
	// только при реальном изменении цены, никогда при равной.
	Update(ctx context.Context, listing *domain.Listing, appendPrice bool) error

	FindByID(ctx context.Context, id uuid.UUID) (*domain.Listing, error)

	// FindWithFilters выполняет детерминированный поиск по критериям.
	// Выбираются только активные объявления.
	FindWithFilters(ctx context.Context, criteria domain.SearchCriteria, limit, offset int, sortBy, sortOrder string) (*domain.ListingPage, error)

	// IncrementViewCounts увеличивает счётчик просмотров пачкой,
	// по одному на каждый возврат объявления в выдаче.
	IncrementViewCounts(ctx context.Context, ids []uuid.UUID) error

	// DistinctValues возвращает уникальные значения поля field
	// (district | near_mrt | room_type), содержащие подстроку q, не более limit.
	DistinctValues(ctx context.Context, field, q string, limit int) ([]string, error)
}
