package port

import (
	"context"
	"time"

	"github.com/google/uuid"

	"rental-hub-service/internal/core/domain"
)

// CrawlRunStoragePort — журнал запусков краулера. Записи создаются в статусе
// RUNNING и финализируются ровно один раз.
type CrawlRunStoragePort interface {
	Create(ctx context.Context, source string) (*domain.CrawlRun, error)

	// Finalize переводит запись в COMPLETED или FAILED и фиксирует счётчики.
	Finalize(ctx context.Context, id uuid.UUID, status string, totalFound, newCount, updatedCount int, errorMessage *string) error

	FindWithFilters(ctx context.Context, filter domain.RunLogsFilter, limit, offset int) (*domain.CrawlRunPage, error)

	CountByStatus(ctx context.Context, status string) (int, error)

	CountAll(ctx context.Context) (int, error)

	// RecentRuns возвращает запуски, начатые не раньше since, для дневной сводки.
	RecentRuns(ctx context.Context, since time.Time) ([]domain.CrawlRun, error)

	// StatsBySource агрегирует запуски по паре (источник, статус).
	StatsBySource(ctx context.Context) ([]domain.SourceStat, error)
}
