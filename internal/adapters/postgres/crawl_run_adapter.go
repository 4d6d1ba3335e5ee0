package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"rental-hub-service/internal/core/domain"
	"rental-hub-service/internal/core/port"
)

// CrawlRunStorageAdapter — журнал запусков краулера в таблице crawler_logs.
type CrawlRunStorageAdapter struct {
	pool *pgxpool.Pool
}

func NewCrawlRunStorageAdapter(pool *pgxpool.Pool) port.CrawlRunStoragePort {
	return &CrawlRunStorageAdapter{pool: pool}
}

func (a *CrawlRunStorageAdapter) Create(ctx context.Context, source string) (*domain.CrawlRun, error) {
	run := &domain.CrawlRun{Source: source, Status: domain.RunStatusRunning}
	err := a.pool.QueryRow(ctx,
		`INSERT INTO crawler_logs (source, status) VALUES ($1, $2) RETURNING id, started_at`,
		source, domain.RunStatusRunning,
	).Scan(&run.ID, &run.StartedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create crawl run: %w", err)
	}
	return run, nil
}

func (a *CrawlRunStorageAdapter) Finalize(ctx context.Context, id uuid.UUID, status string, totalFound, newCount, updatedCount int, errorMessage *string) error {
	// Финализация применяется только к записи в статусе RUNNING:
	// повторный вызов не перетирает уже закрытый запуск
	tag, err := a.pool.Exec(ctx, `
		UPDATE crawler_logs SET
			status = $2, total_found = $3, new_properties = $4,
			updated_properties = $5, error_message = $6, completed_at = now()
		WHERE id = $1 AND status = $7`,
		id, status, totalFound, newCount, updatedCount, errorMessage, domain.RunStatusRunning,
	)
	if err != nil {
		return fmt.Errorf("failed to finalize crawl run: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("crawl run %s is not running: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (a *CrawlRunStorageAdapter) FindWithFilters(ctx context.Context, filter domain.RunLogsFilter, limit, offset int) (*domain.CrawlRunPage, error) {
	conditions := []string{}
	args := []interface{}{}
	argId := 1

	addCondition := func(cond string, arg interface{}) {
		conditions = append(conditions, fmt.Sprintf(cond, argId))
		args = append(args, arg)
		argId++
	}

	if filter.Source != "" {
		addCondition("source = $%d", filter.Source)
	}
	if filter.Status != "" {
		addCondition("status = $%d", filter.Status)
	}
	if filter.StartDate != nil {
		addCondition("started_at >= $%d", *filter.StartDate)
	}
	if filter.EndDate != nil {
		addCondition("started_at <= $%d", *filter.EndDate)
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	if err := a.pool.QueryRow(ctx, `SELECT COUNT(*) FROM crawler_logs `+whereClause, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count crawl runs: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT id, source, status, total_found, new_properties, updated_properties,
		       error_message, started_at, completed_at
		FROM crawler_logs %s
		ORDER BY started_at DESC LIMIT $%d OFFSET $%d`,
		whereClause, argId, argId+1,
	)
	args = append(args, limit, offset)

	rows, err := a.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query crawl runs: %w", err)
	}
	defer rows.Close()

	page := &domain.CrawlRunPage{Items: []domain.CrawlRun{}, Total: total}
	for rows.Next() {
		var run domain.CrawlRun
		err := rows.Scan(
			&run.ID, &run.Source, &run.Status, &run.TotalFound, &run.NewProperties,
			&run.UpdatedProperties, &run.ErrorMessage, &run.StartedAt, &run.CompletedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan crawl run: %w", err)
		}
		page.Items = append(page.Items, run)
	}
	return page, rows.Err()
}

func (a *CrawlRunStorageAdapter) CountByStatus(ctx context.Context, status string) (int, error) {
	var count int
	err := a.pool.QueryRow(ctx, `SELECT COUNT(*) FROM crawler_logs WHERE status = $1`, status).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count crawl runs by status: %w", err)
	}
	return count, nil
}

func (a *CrawlRunStorageAdapter) CountAll(ctx context.Context) (int, error) {
	var count int
	err := a.pool.QueryRow(ctx, `SELECT COUNT(*) FROM crawler_logs`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count crawl runs: %w", err)
	}
	return count, nil
}

func (a *CrawlRunStorageAdapter) RecentRuns(ctx context.Context, since time.Time) ([]domain.CrawlRun, error) {
	rows, err := a.pool.Query(ctx, `
		SELECT id, source, status, total_found, new_properties, updated_properties,
		       error_message, started_at, completed_at
		FROM crawler_logs WHERE started_at >= $1
		ORDER BY started_at DESC`,
		since,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent crawl runs: %w", err)
	}
	defer rows.Close()

	runs := []domain.CrawlRun{}
	for rows.Next() {
		var run domain.CrawlRun
		err := rows.Scan(
			&run.ID, &run.Source, &run.Status, &run.TotalFound, &run.NewProperties,
			&run.UpdatedProperties, &run.ErrorMessage, &run.StartedAt, &run.CompletedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan crawl run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func (a *CrawlRunStorageAdapter) StatsBySource(ctx context.Context) ([]domain.SourceStat, error) {
	rows, err := a.pool.Query(ctx, `
		SELECT source, status, COUNT(*),
		       COALESCE(SUM(total_found), 0), COALESCE(SUM(new_properties), 0)
		FROM crawler_logs
		GROUP BY source, status
		ORDER BY source, status`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate crawl runs by source: %w", err)
	}
	defer rows.Close()

	stats := []domain.SourceStat{}
	for rows.Next() {
		var stat domain.SourceStat
		if err := rows.Scan(&stat.Source, &stat.Status, &stat.Runs, &stat.TotalFound, &stat.NewProperties); err != nil {
			return nil, fmt.Errorf("failed to scan source stat: %w", err)
		}
		stats = append(stats, stat)
	}
	return stats, rows.Err()
}
