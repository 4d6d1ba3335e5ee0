package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"rental-hub-service/internal/core/domain"
	"rental-hub-service/internal/core/port"
)

// SearchLogStorageAdapter — append-only журнал NL-запросов в search_history.
type SearchLogStorageAdapter struct {
	pool *pgxpool.Pool
}

func NewSearchLogStorageAdapter(pool *pgxpool.Pool) port.SearchLogStoragePort {
	return &SearchLogStorageAdapter{pool: pool}
}

func (a *SearchLogStorageAdapter) Create(ctx context.Context, query string, criteria *domain.SearchCriteria) (uuid.UUID, error) {
	// criteria = nil (неудачный перевод) пишется как SQL NULL
	var criteriaJSON []byte
	if criteria != nil {
		var err error
		criteriaJSON, err = json.Marshal(criteria)
		if err != nil {
			return uuid.Nil, fmt.Errorf("failed to marshal search criteria: %w", err)
		}
	}

	var id uuid.UUID
	err := a.pool.QueryRow(ctx,
		`INSERT INTO search_history (query, criteria) VALUES ($1, $2) RETURNING id`,
		query, criteriaJSON,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create search log entry: %w", err)
	}
	return id, nil
}

func (a *SearchLogStorageAdapter) SetResultCount(ctx context.Context, id uuid.UUID, count int) error {
	_, err := a.pool.Exec(ctx,
		`UPDATE search_history SET result_count = $2 WHERE id = $1`,
		id, count,
	)
	if err != nil {
		return fmt.Errorf("failed to backfill result count: %w", err)
	}
	return nil
}
