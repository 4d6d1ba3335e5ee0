package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"rental-hub-service/internal/core/domain"
	"rental-hub-service/internal/core/port"
)

// FavoriteReaderAdapter — чтение интересов пользователей для рассылки.
type FavoriteReaderAdapter struct {
	pool *pgxpool.Pool
}

func NewFavoriteReaderAdapter(pool *pgxpool.Pool) port.FavoriteReaderPort {
	return &FavoriteReaderAdapter{pool: pool}
}

func (a *FavoriteReaderAdapter) FindByListing(ctx context.Context, listingID uuid.UUID) ([]domain.FavoriteInterest, error) {
	rows, err := a.pool.Query(ctx,
		`SELECT user_id, property_id FROM favorites WHERE property_id = $1`,
		listingID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query favorites: %w", err)
	}
	defer rows.Close()

	interests := []domain.FavoriteInterest{}
	for rows.Next() {
		var interest domain.FavoriteInterest
		if err := rows.Scan(&interest.UserID, &interest.ListingID); err != nil {
			return nil, fmt.Errorf("failed to scan favorite: %w", err)
		}
		interests = append(interests, interest)
	}
	return interests, rows.Err()
}
