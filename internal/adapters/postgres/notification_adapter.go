package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"rental-hub-service/internal/core/domain"
	"rental-hub-service/internal/core/port"
)

// NotificationSinkAdapter — create-only запись уведомлений.
type NotificationSinkAdapter struct {
	pool *pgxpool.Pool
}

func NewNotificationSinkAdapter(pool *pgxpool.Pool) port.NotificationSinkPort {
	return &NotificationSinkAdapter{pool: pool}
}

func (a *NotificationSinkAdapter) Create(ctx context.Context, notification domain.Notification) error {
	data, err := json.Marshal(notification.Data)
	if err != nil {
		return fmt.Errorf("failed to marshal notification payload: %w", err)
	}

	_, err = a.pool.Exec(ctx,
		`INSERT INTO notifications (user_id, type, title, content, data) VALUES ($1, $2, $3, $4, $5)`,
		notification.UserID, notification.Type, notification.Title, notification.Content, data,
	)
	if err != nil {
		return fmt.Errorf("failed to insert notification: %w", err)
	}
	return nil
}
