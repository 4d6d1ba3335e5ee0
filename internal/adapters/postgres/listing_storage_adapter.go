package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"rental-hub-service/internal/core/domain"
	"rental-hub-service/internal/core/port"
)

const uniqueViolationCode = "23505"

// ListingStorageAdapter реализует ListingStoragePort поверх PostgreSQL.
type ListingStorageAdapter struct {
	pool *pgxpool.Pool
}

func NewListingStorageAdapter(pool *pgxpool.Pool) port.ListingStoragePort {
	return &ListingStorageAdapter{pool: pool}
}

const listingColumns = `
	p.id, p.source, p.source_id, p.title, p.description, p.price, p.deposit,
	p.district, p.address, p.near_mrt, p.area, p.room_type, p.floor, p.total_floors,
	p.has_parking, p.has_pet, p.has_cooking, p.has_elevator, p.has_balcony, p.has_washer,
	p.contact_name, p.contact_phone, p.url, p.view_count, p.is_active,
	p.last_seen_at, p.created_at, p.updated_at`

func scanListing(row pgx.Row) (*domain.Listing, error) {
	var l domain.Listing
	err := row.Scan(
		&l.ID, &l.Source, &l.SourceID, &l.Title, &l.Description, &l.Price, &l.Deposit,
		&l.District, &l.Address, &l.NearMRT, &l.Area, &l.RoomType, &l.Floor, &l.TotalFloors,
		&l.HasParking, &l.HasPet, &l.HasCooking, &l.HasElevator, &l.HasBalcony, &l.HasWasher,
		&l.ContactName, &l.ContactPhone, &l.URL, &l.ViewCount, &l.IsActive,
		&l.LastSeenAt, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (a *ListingStorageAdapter) FindByKey(ctx context.Context, source, sourceID string) (*domain.Listing, error) {
	row := a.pool.QueryRow(ctx,
		`SELECT `+listingColumns+` FROM properties p WHERE p.source = $1 AND p.source_id = $2`,
		source, sourceID,
	)
	listing, err := scanListing(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find listing by key: %w", err)
	}

	// Движку слияния нужна последняя наблюдённая цена
	var last domain.PriceHistoryEntry
	err = a.pool.QueryRow(ctx,
		`SELECT price, recorded_at FROM price_history
		 WHERE property_id = $1 ORDER BY recorded_at DESC, id DESC LIMIT 1`,
		listing.ID,
	).Scan(&last.Price, &last.RecordedAt)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		// допустимо для записей, созданных до ведения истории
	case err != nil:
		return nil, fmt.Errorf("failed to read latest price: %w", err)
	default:
		listing.PriceHistory = []domain.PriceHistoryEntry{last}
	}

	return listing, nil
}

func (a *ListingStorageAdapter) Create(ctx context.Context, listing *domain.Listing) error {
	tx, err := a.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO properties (
			source, source_id, title, description, price, deposit,
			district, address, near_mrt, area, room_type, floor, total_floors,
			has_parking, has_pet, has_cooking, has_elevator, has_balcony, has_washer,
			contact_name, contact_phone, url, is_active, last_seen_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13,
			$14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24
		)
		RETURNING id, created_at, updated_at`,
		listing.Source, listing.SourceID, listing.Title, listing.Description, listing.Price, listing.Deposit,
		listing.District, listing.Address, listing.NearMRT, listing.Area, listing.RoomType, listing.Floor, listing.TotalFloors,
		listing.HasParking, listing.HasPet, listing.HasCooking, listing.HasElevator, listing.HasBalcony, listing.HasWasher,
		listing.ContactName, listing.ContactPhone, listing.URL, listing.IsActive, listing.LastSeenAt,
	).Scan(&listing.ID, &listing.CreatedAt, &listing.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return fmt.Errorf("listing %s/%s: %w", listing.Source, listing.SourceID, domain.ErrAlreadyExists)
		}
		return fmt.Errorf("failed to insert listing: %w", err)
	}

	if err := a.replaceChildren(ctx, tx, listing); err != nil {
		return err
	}

	for _, entry := range listing.PriceHistory {
		_, err = tx.Exec(ctx,
			`INSERT INTO price_history (property_id, price, recorded_at) VALUES ($1, $2, $3)`,
			listing.ID, entry.Price, entry.RecordedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to seed price history: %w", err)
		}
	}

	return tx.Commit(ctx)
}

func (a *ListingStorageAdapter) Update(ctx context.Context, listing *domain.Listing, appendPrice bool) error {
	tx, err := a.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// Блокировка строки: сериализует конкурентные обновления одного ключа
	// между процессами, не только внутри одного
	var id uuid.UUID
	err = tx.QueryRow(ctx,
		`SELECT id FROM properties WHERE source = $1 AND source_id = $2 FOR UPDATE`,
		listing.Source, listing.SourceID,
	).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to lock listing row: %w", err)
	}
	listing.ID = id

	_, err = tx.Exec(ctx, `
		UPDATE properties SET
			title = $2, description = $3, price = $4, deposit = $5,
			district = $6, address = $7, near_mrt = $8, area = $9,
			room_type = $10, floor = $11, total_floors = $12,
			has_parking = $13, has_pet = $14, has_cooking = $15,
			has_elevator = $16, has_balcony = $17, has_washer = $18,
			contact_name = $19, contact_phone = $20, url = $21,
			is_active = $22, last_seen_at = $23, updated_at = now()
		WHERE id = $1`,
		id,
		listing.Title, listing.Description, listing.Price, listing.Deposit,
		listing.District, listing.Address, listing.NearMRT, listing.Area,
		listing.RoomType, listing.Floor, listing.TotalFloors,
		listing.HasParking, listing.HasPet, listing.HasCooking,
		listing.HasElevator, listing.HasBalcony, listing.HasWasher,
		listing.ContactName, listing.ContactPhone, listing.URL,
		listing.IsActive, listing.LastSeenAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update listing: %w", err)
	}

	if err := a.replaceChildren(ctx, tx, listing); err != nil {
		return err
	}

	if appendPrice {
		// Решение о дозаписи принималось до захвата блокировки и могло
		// устареть: перечитываем последнюю цену под FOR UPDATE и пишем
		// только при реальном отличии — история не получает дубликатов.
		var latestPrice int
		err = tx.QueryRow(ctx,
			`SELECT price FROM price_history
			 WHERE property_id = $1
			 ORDER BY recorded_at DESC, id DESC LIMIT 1`,
			id,
		).Scan(&latestPrice)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("failed to read latest price: %w", err)
		}
		if errors.Is(err, pgx.ErrNoRows) || latestPrice != listing.Price {
			_, err = tx.Exec(ctx,
				`INSERT INTO price_history (property_id, price, recorded_at) VALUES ($1, $2, now())`,
				id, listing.Price,
			)
			if err != nil {
				return fmt.Errorf("failed to append price history: %w", err)
			}
		}
	}

	return tx.Commit(ctx)
}

// replaceChildren перезаписывает изображения и особенности снимком источника
func (a *ListingStorageAdapter) replaceChildren(ctx context.Context, tx pgx.Tx, listing *domain.Listing) error {
	_, err := tx.Exec(ctx, `DELETE FROM property_images WHERE property_id = $1`, listing.ID)
	if err != nil {
		return fmt.Errorf("failed to clear images: %w", err)
	}
	for _, img := range listing.Images {
		_, err = tx.Exec(ctx,
			`INSERT INTO property_images (property_id, url, image_order) VALUES ($1, $2, $3)`,
			listing.ID, img.URL, img.Order,
		)
		if err != nil {
			return fmt.Errorf("failed to insert image: %w", err)
		}
	}

	_, err = tx.Exec(ctx, `DELETE FROM property_features WHERE property_id = $1`, listing.ID)
	if err != nil {
		return fmt.Errorf("failed to clear features: %w", err)
	}
	for _, f := range listing.Features {
		_, err = tx.Exec(ctx,
			`INSERT INTO property_features (property_id, feature, category) VALUES ($1, $2, $3)`,
			listing.ID, f.Feature, f.Category,
		)
		if err != nil {
			return fmt.Errorf("failed to insert feature: %w", err)
		}
	}
	return nil
}

func (a *ListingStorageAdapter) FindByID(ctx context.Context, id uuid.UUID) (*domain.Listing, error) {
	row := a.pool.QueryRow(ctx,
		`SELECT `+listingColumns+` FROM properties p WHERE p.id = $1`, id,
	)
	listing, err := scanListing(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find listing by id: %w", err)
	}

	if err := a.loadChildren(ctx, listing); err != nil {
		return nil, err
	}

	// Карточке нужна полная история цен
	rows, err := a.pool.Query(ctx,
		`SELECT price, recorded_at FROM price_history
		 WHERE property_id = $1 ORDER BY recorded_at ASC, id ASC`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load price history: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var entry domain.PriceHistoryEntry
		if err := rows.Scan(&entry.Price, &entry.RecordedAt); err != nil {
			return nil, fmt.Errorf("failed to scan price history entry: %w", err)
		}
		listing.PriceHistory = append(listing.PriceHistory, entry)
	}

	return listing, rows.Err()
}

func (a *ListingStorageAdapter) loadChildren(ctx context.Context, listing *domain.Listing) error {
	rows, err := a.pool.Query(ctx,
		`SELECT url, image_order FROM property_images WHERE property_id = $1 ORDER BY image_order ASC`,
		listing.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to load images: %w", err)
	}
	for rows.Next() {
		var img domain.ListingImage
		if err := rows.Scan(&img.URL, &img.Order); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan image: %w", err)
		}
		listing.Images = append(listing.Images, img)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	rows, err = a.pool.Query(ctx,
		`SELECT feature, category FROM property_features WHERE property_id = $1 ORDER BY id ASC`,
		listing.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to load features: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var f domain.ListingFeature
		if err := rows.Scan(&f.Feature, &f.Category); err != nil {
			return fmt.Errorf("failed to scan feature: %w", err)
		}
		listing.Features = append(listing.Features, f)
	}
	return rows.Err()
}

func (a *ListingStorageAdapter) FindWithFilters(ctx context.Context, criteria domain.SearchCriteria, limit, offset int, sortBy, sortOrder string) (*domain.ListingPage, error) {
	whereClause, args := applyFilters(criteria)

	var total int
	countQuery := `SELECT COUNT(*) FROM properties p ` + whereClause
	if err := a.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count listings: %w", err)
	}

	query := fmt.Sprintf(
		`SELECT %s FROM properties p %s %s LIMIT $%d OFFSET $%d`,
		listingColumns, whereClause, orderClause(sortBy, sortOrder), len(args)+1, len(args)+2,
	)
	args = append(args, limit, offset)

	rows, err := a.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query listings: %w", err)
	}
	defer rows.Close()

	page := &domain.ListingPage{Items: []domain.Listing{}, Total: total}
	for rows.Next() {
		listing, err := scanListing(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan listing: %w", err)
		}
		page.Items = append(page.Items, *listing)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Картинки подгружаются на страницу выдачи, особенности — только в карточке
	for i := range page.Items {
		if err := a.loadChildren(ctx, &page.Items[i]); err != nil {
			return nil, err
		}
	}

	return page, nil
}

func (a *ListingStorageAdapter) IncrementViewCounts(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := a.pool.Exec(ctx,
		`UPDATE properties SET view_count = view_count + 1 WHERE id = ANY($1)`,
		ids,
	)
	if err != nil {
		return fmt.Errorf("failed to increment view counts: %w", err)
	}
	return nil
}

// Белый список полей для подсказок: имя подставляется в SQL напрямую
var suggestableColumns = map[string]string{
	"district":  "district",
	"near_mrt":  "near_mrt",
	"room_type": "room_type",
}

func (a *ListingStorageAdapter) DistinctValues(ctx context.Context, field, q string, limit int) ([]string, error) {
	column, ok := suggestableColumns[field]
	if !ok {
		return nil, fmt.Errorf("field %q is not suggestable", field)
	}

	rows, err := a.pool.Query(ctx, fmt.Sprintf(
		`SELECT DISTINCT %s FROM properties
		 WHERE is_active = true AND %s <> '' AND %s ILIKE $1
		 ORDER BY %s LIMIT $2`,
		column, column, column, column,
	), "%"+q+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query distinct %s: %w", field, err)
	}
	defer rows.Close()

	values := []string{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("failed to scan distinct value: %w", err)
		}
		values = append(values, v)
	}
	return values, rows.Err()
}
