package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrItemNotFound = errors.New("item not found")

type ItemRepo struct {
	pool *pgxpool.Pool
}

func NewItemRepo(pool *pgxpool.Pool) *ItemRepo {
	return &ItemRepo{pool: pool}
}

type ItemRecord struct {
	ID          uuid.UUID
	OwnerID     int64
	Title       string
	Description string
	Category    string
	PhotoKeys   []string
	CreatedAt   time.Time
}

func (r *ItemRepo) Create(ctx context.Context, rec ItemRecord) (ItemRecord, error) {
	if r.pool == nil {
		return ItemRecord{}, fmt.Errorf("postgres pool is nil")
	}
	if rec.OwnerID <= 0 || strings.TrimSpace(rec.Title) == "" {
		return ItemRecord{}, fmt.Errorf("invalid item payload")
	}
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	var out ItemRecord
	err := r.pool.QueryRow(ctx, `
INSERT INTO items (
	id,
	owner_id,
	title,
	description,
	category,
	photo_keys,
	created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id, owner_id, title, description, category, photo_keys, created_at
`, rec.ID, rec.OwnerID, strings.TrimSpace(rec.Title), rec.Description, rec.Category, rec.PhotoKeys, rec.CreatedAt.UTC()).Scan(
		&out.ID,
		&out.OwnerID,
		&out.Title,
		&out.Description,
		&out.Category,
		&out.PhotoKeys,
		&out.CreatedAt,
	)
	if err != nil {
		return ItemRecord{}, fmt.Errorf("create item: %w", err)
	}

	return out, nil
}

func (r *ItemRepo) GetByID(ctx context.Context, itemID uuid.UUID) (ItemRecord, error) {
	if r.pool == nil {
		return ItemRecord{}, fmt.Errorf("postgres pool is nil")
	}
	if itemID == uuid.Nil {
		return ItemRecord{}, fmt.Errorf("invalid item id")
	}

	var rec ItemRecord
	err := r.pool.QueryRow(ctx, `
SELECT id, owner_id, title, description, category, photo_keys, created_at
FROM items
WHERE id = $1
`, itemID).Scan(
		&rec.ID,
		&rec.OwnerID,
		&rec.Title,
		&rec.Description,
		&rec.Category,
		&rec.PhotoKeys,
		&rec.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ItemRecord{}, ErrItemNotFound
		}
		return ItemRecord{}, fmt.Errorf("get item: %w", err)
	}
	return rec, nil
}

func (r *ItemRepo) ListByOwner(ctx context.Context, ownerID int64) ([]ItemRecord, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}
	if ownerID <= 0 {
		return nil, fmt.Errorf("invalid owner id")
	}

	rows, err := r.pool.Query(ctx, `
SELECT id, owner_id, title, description, category, photo_keys, created_at
FROM items
WHERE owner_id = $1
ORDER BY created_at DESC
`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list items by owner: %w", err)
	}
	defer rows.Close()

	var out []ItemRecord
	for rows.Next() {
		var rec ItemRecord
		if err := rows.Scan(
			&rec.ID,
			&rec.OwnerID,
			&rec.Title,
			&rec.Description,
			&rec.Category,
			&rec.PhotoKeys,
			&rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan item row: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate item rows: %w", err)
	}
	return out, nil
}

func (r *ItemRepo) AppendPhotoKey(ctx context.Context, itemID uuid.UUID, ownerID int64, key string, maxPhotos int) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}
	if itemID == uuid.Nil || ownerID <= 0 || strings.TrimSpace(key) == "" {
		return fmt.Errorf("invalid photo payload")
	}
	if maxPhotos <= 0 {
		maxPhotos = 6
	}

	result, err := r.pool.Exec(ctx, `
UPDATE items
SET photo_keys = array_append(photo_keys, $3)
WHERE id = $1 AND owner_id = $2 AND COALESCE(array_length(photo_keys, 1), 0) < $4
`, itemID, ownerID, key, maxPhotos)
	if err != nil {
		return fmt.Errorf("append item photo: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrItemNotFound
	}
	return nil
}
