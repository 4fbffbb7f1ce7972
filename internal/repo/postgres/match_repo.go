package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrMatchNotFound = errors.New("match not found")

type MatchRepo struct {
	pool *pgxpool.Pool
}

func NewMatchRepo(pool *pgxpool.Pool) *MatchRepo {
	return &MatchRepo{pool: pool}
}

type MatchRecord struct {
	ID        int64
	ItemAID   uuid.UUID
	ItemBID   uuid.UUID
	UserAID   int64
	UserBID   int64
	CreatedAt time.Time
}

// Create inserts a match between two item/owner pairs. The pair is stored
// with the lower user id first so the unique index catches duplicates
// regardless of which side swiped last.
func (r *MatchRepo) Create(ctx context.Context, tx pgx.Tx, itemA, itemB uuid.UUID, userA, userB int64, now time.Time) (MatchRecord, error) {
	if itemA == uuid.Nil || itemB == uuid.Nil || userA <= 0 || userB <= 0 || userA == userB {
		return MatchRecord{}, fmt.Errorf("invalid match payload")
	}
	if tx == nil {
		return MatchRecord{}, fmt.Errorf("transaction is required")
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}
	if userB < userA {
		userA, userB = userB, userA
		itemA, itemB = itemB, itemA
	}

	var rec MatchRecord
	err := tx.QueryRow(ctx, `
INSERT INTO matches (
	item_a_id,
	item_b_id,
	user_a_id,
	user_b_id,
	created_at
) VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (user_a_id, user_b_id, item_a_id, item_b_id) DO UPDATE SET created_at = matches.created_at
RETURNING id, item_a_id, item_b_id, user_a_id, user_b_id, created_at
`, itemA, itemB, userA, userB, now.UTC()).Scan(
		&rec.ID,
		&rec.ItemAID,
		&rec.ItemBID,
		&rec.UserAID,
		&rec.UserBID,
		&rec.CreatedAt,
	)
	if err != nil {
		return MatchRecord{}, fmt.Errorf("create match: %w", err)
	}

	return rec, nil
}

// DeleteByItems removes the match between the two items, if present.
// Used when a swipe that formed the match is reversed.
func (r *MatchRepo) DeleteByItems(ctx context.Context, tx pgx.Tx, itemA, itemB uuid.UUID) (bool, error) {
	if itemA == uuid.Nil || itemB == uuid.Nil {
		return false, fmt.Errorf("invalid match delete payload")
	}
	if tx == nil {
		return false, fmt.Errorf("transaction is required")
	}

	result, err := tx.Exec(ctx, `
DELETE FROM matches
WHERE (item_a_id = $1 AND item_b_id = $2)
   OR (item_a_id = $2 AND item_b_id = $1)
`, itemA, itemB)
	if err != nil {
		return false, fmt.Errorf("delete match by items: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

func (r *MatchRepo) GetByID(ctx context.Context, matchID int64) (MatchRecord, error) {
	if r.pool == nil {
		return MatchRecord{}, fmt.Errorf("postgres pool is nil")
	}
	if matchID <= 0 {
		return MatchRecord{}, fmt.Errorf("invalid match id")
	}

	var rec MatchRecord
	err := r.pool.QueryRow(ctx, `
SELECT id, item_a_id, item_b_id, user_a_id, user_b_id, created_at
FROM matches
WHERE id = $1
`, matchID).Scan(
		&rec.ID,
		&rec.ItemAID,
		&rec.ItemBID,
		&rec.UserAID,
		&rec.UserBID,
		&rec.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return MatchRecord{}, ErrMatchNotFound
		}
		return MatchRecord{}, fmt.Errorf("get match: %w", err)
	}
	return rec, nil
}

func (r *MatchRepo) ListByUser(ctx context.Context, userID int64, limit int) ([]MatchRecord, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}
	if userID <= 0 {
		return nil, fmt.Errorf("invalid user id")
	}
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.pool.Query(ctx, `
SELECT id, item_a_id, item_b_id, user_a_id, user_b_id, created_at
FROM matches
WHERE user_a_id = $1 OR user_b_id = $1
ORDER BY created_at DESC, id DESC
LIMIT $2
`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	defer rows.Close()

	var out []MatchRecord
	for rows.Next() {
		var rec MatchRecord
		if err := rows.Scan(
			&rec.ID,
			&rec.ItemAID,
			&rec.ItemBID,
			&rec.UserAID,
			&rec.UserBID,
			&rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan match row: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate match rows: %w", err)
	}
	return out, nil
}

func (r *MatchRepo) DeleteByID(ctx context.Context, matchID int64, userID int64) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}
	if matchID <= 0 || userID <= 0 {
		return fmt.Errorf("invalid unmatch payload")
	}

	result, err := r.pool.Exec(ctx, `
DELETE FROM matches
WHERE id = $1 AND (user_a_id = $2 OR user_b_id = $2)
`, matchID, userID)
	if err != nil {
		return fmt.Errorf("delete match: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrMatchNotFound
	}
	return nil
}
