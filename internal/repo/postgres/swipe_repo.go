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

var ErrSwipeNotFound = errors.New("swipe not found")

type SwipeRepo struct {
	pool *pgxpool.Pool
}

func NewSwipeRepo(pool *pgxpool.Pool) *SwipeRepo {
	return &SwipeRepo{pool: pool}
}

type SwipeRecord struct {
	ID           int64
	SessionID    uuid.UUID
	ActorUserID  int64
	AnchorItemID uuid.UUID
	TargetItemID uuid.UUID
	Direction    string
	CreatedAt    time.Time
}

func (r *SwipeRepo) Create(ctx context.Context, tx pgx.Tx, rec SwipeRecord) (SwipeRecord, error) {
	if rec.ActorUserID <= 0 || rec.SessionID == uuid.Nil || rec.TargetItemID == uuid.Nil {
		return SwipeRecord{}, fmt.Errorf("invalid swipe payload")
	}
	if tx == nil {
		return SwipeRecord{}, fmt.Errorf("transaction is required")
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	var out SwipeRecord
	err := tx.QueryRow(ctx, `
INSERT INTO swipes (
	session_id,
	actor_user_id,
	anchor_item_id,
	target_item_id,
	direction,
	created_at
) VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, session_id, actor_user_id, anchor_item_id, target_item_id, direction, created_at
`, rec.SessionID, rec.ActorUserID, rec.AnchorItemID, rec.TargetItemID, rec.Direction, rec.CreatedAt.UTC()).Scan(
		&out.ID,
		&out.SessionID,
		&out.ActorUserID,
		&out.AnchorItemID,
		&out.TargetItemID,
		&out.Direction,
		&out.CreatedAt,
	)
	if err != nil {
		return SwipeRecord{}, fmt.Errorf("create swipe: %w", err)
	}

	return out, nil
}

// GetBySessionItem locates the swipe a reversal call names: the newest swipe
// of this session on this item.
func (r *SwipeRepo) GetBySessionItem(ctx context.Context, tx pgx.Tx, sessionID uuid.UUID, actorUserID int64, targetItemID uuid.UUID) (SwipeRecord, error) {
	if sessionID == uuid.Nil || actorUserID <= 0 || targetItemID == uuid.Nil {
		return SwipeRecord{}, fmt.Errorf("invalid swipe lookup payload")
	}
	if tx == nil {
		return SwipeRecord{}, fmt.Errorf("transaction is required")
	}

	var rec SwipeRecord
	err := tx.QueryRow(ctx, `
SELECT id, session_id, actor_user_id, anchor_item_id, target_item_id, direction, created_at
FROM swipes
WHERE session_id = $1 AND actor_user_id = $2 AND target_item_id = $3
ORDER BY created_at DESC, id DESC
LIMIT 1
`, sessionID, actorUserID, targetItemID).Scan(
		&rec.ID,
		&rec.SessionID,
		&rec.ActorUserID,
		&rec.AnchorItemID,
		&rec.TargetItemID,
		&rec.Direction,
		&rec.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return SwipeRecord{}, ErrSwipeNotFound
		}
		return SwipeRecord{}, fmt.Errorf("get swipe by session item: %w", err)
	}

	return rec, nil
}

func (r *SwipeRepo) DeleteByID(ctx context.Context, tx pgx.Tx, swipeID int64) error {
	if swipeID <= 0 {
		return fmt.Errorf("invalid swipe id")
	}
	if tx == nil {
		return fmt.Errorf("transaction is required")
	}

	result, err := tx.Exec(ctx, `
DELETE FROM swipes
WHERE id = $1
`, swipeID)
	if err != nil {
		return fmt.Errorf("delete swipe: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrSwipeNotFound
	}
	return nil
}

// HasRightSwipeOnItem reports whether actorUserID has an interest swipe
// targeting itemID, the probe behind mutual-match creation.
func (r *SwipeRepo) HasRightSwipeOnItem(ctx context.Context, tx pgx.Tx, actorUserID int64, itemID uuid.UUID) (bool, error) {
	if actorUserID <= 0 || itemID == uuid.Nil {
		return false, fmt.Errorf("invalid mutual probe payload")
	}
	if tx == nil {
		return false, fmt.Errorf("transaction is required")
	}

	var exists bool
	err := tx.QueryRow(ctx, `
SELECT EXISTS (
	SELECT 1
	FROM swipes
	WHERE actor_user_id = $1 AND target_item_id = $2 AND direction = 'RIGHT'
)
`, actorUserID, itemID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("probe mutual interest: %w", err)
	}
	return exists, nil
}

// DeleteOlderThan purges swipes past the retention horizon. Runs against the
// pool directly; the cleanup job owns no transaction.
func (r *SwipeRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	if r.pool == nil {
		return 0, fmt.Errorf("postgres pool is nil")
	}

	result, err := r.pool.Exec(ctx, `
DELETE FROM swipes
WHERE created_at < $1
`, cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("delete expired swipes: %w", err)
	}
	return result.RowsAffected(), nil
}
