package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type FeedRepo struct {
	pool *pgxpool.Pool
}

func NewFeedRepo(pool *pgxpool.Pool) *FeedRepo {
	return &FeedRepo{pool: pool}
}

// CandidateRecord joins an item with its owner's public profile, the unit the
// browsing queue serves.
type CandidateRecord struct {
	ItemID           uuid.UUID
	Title            string
	Description      string
	Category         string
	PhotoKeys        []string
	ItemCreatedAt    time.Time
	OwnerID          int64
	OwnerDisplayName string
	OwnerCity        string
	OwnerTradeCount  int
}

// ListCandidates returns items the user has not yet swiped on, excluding
// their own. An undone swipe deletes its row, so the item naturally
// reappears here.
func (r *FeedRepo) ListCandidates(ctx context.Context, userID int64, limit int) ([]CandidateRecord, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}
	if userID <= 0 {
		return nil, fmt.Errorf("invalid user id")
	}
	if limit <= 0 {
		limit = 20
	}

	rows, err := r.pool.Query(ctx, `
SELECT
	i.id,
	i.title,
	i.description,
	i.category,
	i.photo_keys,
	i.created_at,
	u.id,
	u.display_name,
	u.city,
	u.trade_count
FROM items i
JOIN users u ON u.id = i.owner_id
WHERE i.owner_id <> $1
  AND NOT EXISTS (
	SELECT 1 FROM swipes s
	WHERE s.actor_user_id = $1 AND s.target_item_id = i.id
  )
ORDER BY i.created_at DESC
LIMIT $2
`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list feed candidates: %w", err)
	}
	defer rows.Close()

	var out []CandidateRecord
	for rows.Next() {
		var rec CandidateRecord
		if err := rows.Scan(
			&rec.ItemID,
			&rec.Title,
			&rec.Description,
			&rec.Category,
			&rec.PhotoKeys,
			&rec.ItemCreatedAt,
			&rec.OwnerID,
			&rec.OwnerDisplayName,
			&rec.OwnerCity,
			&rec.OwnerTradeCount,
		); err != nil {
			return nil, fmt.Errorf("scan candidate row: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate candidate rows: %w", err)
	}
	return out, nil
}
