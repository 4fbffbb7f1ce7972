package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type MessageRepo struct {
	pool *pgxpool.Pool
}

func NewMessageRepo(pool *pgxpool.Pool) *MessageRepo {
	return &MessageRepo{pool: pool}
}

type MessageRecord struct {
	ID           int64
	MatchID      int64
	SenderUserID int64
	Body         string
	CreatedAt    time.Time
}

func (r *MessageRepo) Append(ctx context.Context, matchID, senderUserID int64, body string) (MessageRecord, error) {
	if r.pool == nil {
		return MessageRecord{}, fmt.Errorf("postgres pool is nil")
	}
	if matchID <= 0 || senderUserID <= 0 || strings.TrimSpace(body) == "" {
		return MessageRecord{}, fmt.Errorf("invalid message payload")
	}

	var rec MessageRecord
	err := r.pool.QueryRow(ctx, `
INSERT INTO messages (match_id, sender_user_id, body, created_at)
VALUES ($1, $2, $3, NOW())
RETURNING id, match_id, sender_user_id, body, created_at
`, matchID, senderUserID, body).Scan(
		&rec.ID,
		&rec.MatchID,
		&rec.SenderUserID,
		&rec.Body,
		&rec.CreatedAt,
	)
	if err != nil {
		return MessageRecord{}, fmt.Errorf("append message: %w", err)
	}
	return rec, nil
}

func (r *MessageRepo) ListByMatch(ctx context.Context, matchID int64, beforeID int64, limit int) ([]MessageRecord, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}
	if matchID <= 0 {
		return nil, fmt.Errorf("invalid match id")
	}
	if limit <= 0 {
		limit = 50
	}
	if beforeID <= 0 {
		beforeID = int64(1) << 62
	}

	rows, err := r.pool.Query(ctx, `
SELECT id, match_id, sender_user_id, body, created_at
FROM messages
WHERE match_id = $1 AND id < $2
ORDER BY id DESC
LIMIT $3
`, matchID, beforeID, limit)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	var out []MessageRecord
	for rows.Next() {
		var rec MessageRecord
		if err := rows.Scan(
			&rec.ID,
			&rec.MatchID,
			&rec.SenderUserID,
			&rec.Body,
			&rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan message row: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate message rows: %w", err)
	}
	return out, nil
}

// DeleteByMatch clears chat history when a match is dissolved.
func (r *MessageRepo) DeleteByMatch(ctx context.Context, matchID int64) (int64, error) {
	if r.pool == nil {
		return 0, fmt.Errorf("postgres pool is nil")
	}
	if matchID <= 0 {
		return 0, fmt.Errorf("invalid match id")
	}

	result, err := r.pool.Exec(ctx, `
DELETE FROM messages
WHERE match_id = $1
`, matchID)
	if err != nil {
		return 0, fmt.Errorf("delete messages by match: %w", err)
	}
	return result.RowsAffected(), nil
}
