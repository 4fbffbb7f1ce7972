package model

import (
	"time"

	"github.com/google/uuid"
)

// TradeSession is one user's active browsing context: the anchor item they
// offer and the moment the session started. Stored in redis with a TTL.
type TradeSession struct {
	ID           uuid.UUID `json:"id"`
	UserID       int64     `json:"user_id"`
	AnchorItemID uuid.UUID `json:"anchor_item_id"`
	StartedAt    time.Time `json:"started_at"`
}
