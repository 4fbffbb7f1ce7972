package model

import (
	"time"

	"github.com/google/uuid"
)

type Item struct {
	ID          uuid.UUID `json:"id"`
	OwnerID     int64     `json:"owner_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	PhotoKeys   []string  `json:"photo_keys,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
