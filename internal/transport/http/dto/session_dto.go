package dto

import "time"

type StartSessionRequest struct {
	AnchorItemID string `json:"anchor_item_id"`
}

type SetAnchorRequest struct {
	AnchorItemID string `json:"anchor_item_id"`
}

type SessionResponse struct {
	ID           string    `json:"id"`
	AnchorItemID string    `json:"anchor_item_id"`
	StartedAt    time.Time `json:"started_at"`
}
