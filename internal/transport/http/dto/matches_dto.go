package dto

import "time"

type MatchResponse struct {
	ID          int64     `json:"id"`
	MyItemID    string    `json:"my_item_id"`
	TheirItemID string    `json:"their_item_id"`
	TheirUserID int64     `json:"their_user_id"`
	CreatedAt   time.Time `json:"created_at"`
}

type MatchesResponse struct {
	Matches []MatchResponse `json:"matches"`
}

type UnmatchResponse struct {
	OK bool `json:"ok"`
}
