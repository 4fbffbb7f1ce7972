package dto

import "time"

type CreateItemRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

type ItemResponse struct {
	ID          string    `json:"id"`
	OwnerID     int64     `json:"owner_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category,omitempty"`
	PhotoKeys   []string  `json:"photo_keys,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type ItemsResponse struct {
	Items []ItemResponse `json:"items"`
}

type UploadPhotoResponse struct {
	OK  bool   `json:"ok"`
	URL string `json:"url"`
}
