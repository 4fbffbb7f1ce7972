package dto

type OwnerResponse struct {
	UserID      int64  `json:"user_id"`
	DisplayName string `json:"display_name"`
	City        string `json:"city,omitempty"`
	TradeCount  int    `json:"trade_count"`
}

type CardResponse struct {
	Item      ItemResponse  `json:"item"`
	Owner     OwnerResponse `json:"owner"`
	PhotoURLs []string      `json:"photo_urls,omitempty"`
}

type FeedResponse struct {
	Cards []CardResponse `json:"cards"`
}
