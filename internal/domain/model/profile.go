package model

// Profile is the public face of an item owner as shown on a trade card.
type Profile struct {
	UserID      int64  `json:"user_id"`
	DisplayName string `json:"display_name"`
	City        string `json:"city"`
	AvatarKey   string `json:"avatar_key,omitempty"`
	TradeCount  int    `json:"trade_count"`
}
