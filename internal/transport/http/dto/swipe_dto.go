package dto

// TraceEvent mirrors one recorded input event of the client-side gesture.
type TraceEvent struct {
	Kind     string  `json:"kind"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	OffsetMS int64   `json:"offset_ms"`
	Key      string  `json:"key,omitempty"`
}

type SwipeRequest struct {
	SessionID    string       `json:"session_id"`
	TargetItemID string       `json:"target_item_id"`
	Direction    string       `json:"direction"`
	Trace        []TraceEvent `json:"trace"`
}

type SwipeResponse struct {
	OK           bool  `json:"ok"`
	SwipeID      int64 `json:"swipe_id"`
	MatchCreated bool  `json:"match_created"`
	MatchID      int64 `json:"match_id,omitempty"`
	UndoDepth    int   `json:"undo_depth"`
}

type UndoRequest struct {
	SessionID string `json:"session_id"`
}

type UndoResponse struct {
	OK        bool         `json:"ok"`
	Item      ItemResponse `json:"item"`
	Direction string       `json:"direction"`
	UndoDepth int          `json:"undo_depth"`
}
