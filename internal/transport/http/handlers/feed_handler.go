package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	authsvc "swaply/internal/services/auth"
	feedsvc "swaply/internal/services/feed"
	"swaply/internal/transport/http/dto"
	httperrors "swaply/internal/transport/http/errors"
)

type FeedHandler struct {
	feed *feedsvc.Service
}

func NewFeedHandler(feed *feedsvc.Service) *FeedHandler {
	return &FeedHandler{feed: feed}
}

func (h *FeedHandler) Next(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.feed == nil {
		writeInternal(w, "FEED_SERVICE_UNAVAILABLE", "feed service is unavailable")
		return
	}

	limit := 0
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeBadRequest(w, "VALIDATION_ERROR", "limit must be a non-negative integer")
			return
		}
		limit = parsed
	}

	cards, err := h.feed.Next(r.Context(), identity.UserID, limit)
	if err != nil {
		if errors.Is(err, feedsvc.ErrValidation) {
			writeBadRequest(w, "VALIDATION_ERROR", "invalid feed request")
			return
		}
		writeInternal(w, "INTERNAL_ERROR", "failed to load feed")
		return
	}

	out := dto.FeedResponse{Cards: make([]dto.CardResponse, 0, len(cards))}
	for _, card := range cards {
		out.Cards = append(out.Cards, dto.CardResponse{
			Item: itemResponse(card.Item),
			Owner: dto.OwnerResponse{
				UserID:      card.Owner.UserID,
				DisplayName: card.Owner.DisplayName,
				City:        card.Owner.City,
				TradeCount:  card.Owner.TradeCount,
			},
			PhotoURLs: card.PhotoURLs,
		})
	}
	httperrors.Write(w, http.StatusOK, out)
}
