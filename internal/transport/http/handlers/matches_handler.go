package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	authsvc "swaply/internal/services/auth"
	matchsvc "swaply/internal/services/matches"
	"swaply/internal/transport/http/dto"
	httperrors "swaply/internal/transport/http/errors"
)

type MatchesHandler struct {
	matches *matchsvc.Service
}

func NewMatchesHandler(matches *matchsvc.Service) *MatchesHandler {
	return &MatchesHandler{matches: matches}
}

func (h *MatchesHandler) List(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.matches == nil {
		writeInternal(w, "MATCHES_SERVICE_UNAVAILABLE", "matches service is unavailable")
		return
	}

	list, err := h.matches.List(r.Context(), identity.UserID, 0)
	if err != nil {
		handleMatchesError(w, err)
		return
	}

	out := dto.MatchesResponse{Matches: make([]dto.MatchResponse, 0, len(list))}
	for _, m := range list {
		out.Matches = append(out.Matches, dto.MatchResponse{
			ID:          m.ID,
			MyItemID:    m.MyItemID.String(),
			TheirItemID: m.TheirItemID.String(),
			TheirUserID: m.TheirUserID,
			CreatedAt:   m.CreatedAt,
		})
	}
	httperrors.Write(w, http.StatusOK, out)
}

func (h *MatchesHandler) Unmatch(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.matches == nil {
		writeInternal(w, "MATCHES_SERVICE_UNAVAILABLE", "matches service is unavailable")
		return
	}

	matchID, err := strconv.ParseInt(chi.URLParam(r, "matchID"), 10, 64)
	if err != nil || matchID <= 0 {
		writeBadRequest(w, "VALIDATION_ERROR", "match id must be a positive integer")
		return
	}

	if err := h.matches.Unmatch(r.Context(), identity.UserID, matchID); err != nil {
		handleMatchesError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.UnmatchResponse{OK: true})
}

func handleMatchesError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, matchsvc.ErrValidation):
		writeBadRequest(w, "VALIDATION_ERROR", "invalid match request")
	case errors.Is(err, matchsvc.ErrNotFound):
		writeNotFound(w, "MATCH_NOT_FOUND", "match not found")
	case errors.Is(err, matchsvc.ErrForbidden):
		writeForbidden(w, "FORBIDDEN", "not a participant of this match")
	default:
		writeInternal(w, "INTERNAL_ERROR", "failed to process match request")
	}
}
