package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	authsvc "swaply/internal/services/auth"
	tradesvc "swaply/internal/services/trade"
	"swaply/internal/transport/http/dto"
	httperrors "swaply/internal/transport/http/errors"

	"swaply/internal/domain/model"
)

type SessionHandler struct {
	trade *tradesvc.Service
}

func NewSessionHandler(trade *tradesvc.Service) *SessionHandler {
	return &SessionHandler{trade: trade}
}

func (h *SessionHandler) Start(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.trade == nil {
		writeInternal(w, "TRADE_SERVICE_UNAVAILABLE", "trade service is unavailable")
		return
	}

	var req dto.StartSessionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}
	anchorID, err := uuid.Parse(req.AnchorItemID)
	if err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "anchor_item_id must be a uuid")
		return
	}

	session, err := h.trade.Start(r.Context(), identity.UserID, anchorID)
	if err != nil {
		handleTradeError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, sessionResponse(session))
}

func (h *SessionHandler) SetAnchor(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.trade == nil {
		writeInternal(w, "TRADE_SERVICE_UNAVAILABLE", "trade service is unavailable")
		return
	}

	sessionID, err := uuid.Parse(chi.URLParam(r, "sessionID"))
	if err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "session id must be a uuid")
		return
	}

	var req dto.SetAnchorRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}
	anchorID, err := uuid.Parse(req.AnchorItemID)
	if err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "anchor_item_id must be a uuid")
		return
	}

	session, err := h.trade.SetAnchor(r.Context(), identity.UserID, sessionID, anchorID)
	if err != nil {
		handleTradeError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, sessionResponse(session))
}

func (h *SessionHandler) End(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.trade == nil {
		writeInternal(w, "TRADE_SERVICE_UNAVAILABLE", "trade service is unavailable")
		return
	}

	sessionID, err := uuid.Parse(chi.URLParam(r, "sessionID"))
	if err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "session id must be a uuid")
		return
	}

	if err := h.trade.End(r.Context(), identity.UserID, sessionID); err != nil {
		handleTradeError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, struct {
		OK bool `json:"ok"`
	}{OK: true})
}

func handleTradeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, tradesvc.ErrValidation):
		writeBadRequest(w, "VALIDATION_ERROR", "invalid session request")
	case errors.Is(err, tradesvc.ErrItemNotFound):
		writeNotFound(w, "ITEM_NOT_FOUND", "anchor item not found")
	case errors.Is(err, tradesvc.ErrSessionNotFound):
		writeNotFound(w, "SESSION_NOT_FOUND", "trade session not found")
	case errors.Is(err, tradesvc.ErrForbidden):
		writeForbidden(w, "FORBIDDEN", "not your session or item")
	default:
		writeInternal(w, "INTERNAL_ERROR", "failed to process session request")
	}
}

func sessionResponse(session model.TradeSession) dto.SessionResponse {
	return dto.SessionResponse{
		ID:           session.ID.String(),
		AnchorItemID: session.AnchorItemID.String(),
		StartedAt:    session.StartedAt,
	}
}
