package handlers

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"swaply/internal/domain/enums"
	"swaply/internal/gesture"
	"swaply/internal/ledger"
	authsvc "swaply/internal/services/auth"
	swipesvc "swaply/internal/services/swipes"
	tradesvc "swaply/internal/services/trade"
	"swaply/internal/transport/http/dto"
	httperrors "swaply/internal/transport/http/errors"
)

type SwipeHandler struct {
	swipes *swipesvc.Service
	trade  *tradesvc.Service
	log    *zap.Logger
}

func NewSwipeHandler(swipes *swipesvc.Service, trade *tradesvc.Service, log *zap.Logger) *SwipeHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &SwipeHandler{swipes: swipes, trade: trade, log: log}
}

func (h *SwipeHandler) Swipe(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.swipes == nil || h.trade == nil {
		writeInternal(w, "SWIPE_SERVICE_UNAVAILABLE", "swipe service is unavailable")
		return
	}

	var req dto.SwipeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}

	sessionID, err := uuid.Parse(req.SessionID)
	if err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "session_id must be a uuid")
		return
	}
	targetItemID, err := uuid.Parse(req.TargetItemID)
	if err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "target_item_id must be a uuid")
		return
	}
	direction, ok := enums.ParseSwipeDirection(req.Direction)
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "direction must be LEFT or RIGHT")
		return
	}

	result, err := h.swipes.Swipe(r.Context(), identity.UserID, sessionID, targetItemID, direction, traceFromDTO(req.Trace))
	if err != nil {
		h.writeSwipeError(w, err)
		return
	}

	rec := ledger.Record{
		Item:      result.Item,
		Owner:     result.Owner,
		Direction: result.Direction,
		SwipeID:   result.SwipeID,
		SessionID: sessionID,
		UserID:    identity.UserID,
		At:        result.At,
	}
	if err := h.trade.RecordCommit(r.Context(), identity.UserID, rec); err != nil {
		// The swipe is already persisted; losing the undo entry is not fatal.
		h.log.Warn("record undo entry", zap.Error(err), zap.Int64("swipe_id", result.SwipeID))
	}

	depth, err := h.trade.UndoDepth(r.Context(), identity.UserID, sessionID)
	if err != nil {
		depth = 0
	}

	httperrors.Write(w, http.StatusOK, dto.SwipeResponse{
		OK:           true,
		SwipeID:      result.SwipeID,
		MatchCreated: result.MatchCreated,
		MatchID:      result.MatchID,
		UndoDepth:    depth,
	})
}

func (h *SwipeHandler) Undo(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.trade == nil {
		writeInternal(w, "TRADE_SERVICE_UNAVAILABLE", "trade service is unavailable")
		return
	}

	var req dto.UndoRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}
	sessionID, err := uuid.Parse(req.SessionID)
	if err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "session_id must be a uuid")
		return
	}

	rec, err := h.trade.Undo(r.Context(), identity.UserID, sessionID)
	if err != nil {
		h.writeUndoError(w, err)
		return
	}

	depth, err := h.trade.UndoDepth(r.Context(), identity.UserID, sessionID)
	if err != nil {
		depth = 0
	}

	httperrors.Write(w, http.StatusOK, dto.UndoResponse{
		OK:        true,
		Item:      itemResponse(rec.Item),
		Direction: string(rec.Direction),
		UndoDepth: depth,
	})
}

func (h *SwipeHandler) writeSwipeError(w http.ResponseWriter, err error) {
	var tooFast swipesvc.TooFastError
	switch {
	case errors.As(err, &tooFast):
		httperrors.Write(w, http.StatusTooManyRequests, httperrors.RateLimitError{
			Code:          "TOO_FAST",
			Message:       "too many swipes, slow down",
			RetryAfterSec: tooFast.RetryAfterSec,
		})
	case errors.Is(err, swipesvc.ErrValidation):
		writeBadRequest(w, "VALIDATION_ERROR", "invalid swipe request")
	case errors.Is(err, swipesvc.ErrSelfSwipe):
		writeBadRequest(w, "SELF_SWIPE", "cannot swipe on your own item")
	case errors.Is(err, swipesvc.ErrGestureRejected):
		httperrors.Write(w, http.StatusUnprocessableEntity, httperrors.APIError{
			Code:    "GESTURE_REJECTED",
			Message: "input trace does not produce the claimed swipe",
		})
	case errors.Is(err, swipesvc.ErrSessionNotFound):
		writeNotFound(w, "SESSION_NOT_FOUND", "trade session not found")
	case errors.Is(err, swipesvc.ErrItemNotFound):
		writeNotFound(w, "ITEM_NOT_FOUND", "target item not found")
	case errors.Is(err, swipesvc.ErrForbidden):
		writeForbidden(w, "FORBIDDEN", "session belongs to another user")
	default:
		h.log.Error("process swipe", zap.Error(err))
		writeInternal(w, "INTERNAL_ERROR", "failed to process swipe")
	}
}

func (h *SwipeHandler) writeUndoError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, tradesvc.ErrValidation):
		writeBadRequest(w, "VALIDATION_ERROR", "invalid undo request")
	case errors.Is(err, tradesvc.ErrNothingToUndo):
		httperrors.Write(w, http.StatusConflict, httperrors.APIError{
			Code:    "NOTHING_TO_UNDO",
			Message: "no swipe to reverse",
		})
	case errors.Is(err, tradesvc.ErrSessionNotFound):
		writeNotFound(w, "SESSION_NOT_FOUND", "trade session not found")
	case errors.Is(err, tradesvc.ErrForbidden):
		writeForbidden(w, "FORBIDDEN", "session belongs to another user")
	default:
		h.log.Error("process undo", zap.Error(err))
		writeInternal(w, "INTERNAL_ERROR", "failed to process undo")
	}
}

func traceFromDTO(events []dto.TraceEvent) []gesture.TraceEvent {
	out := make([]gesture.TraceEvent, 0, len(events))
	for _, ev := range events {
		out = append(out, gesture.TraceEvent{
			Kind:     gesture.TraceEventKind(ev.Kind),
			X:        ev.X,
			Y:        ev.Y,
			OffsetMS: ev.OffsetMS,
			Key:      gesture.Key(ev.Key),
		})
	}
	return out
}
