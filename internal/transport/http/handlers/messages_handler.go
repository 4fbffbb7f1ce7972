package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	authsvc "swaply/internal/services/auth"
	chatsvc "swaply/internal/services/chat"
	"swaply/internal/transport/http/dto"
	httperrors "swaply/internal/transport/http/errors"

	"swaply/internal/domain/model"
)

type MessagesHandler struct {
	chat *chatsvc.Service
}

func NewMessagesHandler(chat *chatsvc.Service) *MessagesHandler {
	return &MessagesHandler{chat: chat}
}

func (h *MessagesHandler) Send(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.chat == nil {
		writeInternal(w, "CHAT_SERVICE_UNAVAILABLE", "chat service is unavailable")
		return
	}

	matchID, ok := matchIDFromURL(r)
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "match id must be a positive integer")
		return
	}

	var req dto.SendMessageRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}

	msg, err := h.chat.Send(r.Context(), identity.UserID, matchID, req.Body)
	if err != nil {
		handleChatError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, messageResponse(msg))
}

func (h *MessagesHandler) History(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.chat == nil {
		writeInternal(w, "CHAT_SERVICE_UNAVAILABLE", "chat service is unavailable")
		return
	}

	matchID, ok := matchIDFromURL(r)
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "match id must be a positive integer")
		return
	}

	var beforeID int64
	if raw := strings.TrimSpace(r.URL.Query().Get("before_id")); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed <= 0 {
			writeBadRequest(w, "VALIDATION_ERROR", "before_id must be a positive integer")
			return
		}
		beforeID = parsed
	}

	var limit int
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeBadRequest(w, "VALIDATION_ERROR", "limit must be a non-negative integer")
			return
		}
		limit = parsed
	}

	messages, err := h.chat.History(r.Context(), identity.UserID, matchID, beforeID, limit)
	if err != nil {
		handleChatError(w, err)
		return
	}

	out := dto.MessagesResponse{Messages: make([]dto.MessageResponse, 0, len(messages))}
	for _, msg := range messages {
		out.Messages = append(out.Messages, messageResponse(msg))
	}
	httperrors.Write(w, http.StatusOK, out)
}

func matchIDFromURL(r *http.Request) (int64, bool) {
	matchID, err := strconv.ParseInt(chi.URLParam(r, "matchID"), 10, 64)
	if err != nil || matchID <= 0 {
		return 0, false
	}
	return matchID, true
}

func handleChatError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, chatsvc.ErrValidation):
		writeBadRequest(w, "VALIDATION_ERROR", "invalid message request")
	case errors.Is(err, chatsvc.ErrMessageTooLong):
		writeBadRequest(w, "MESSAGE_TOO_LONG", "message exceeds the length limit")
	case errors.Is(err, chatsvc.ErrMatchNotFound):
		writeNotFound(w, "MATCH_NOT_FOUND", "match not found")
	case errors.Is(err, chatsvc.ErrForbidden):
		writeForbidden(w, "FORBIDDEN", "not a participant of this match")
	default:
		writeInternal(w, "INTERNAL_ERROR", "failed to process message request")
	}
}

func messageResponse(msg model.Message) dto.MessageResponse {
	return dto.MessageResponse{
		ID:           msg.ID,
		MatchID:      msg.MatchID,
		SenderUserID: msg.SenderUserID,
		Body:         msg.Body,
		CreatedAt:    msg.CreatedAt,
	}
}
