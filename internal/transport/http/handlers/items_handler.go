package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"swaply/internal/domain/model"
	authsvc "swaply/internal/services/auth"
	itemsvc "swaply/internal/services/items"
	"swaply/internal/transport/http/dto"
	httperrors "swaply/internal/transport/http/errors"
)

const maxPhotoUploadBytes = 10 << 20

type ItemsHandler struct {
	items *itemsvc.Service
}

func NewItemsHandler(items *itemsvc.Service) *ItemsHandler {
	return &ItemsHandler{items: items}
}

func (h *ItemsHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.items == nil {
		writeInternal(w, "ITEMS_SERVICE_UNAVAILABLE", "items service is unavailable")
		return
	}

	var req dto.CreateItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}

	item, err := h.items.Create(r.Context(), identity.UserID, req.Title, req.Description, req.Category)
	if err != nil {
		handleItemsError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, itemResponse(item))
}

func (h *ItemsHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.items == nil {
		writeInternal(w, "ITEMS_SERVICE_UNAVAILABLE", "items service is unavailable")
		return
	}

	items, err := h.items.ListMine(r.Context(), identity.UserID)
	if err != nil {
		handleItemsError(w, err)
		return
	}

	out := dto.ItemsResponse{Items: make([]dto.ItemResponse, 0, len(items))}
	for _, item := range items {
		out.Items = append(out.Items, itemResponse(item))
	}
	httperrors.Write(w, http.StatusOK, out)
}

// UploadPhoto accepts one multipart file under the "photo" field.
func (h *ItemsHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.items == nil {
		writeInternal(w, "ITEMS_SERVICE_UNAVAILABLE", "items service is unavailable")
		return
	}

	itemID, err := uuid.Parse(chi.URLParam(r, "itemID"))
	if err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "item id must be a uuid")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxPhotoUploadBytes)
	file, header, err := r.FormFile("photo")
	if err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "photo file is required")
		return
	}
	defer func() { _ = file.Close() }()

	url, err := h.items.UploadPhoto(
		r.Context(),
		identity.UserID,
		itemID,
		header.Filename,
		header.Header.Get("Content-Type"),
		file,
		header.Size,
	)
	if err != nil {
		handleItemsError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.UploadPhotoResponse{OK: true, URL: url})
}

func handleItemsError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, itemsvc.ErrValidation):
		writeBadRequest(w, "VALIDATION_ERROR", "invalid item request")
	case errors.Is(err, itemsvc.ErrNotFound):
		writeNotFound(w, "ITEM_NOT_FOUND", "item not found")
	case errors.Is(err, itemsvc.ErrForbidden):
		writeForbidden(w, "FORBIDDEN", "item belongs to another user")
	case errors.Is(err, itemsvc.ErrPhotoLimitReached):
		httperrors.Write(w, http.StatusConflict, httperrors.APIError{
			Code:    "PHOTO_LIMIT_REACHED",
			Message: "item photo limit reached",
		})
	default:
		writeInternal(w, "INTERNAL_ERROR", "failed to process item request")
	}
}

func itemResponse(item model.Item) dto.ItemResponse {
	return dto.ItemResponse{
		ID:          item.ID.String(),
		OwnerID:     item.OwnerID,
		Title:       item.Title,
		Description: item.Description,
		Category:    item.Category,
		PhotoKeys:   item.PhotoKeys,
		CreatedAt:   item.CreatedAt,
	}
}
