package items

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"swaply/internal/domain/model"
	pgrepo "swaply/internal/repo/postgres"
)

var (
	ErrValidation        = errors.New("validation error")
	ErrNotFound          = errors.New("item not found")
	ErrForbidden         = errors.New("forbidden")
	ErrPhotoLimitReached = errors.New("photo limit reached")
)

const (
	signedURLTTL    = 5 * time.Minute
	maxTitleLength  = 120
	maxUploadedSize = 10 << 20
)

type Store interface {
	Create(ctx context.Context, rec pgrepo.ItemRecord) (pgrepo.ItemRecord, error)
	GetByID(ctx context.Context, itemID uuid.UUID) (pgrepo.ItemRecord, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]pgrepo.ItemRecord, error)
	AppendPhotoKey(ctx context.Context, itemID uuid.UUID, ownerID int64, key string, maxPhotos int) error
}

type ObjectStorage interface {
	EnsureBucket(ctx context.Context) error
	PutPhoto(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
	Delete(ctx context.Context, key string) error
}

type Config struct {
	MaxPhotosPerItem int
}

type Service struct {
	store   Store
	storage ObjectStorage
	cfg     Config
	now     func() time.Time
}

func NewService(store Store, storage ObjectStorage, cfg Config) *Service {
	if cfg.MaxPhotosPerItem <= 0 {
		cfg.MaxPhotosPerItem = 6
	}

	return &Service{
		store:   store,
		storage: storage,
		cfg:     cfg,
		now:     time.Now,
	}
}

func (s *Service) Create(ctx context.Context, ownerID int64, title, description, category string) (model.Item, error) {
	title = strings.TrimSpace(title)
	if ownerID <= 0 || title == "" || len(title) > maxTitleLength {
		return model.Item{}, ErrValidation
	}
	if s.store == nil {
		return model.Item{}, fmt.Errorf("item store is not configured")
	}

	rec, err := s.store.Create(ctx, pgrepo.ItemRecord{
		OwnerID:     ownerID,
		Title:       title,
		Description: strings.TrimSpace(description),
		Category:    strings.ToLower(strings.TrimSpace(category)),
		CreatedAt:   s.now().UTC(),
	})
	if err != nil {
		return model.Item{}, fmt.Errorf("create item: %w", err)
	}
	return toModel(rec), nil
}

func (s *Service) Get(ctx context.Context, itemID uuid.UUID) (model.Item, error) {
	if itemID == uuid.Nil {
		return model.Item{}, ErrValidation
	}
	rec, err := s.store.GetByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrItemNotFound) {
			return model.Item{}, ErrNotFound
		}
		return model.Item{}, fmt.Errorf("get item: %w", err)
	}
	return toModel(rec), nil
}

func (s *Service) ListMine(ctx context.Context, ownerID int64) ([]model.Item, error) {
	if ownerID <= 0 {
		return nil, ErrValidation
	}
	records, err := s.store.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}

	items := make([]model.Item, 0, len(records))
	for _, rec := range records {
		items = append(items, toModel(rec))
	}
	return items, nil
}

// UploadPhoto stores one photo for an item the user owns and returns a
// short-lived URL for it. The database row is the source of truth: a failed
// append removes the uploaded object again.
func (s *Service) UploadPhoto(ctx context.Context, ownerID int64, itemID uuid.UUID, fileName, contentType string, body io.Reader, size int64) (string, error) {
	if ownerID <= 0 || itemID == uuid.Nil || body == nil || size <= 0 || size > maxUploadedSize {
		return "", ErrValidation
	}
	if s.store == nil || s.storage == nil {
		return "", fmt.Errorf("item dependencies are not configured")
	}

	item, err := s.store.GetByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrItemNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("get item: %w", err)
	}
	if item.OwnerID != ownerID {
		return "", ErrForbidden
	}
	if len(item.PhotoKeys) >= s.cfg.MaxPhotosPerItem {
		return "", ErrPhotoLimitReached
	}

	if err := s.storage.EnsureBucket(ctx); err != nil {
		return "", fmt.Errorf("ensure bucket: %w", err)
	}

	objectKey, err := buildPhotoObjectKey(itemID, fileName)
	if err != nil {
		return "", fmt.Errorf("build object key: %w", err)
	}

	if strings.TrimSpace(contentType) == "" {
		contentType = "application/octet-stream"
	}
	if err := s.storage.PutPhoto(ctx, objectKey, body, size, contentType); err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}

	if err := s.store.AppendPhotoKey(ctx, itemID, ownerID, objectKey, s.cfg.MaxPhotosPerItem); err != nil {
		_ = s.storage.Delete(ctx, objectKey)
		if errors.Is(err, pgrepo.ErrItemNotFound) {
			return "", ErrPhotoLimitReached
		}
		return "", fmt.Errorf("append photo key: %w", err)
	}

	url, err := s.storage.PresignGet(ctx, objectKey, signedURLTTL)
	if err != nil {
		return "", fmt.Errorf("presign photo url: %w", err)
	}
	return url, nil
}

func toModel(rec pgrepo.ItemRecord) model.Item {
	return model.Item{
		ID:          rec.ID,
		OwnerID:     rec.OwnerID,
		Title:       rec.Title,
		Description: rec.Description,
		Category:    rec.Category,
		PhotoKeys:   rec.PhotoKeys,
		CreatedAt:   rec.CreatedAt,
	}
}

func buildPhotoObjectKey(itemID uuid.UUID, fileName string) (string, error) {
	rnd := make([]byte, 8)
	if _, err := rand.Read(rnd); err != nil {
		return "", err
	}

	ext := strings.ToLower(path.Ext(strings.TrimSpace(fileName)))
	if ext == "" {
		ext = ".bin"
	}

	stamp := time.Now().UTC().Format("20060102T150405")
	return fmt.Sprintf("items/%s/%s_%s%s", itemID, stamp, hex.EncodeToString(rnd), ext), nil
}
