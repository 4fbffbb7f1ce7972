package feed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"swaply/internal/domain/model"
	pgrepo "swaply/internal/repo/postgres"
)

const (
	defaultPageSize = 20
	maxPageSize     = 50
	cardPhotoURLTTL = 5 * time.Minute
)

var ErrValidation = errors.New("validation error")

type Repository interface {
	ListCandidates(ctx context.Context, userID int64, limit int) ([]pgrepo.CandidateRecord, error)
}

type PhotoURLSigner interface {
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
}

// Card is one browsable unit: the item plus its owner's public profile and
// short-lived photo URLs.
type Card struct {
	Item      model.Item
	Owner     model.Profile
	PhotoURLs []string
}

type Config struct {
	PageSize int
}

type Service struct {
	repo      Repository
	photoSign PhotoURLSigner
	cfg       Config
}

func NewService(repo Repository, photoSign PhotoURLSigner, cfg Config) *Service {
	if cfg.PageSize <= 0 {
		cfg.PageSize = defaultPageSize
	}
	if cfg.PageSize > maxPageSize {
		cfg.PageSize = maxPageSize
	}

	return &Service{
		repo:      repo,
		photoSign: photoSign,
		cfg:       cfg,
	}
}

// Next returns the user's candidate queue: items they have not decided on
// yet. Reversing a swipe puts its item back into this queue.
func (s *Service) Next(ctx context.Context, userID int64, limit int) ([]Card, error) {
	if userID <= 0 {
		return nil, ErrValidation
	}
	if s.repo == nil {
		return nil, fmt.Errorf("feed repository is not configured")
	}
	if limit <= 0 || limit > s.cfg.PageSize {
		limit = s.cfg.PageSize
	}

	records, err := s.repo.ListCandidates(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}

	cards := make([]Card, 0, len(records))
	for _, rec := range records {
		cards = append(cards, s.buildCard(ctx, rec))
	}
	return cards, nil
}

func (s *Service) buildCard(ctx context.Context, rec pgrepo.CandidateRecord) Card {
	card := Card{
		Item: model.Item{
			ID:          rec.ItemID,
			OwnerID:     rec.OwnerID,
			Title:       rec.Title,
			Description: rec.Description,
			Category:    rec.Category,
			PhotoKeys:   rec.PhotoKeys,
			CreatedAt:   rec.ItemCreatedAt,
		},
		Owner: model.Profile{
			UserID:      rec.OwnerID,
			DisplayName: rec.OwnerDisplayName,
			City:        rec.OwnerCity,
			TradeCount:  rec.OwnerTradeCount,
		},
	}

	if s.photoSign == nil {
		return card
	}
	for _, key := range rec.PhotoKeys {
		url, err := s.photoSign.PresignGet(ctx, key, cardPhotoURLTTL)
		if err != nil {
			// A card without photo URLs is still servable.
			continue
		}
		card.PhotoURLs = append(card.PhotoURLs, url)
	}
	return card
}
