package matches

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	pgrepo "swaply/internal/repo/postgres"
)

var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("match not found")
	ErrForbidden  = errors.New("forbidden")
)

type MatchStore interface {
	GetByID(ctx context.Context, matchID int64) (pgrepo.MatchRecord, error)
	ListByUser(ctx context.Context, userID int64, limit int) ([]pgrepo.MatchRecord, error)
	DeleteByID(ctx context.Context, matchID int64, userID int64) error
}

type MessageStore interface {
	DeleteByMatch(ctx context.Context, matchID int64) (int64, error)
}

type Service struct {
	matchStore   MatchStore
	messageStore MessageStore
}

type Match struct {
	ID          int64
	MyItemID    uuid.UUID
	TheirItemID uuid.UUID
	TheirUserID int64
	CreatedAt   time.Time
}

func NewService(matchStore MatchStore, messageStore MessageStore) *Service {
	return &Service{
		matchStore:   matchStore,
		messageStore: messageStore,
	}
}

// List returns the user's matches with the sides oriented from their point of
// view.
func (s *Service) List(ctx context.Context, userID int64, limit int) ([]Match, error) {
	if userID <= 0 {
		return nil, ErrValidation
	}
	if s.matchStore == nil {
		return nil, fmt.Errorf("match store is nil")
	}

	records, err := s.matchStore.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}

	matches := make([]Match, 0, len(records))
	for _, rec := range records {
		matches = append(matches, orient(rec, userID))
	}
	return matches, nil
}

// Get returns one match if the user is a participant.
func (s *Service) Get(ctx context.Context, userID, matchID int64) (Match, error) {
	if userID <= 0 || matchID <= 0 {
		return Match{}, ErrValidation
	}

	rec, err := s.matchStore.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrMatchNotFound) {
			return Match{}, ErrNotFound
		}
		return Match{}, fmt.Errorf("get match: %w", err)
	}
	if rec.UserAID != userID && rec.UserBID != userID {
		return Match{}, ErrForbidden
	}
	return orient(rec, userID), nil
}

// Unmatch dissolves a match and its conversation.
func (s *Service) Unmatch(ctx context.Context, userID, matchID int64) error {
	if userID <= 0 || matchID <= 0 {
		return ErrValidation
	}
	if s.matchStore == nil || s.messageStore == nil {
		return fmt.Errorf("unmatch dependencies are not configured")
	}

	if err := s.matchStore.DeleteByID(ctx, matchID, userID); err != nil {
		if errors.Is(err, pgrepo.ErrMatchNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete match: %w", err)
	}

	if _, err := s.messageStore.DeleteByMatch(ctx, matchID); err != nil {
		return fmt.Errorf("delete conversation: %w", err)
	}
	return nil
}

func orient(rec pgrepo.MatchRecord, userID int64) Match {
	m := Match{
		ID:        rec.ID,
		CreatedAt: rec.CreatedAt,
	}
	if rec.UserAID == userID {
		m.MyItemID = rec.ItemAID
		m.TheirItemID = rec.ItemBID
		m.TheirUserID = rec.UserBID
	} else {
		m.MyItemID = rec.ItemBID
		m.TheirItemID = rec.ItemAID
		m.TheirUserID = rec.UserAID
	}
	return m
}
