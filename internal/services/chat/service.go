package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	pgrepo "swaply/internal/repo/postgres"

	"swaply/internal/domain/model"
)

var (
	ErrValidation     = errors.New("validation error")
	ErrMatchNotFound  = errors.New("match not found")
	ErrForbidden      = errors.New("forbidden")
	ErrMessageTooLong = errors.New("message too long")
)

type MessageStore interface {
	Append(ctx context.Context, matchID, senderUserID int64, body string) (pgrepo.MessageRecord, error)
	ListByMatch(ctx context.Context, matchID int64, beforeID int64, limit int) ([]pgrepo.MessageRecord, error)
}

type MatchStore interface {
	GetByID(ctx context.Context, matchID int64) (pgrepo.MatchRecord, error)
}

type Config struct {
	MaxMessageLength int
	PageLimit        int
}

// Service is the conversation layer between matched traders. Chat only
// exists inside a match; every call re-checks membership.
type Service struct {
	messages MessageStore
	matches  MatchStore
	cfg      Config
}

func NewService(messages MessageStore, matches MatchStore, cfg Config) *Service {
	if cfg.MaxMessageLength <= 0 {
		cfg.MaxMessageLength = 2000
	}
	if cfg.PageLimit <= 0 {
		cfg.PageLimit = 50
	}

	return &Service{
		messages: messages,
		matches:  matches,
		cfg:      cfg,
	}
}

func (s *Service) Send(ctx context.Context, userID, matchID int64, body string) (model.Message, error) {
	body = strings.TrimSpace(body)
	if userID <= 0 || matchID <= 0 || body == "" {
		return model.Message{}, ErrValidation
	}
	if len([]rune(body)) > s.cfg.MaxMessageLength {
		return model.Message{}, ErrMessageTooLong
	}
	if s.messages == nil || s.matches == nil {
		return model.Message{}, fmt.Errorf("chat dependencies are not configured")
	}

	if err := s.checkMembership(ctx, userID, matchID); err != nil {
		return model.Message{}, err
	}

	rec, err := s.messages.Append(ctx, matchID, userID, body)
	if err != nil {
		return model.Message{}, fmt.Errorf("append message: %w", err)
	}
	return toModel(rec), nil
}

// History pages backwards from beforeID; zero means newest first.
func (s *Service) History(ctx context.Context, userID, matchID, beforeID int64, limit int) ([]model.Message, error) {
	if userID <= 0 || matchID <= 0 {
		return nil, ErrValidation
	}
	if limit <= 0 || limit > s.cfg.PageLimit {
		limit = s.cfg.PageLimit
	}

	if err := s.checkMembership(ctx, userID, matchID); err != nil {
		return nil, err
	}

	records, err := s.messages.ListByMatch(ctx, matchID, beforeID, limit)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}

	messages := make([]model.Message, 0, len(records))
	for _, rec := range records {
		messages = append(messages, toModel(rec))
	}
	return messages, nil
}

func (s *Service) checkMembership(ctx context.Context, userID, matchID int64) error {
	match, err := s.matches.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrMatchNotFound) {
			return ErrMatchNotFound
		}
		return fmt.Errorf("get match: %w", err)
	}
	if match.UserAID != userID && match.UserBID != userID {
		return ErrForbidden
	}
	return nil
}

func toModel(rec pgrepo.MessageRecord) model.Message {
	return model.Message{
		ID:           rec.ID,
		MatchID:      rec.MatchID,
		SenderUserID: rec.SenderUserID,
		Body:         rec.Body,
		CreatedAt:    rec.CreatedAt,
	}
}
