package trade

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	pgrepo "swaply/internal/repo/postgres"
	redrepo "swaply/internal/repo/redis"

	"swaply/internal/domain/model"
	"swaply/internal/ledger"
)

var (
	ErrValidation      = errors.New("validation error")
	ErrForbidden       = errors.New("forbidden")
	ErrSessionNotFound = errors.New("trade session not found")
	ErrItemNotFound    = errors.New("item not found")
	ErrNothingToUndo   = errors.New("nothing to undo")
)

type SessionStore interface {
	Save(ctx context.Context, session model.TradeSession, ttl time.Duration) error
	Get(ctx context.Context, sessionID uuid.UUID) (model.TradeSession, error)
	Delete(ctx context.Context, sessionID uuid.UUID) error
}

type ItemStore interface {
	GetByID(ctx context.Context, itemID uuid.UUID) (pgrepo.ItemRecord, error)
}

type Config struct {
	UndoCapacity int
	SessionTTL   time.Duration
}

// Service owns trade sessions and their undo ledgers. Sessions live in redis
// with a TTL; the ledgers are in-process state keyed by session id, created on
// session start and dropped on end.
type Service struct {
	sessions SessionStore
	items    ItemStore
	reverser ledger.Reverser
	cfg      Config
	now      func() time.Time

	mu      sync.Mutex
	ledgers map[uuid.UUID]*ledger.Ledger
}

type Dependencies struct {
	Sessions SessionStore
	Items    ItemStore
	Reverser ledger.Reverser
}

func NewService(deps Dependencies, cfg Config) *Service {
	if cfg.UndoCapacity <= 0 {
		cfg.UndoCapacity = ledger.DefaultCapacity
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 24 * time.Hour
	}

	return &Service{
		sessions: deps.Sessions,
		items:    deps.Items,
		reverser: deps.Reverser,
		cfg:      cfg,
		now:      time.Now,
		ledgers:  make(map[uuid.UUID]*ledger.Ledger),
	}
}

// Start opens a new trade session anchored on one of the user's own items.
func (s *Service) Start(ctx context.Context, userID int64, anchorItemID uuid.UUID) (model.TradeSession, error) {
	if userID <= 0 || anchorItemID == uuid.Nil {
		return model.TradeSession{}, ErrValidation
	}
	if s.sessions == nil || s.items == nil {
		return model.TradeSession{}, fmt.Errorf("trade dependencies are not configured")
	}

	if err := s.checkAnchorOwnership(ctx, userID, anchorItemID); err != nil {
		return model.TradeSession{}, err
	}

	session := model.TradeSession{
		ID:           uuid.New(),
		UserID:       userID,
		AnchorItemID: anchorItemID,
		StartedAt:    s.now().UTC(),
	}
	if err := s.sessions.Save(ctx, session, s.cfg.SessionTTL); err != nil {
		return model.TradeSession{}, fmt.Errorf("save trade session: %w", err)
	}

	s.mu.Lock()
	s.ledgers[session.ID] = ledger.New(s.reverser, s.cfg.UndoCapacity)
	s.mu.Unlock()

	return session, nil
}

// SetAnchor swaps the session's anchor item. The undo history belongs to the
// old anchor's context, so it is cleared without reversal calls.
func (s *Service) SetAnchor(ctx context.Context, userID int64, sessionID, anchorItemID uuid.UUID) (model.TradeSession, error) {
	if userID <= 0 || sessionID == uuid.Nil || anchorItemID == uuid.Nil {
		return model.TradeSession{}, ErrValidation
	}

	session, err := s.ownedSession(ctx, userID, sessionID)
	if err != nil {
		return model.TradeSession{}, err
	}
	if err := s.checkAnchorOwnership(ctx, userID, anchorItemID); err != nil {
		return model.TradeSession{}, err
	}

	session.AnchorItemID = anchorItemID
	if err := s.sessions.Save(ctx, session, s.cfg.SessionTTL); err != nil {
		return model.TradeSession{}, fmt.Errorf("save trade session: %w", err)
	}

	s.mu.Lock()
	if l, ok := s.ledgers[sessionID]; ok {
		l.Clear()
	} else {
		s.ledgers[sessionID] = ledger.New(s.reverser, s.cfg.UndoCapacity)
	}
	s.mu.Unlock()

	return session, nil
}

// RecordCommit appends a committed swipe to the session's undo history.
func (s *Service) RecordCommit(ctx context.Context, userID int64, rec ledger.Record) error {
	if userID <= 0 || rec.SessionID == uuid.Nil || rec.Item.ID == uuid.Nil {
		return ErrValidation
	}
	if rec.UserID != userID {
		return ErrForbidden
	}
	if _, err := s.ownedSession(ctx, userID, rec.SessionID); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.ledgers[rec.SessionID]
	if !ok {
		l = ledger.New(s.reverser, s.cfg.UndoCapacity)
		s.ledgers[rec.SessionID] = l
	}
	l.Push(rec)
	return nil
}

// Undo reverses the session's most recent swipe and returns its snapshot so
// the card can be restored exactly as it was shown.
func (s *Service) Undo(ctx context.Context, userID int64, sessionID uuid.UUID) (ledger.Record, error) {
	if userID <= 0 || sessionID == uuid.Nil {
		return ledger.Record{}, ErrValidation
	}
	if _, err := s.ownedSession(ctx, userID, sessionID); err != nil {
		return ledger.Record{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.ledgers[sessionID]
	if !ok {
		return ledger.Record{}, ErrNothingToUndo
	}

	rec, undone, err := l.UndoLast(ctx)
	if err != nil {
		return ledger.Record{}, fmt.Errorf("reverse swipe: %w", err)
	}
	if !undone {
		return ledger.Record{}, ErrNothingToUndo
	}
	return rec, nil
}

// UndoDepth reports how many swipes of the session can still be reversed.
func (s *Service) UndoDepth(ctx context.Context, userID int64, sessionID uuid.UUID) (int, error) {
	if userID <= 0 || sessionID == uuid.Nil {
		return 0, ErrValidation
	}
	if _, err := s.ownedSession(ctx, userID, sessionID); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if l, ok := s.ledgers[sessionID]; ok {
		return l.Len(), nil
	}
	return 0, nil
}

// End closes the session and drops its undo history.
func (s *Service) End(ctx context.Context, userID int64, sessionID uuid.UUID) error {
	if userID <= 0 || sessionID == uuid.Nil {
		return ErrValidation
	}
	if _, err := s.ownedSession(ctx, userID, sessionID); err != nil {
		return err
	}

	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete trade session: %w", err)
	}

	s.mu.Lock()
	delete(s.ledgers, sessionID)
	s.mu.Unlock()
	return nil
}

// DropLedgers discards in-process undo state for sessions that no longer
// exist in redis. The cleanup job calls this periodically.
func (s *Service) DropLedgers(ctx context.Context) (int, error) {
	s.mu.Lock()
	ids := make([]uuid.UUID, 0, len(s.ledgers))
	for id := range s.ledgers {
		ids = append(ids, id)
	}
	s.mu.Unlock()

	dropped := 0
	for _, id := range ids {
		_, err := s.sessions.Get(ctx, id)
		if err == nil {
			continue
		}
		if !errors.Is(err, redrepo.ErrTradeSessionNotFound) {
			return dropped, fmt.Errorf("probe trade session: %w", err)
		}
		s.mu.Lock()
		delete(s.ledgers, id)
		s.mu.Unlock()
		dropped++
	}
	return dropped, nil
}

func (s *Service) ownedSession(ctx context.Context, userID int64, sessionID uuid.UUID) (model.TradeSession, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, redrepo.ErrTradeSessionNotFound) {
			return model.TradeSession{}, ErrSessionNotFound
		}
		return model.TradeSession{}, fmt.Errorf("get trade session: %w", err)
	}
	if session.UserID != userID {
		return model.TradeSession{}, ErrForbidden
	}
	return session, nil
}

func (s *Service) checkAnchorOwnership(ctx context.Context, userID int64, anchorItemID uuid.UUID) error {
	item, err := s.items.GetByID(ctx, anchorItemID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrItemNotFound) {
			return ErrItemNotFound
		}
		return fmt.Errorf("get anchor item: %w", err)
	}
	if item.OwnerID != userID {
		return ErrForbidden
	}
	return nil
}
