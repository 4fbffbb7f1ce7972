package swipes

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"swaply/internal/domain/enums"
	"swaply/internal/domain/model"
	"swaply/internal/gesture"
	pgrepo "swaply/internal/repo/postgres"
	redrepo "swaply/internal/repo/redis"
)

var (
	ErrValidation      = errors.New("validation error")
	ErrForbidden       = errors.New("forbidden")
	ErrSessionNotFound = errors.New("trade session not found")
	ErrItemNotFound    = errors.New("item not found")
	ErrGestureRejected = errors.New("gesture trace does not produce the claimed swipe")
	ErrNothingToUndo   = errors.New("no swipe to reverse")
	ErrSelfSwipe       = errors.New("cannot swipe on your own item")
)

// TooFastError carries the limiter's retry hint to the transport layer.
type TooFastError struct {
	RetryAfterSec int64
}

func (e TooFastError) Error() string {
	return "too many swipes, retry after " + strconv.FormatInt(e.RetryAfterSec, 10) + "s"
}

type SwipeStore interface {
	Create(ctx context.Context, tx pgx.Tx, rec pgrepo.SwipeRecord) (pgrepo.SwipeRecord, error)
	GetBySessionItem(ctx context.Context, tx pgx.Tx, sessionID uuid.UUID, actorUserID int64, targetItemID uuid.UUID) (pgrepo.SwipeRecord, error)
	DeleteByID(ctx context.Context, tx pgx.Tx, swipeID int64) error
	HasRightSwipeOnItem(ctx context.Context, tx pgx.Tx, actorUserID int64, itemID uuid.UUID) (bool, error)
}

type MatchStore interface {
	Create(ctx context.Context, tx pgx.Tx, itemA, itemB uuid.UUID, userA, userB int64, now time.Time) (pgrepo.MatchRecord, error)
	DeleteByItems(ctx context.Context, tx pgx.Tx, itemA, itemB uuid.UUID) (bool, error)
}

type ItemStore interface {
	GetByID(ctx context.Context, itemID uuid.UUID) (pgrepo.ItemRecord, error)
}

type SessionStore interface {
	Get(ctx context.Context, sessionID uuid.UUID) (model.TradeSession, error)
}

type UserStore interface {
	GetByID(ctx context.Context, userID int64) (pgrepo.UserRecord, error)
}

type RateLimiter interface {
	AllowSwipe(ctx context.Context, userID int64) (int64, bool, error)
}

type Config struct {
	Thresholds     gesture.Thresholds
	CommitCooldown time.Duration
}

// SwipeResult carries the persisted decision plus a snapshot of the card it
// was made on, so the caller can feed the undo ledger without re-reading.
type SwipeResult struct {
	SwipeID      int64
	Direction    enums.SwipeDirection
	MatchCreated bool
	MatchID      int64
	Item         model.Item
	Owner        model.Profile
	At           time.Time
}

type Service struct {
	swipeStore  SwipeStore
	matchStore  MatchStore
	itemStore   ItemStore
	userStore   UserStore
	sessions    SessionStore
	rateLimiter RateLimiter
	cfg         Config
	now         func() time.Time
	runTx       func(ctx context.Context, fn func(context.Context, pgx.Tx) error) error

	mu        sync.Mutex
	debouncer map[int64]*gesture.Debouncer
}

type Dependencies struct {
	Pool        *pgxpool.Pool
	SwipeStore  SwipeStore
	MatchStore  MatchStore
	ItemStore   ItemStore
	UserStore   UserStore
	Sessions    SessionStore
	RateLimiter RateLimiter
}

func NewService(deps Dependencies, cfg Config) *Service {
	if cfg.CommitCooldown <= 0 {
		cfg.CommitCooldown = gesture.DefaultCommitCooldown
	}
	zero := gesture.Thresholds{}
	if cfg.Thresholds == zero {
		cfg.Thresholds = gesture.DefaultThresholds()
	}

	runTx := func(ctx context.Context, fn func(context.Context, pgx.Tx) error) error {
		return pgrepo.WithTx(ctx, deps.Pool, fn)
	}

	return &Service{
		runTx:       runTx,
		swipeStore:  deps.SwipeStore,
		matchStore:  deps.MatchStore,
		itemStore:   deps.ItemStore,
		userStore:   deps.UserStore,
		sessions:    deps.Sessions,
		rateLimiter: deps.RateLimiter,
		cfg:         cfg,
		now:         time.Now,
		debouncer:   make(map[int64]*gesture.Debouncer),
	}
}

// Swipe records one committed decision. The client ships the raw input trace
// alongside the claimed direction; the trace is replayed through the same
// engine the client runs, and a trace that does not commit in that direction
// is rejected.
func (s *Service) Swipe(ctx context.Context, userID int64, sessionID uuid.UUID, targetItemID uuid.UUID, direction enums.SwipeDirection, trace []gesture.TraceEvent) (SwipeResult, error) {
	if userID <= 0 || sessionID == uuid.Nil || targetItemID == uuid.Nil {
		return SwipeResult{}, ErrValidation
	}
	if direction != enums.SwipeLeft && direction != enums.SwipeRight {
		return SwipeResult{}, ErrValidation
	}
	if s.runTx == nil || s.swipeStore == nil || s.matchStore == nil || s.itemStore == nil || s.sessions == nil {
		return SwipeResult{}, fmt.Errorf("swipe dependencies are not configured")
	}

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, redrepo.ErrTradeSessionNotFound) {
			return SwipeResult{}, ErrSessionNotFound
		}
		return SwipeResult{}, fmt.Errorf("get trade session: %w", err)
	}
	if session.UserID != userID {
		return SwipeResult{}, ErrForbidden
	}
	if session.AnchorItemID == uuid.Nil {
		return SwipeResult{}, ErrValidation
	}

	target, err := s.itemStore.GetByID(ctx, targetItemID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrItemNotFound) {
			return SwipeResult{}, ErrItemNotFound
		}
		return SwipeResult{}, fmt.Errorf("get target item: %w", err)
	}
	if target.OwnerID == userID {
		return SwipeResult{}, ErrSelfSwipe
	}

	if s.rateLimiter != nil {
		retryAfter, allowed, err := s.rateLimiter.AllowSwipe(ctx, userID)
		if err != nil {
			return SwipeResult{}, fmt.Errorf("apply rate limiter: %w", err)
		}
		if !allowed {
			return SwipeResult{}, TooFastError{RetryAfterSec: retryAfter}
		}
	}

	outcome := gesture.Replay(trace, s.cfg.Thresholds)
	if !outcome.Committed || string(outcome.Direction) != string(direction) {
		return SwipeResult{}, ErrGestureRejected
	}

	now := s.now().UTC()
	if !s.tryCommit(userID, now) {
		return SwipeResult{}, TooFastError{RetryAfterSec: 1}
	}

	result := SwipeResult{
		Direction: direction,
		At:        now,
		Item: model.Item{
			ID:          target.ID,
			OwnerID:     target.OwnerID,
			Title:       target.Title,
			Description: target.Description,
			Category:    target.Category,
			PhotoKeys:   target.PhotoKeys,
			CreatedAt:   target.CreatedAt,
		},
		Owner: model.Profile{UserID: target.OwnerID},
	}
	if s.userStore != nil {
		if owner, err := s.userStore.GetByID(ctx, target.OwnerID); err == nil {
			result.Owner = model.Profile{
				UserID:      owner.ID,
				DisplayName: owner.DisplayName,
				City:        owner.City,
				TradeCount:  owner.TradeCount,
			}
		}
	}

	if err := s.runTx(ctx, func(txCtx context.Context, tx pgx.Tx) error {
		created, err := s.swipeStore.Create(txCtx, tx, pgrepo.SwipeRecord{
			SessionID:    sessionID,
			ActorUserID:  userID,
			AnchorItemID: session.AnchorItemID,
			TargetItemID: targetItemID,
			Direction:    string(direction),
			CreatedAt:    now,
		})
		if err != nil {
			return err
		}
		result.SwipeID = created.ID

		if direction != enums.SwipeRight {
			return nil
		}

		// Mutual interest check: has the target's owner already right-swiped
		// on our anchor item?
		mutual, err := s.swipeStore.HasRightSwipeOnItem(txCtx, tx, target.OwnerID, session.AnchorItemID)
		if err != nil {
			return err
		}
		if !mutual {
			return nil
		}

		match, err := s.matchStore.Create(txCtx, tx, session.AnchorItemID, targetItemID, userID, target.OwnerID, now)
		if err != nil {
			return err
		}
		result.MatchCreated = true
		result.MatchID = match.ID
		return nil
	}); err != nil {
		return SwipeResult{}, err
	}

	return result, nil
}

// ReverseSwipe undoes one persisted swipe of the session. It satisfies the
// undo ledger's reverser contract: a missing swipe is an error, so the ledger
// keeps its record when the reversal did not happen.
func (s *Service) ReverseSwipe(ctx context.Context, sessionID uuid.UUID, userID int64, itemID uuid.UUID) error {
	if userID <= 0 || sessionID == uuid.Nil || itemID == uuid.Nil {
		return ErrValidation
	}
	if s.runTx == nil || s.swipeStore == nil || s.matchStore == nil {
		return fmt.Errorf("swipe dependencies are not configured")
	}

	return s.runTx(ctx, func(txCtx context.Context, tx pgx.Tx) error {
		swipe, err := s.swipeStore.GetBySessionItem(txCtx, tx, sessionID, userID, itemID)
		if err != nil {
			if errors.Is(err, pgrepo.ErrSwipeNotFound) {
				return ErrNothingToUndo
			}
			return err
		}

		if err := s.swipeStore.DeleteByID(txCtx, tx, swipe.ID); err != nil {
			return err
		}

		// A reversed right swipe tears down the match it may have created.
		if swipe.Direction == string(enums.SwipeRight) {
			if _, err := s.matchStore.DeleteByItems(txCtx, tx, swipe.AnchorItemID, swipe.TargetItemID); err != nil {
				return err
			}
		}
		return nil
	})
}

// tryCommit applies the per-user commit cooldown. The debouncer itself is not
// concurrency safe, so the check runs under the service mutex.
func (s *Service) tryCommit(userID int64, now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.debouncer[userID]
	if !ok {
		d = gesture.NewDebouncer(s.cfg.CommitCooldown)
		s.debouncer[userID] = d
	}
	return d.TryCommit(now)
}
