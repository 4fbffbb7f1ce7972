package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	goredis "github.com/redis/go-redis/v9"

	"swaply/internal/domain/model"
	pgrepo "swaply/internal/repo/postgres"
	redrepo "swaply/internal/repo/redis"
	authsvc "swaply/internal/services/auth"
	ratesvc "swaply/internal/services/rate"
	swipesvc "swaply/internal/services/swipes"
	tradesvc "swaply/internal/services/trade"
	"swaply/internal/transport/http/dto"
)

type stubItemStore struct {
	items map[uuid.UUID]pgrepo.ItemRecord
}

func (s *stubItemStore) GetByID(_ context.Context, itemID uuid.UUID) (pgrepo.ItemRecord, error) {
	rec, ok := s.items[itemID]
	if !ok {
		return pgrepo.ItemRecord{}, pgrepo.ErrItemNotFound
	}
	return rec, nil
}

type stubSwipeStore struct{}

func (s *stubSwipeStore) Create(_ context.Context, _ pgx.Tx, rec pgrepo.SwipeRecord) (pgrepo.SwipeRecord, error) {
	rec.ID = 1
	return rec, nil
}

func (s *stubSwipeStore) GetBySessionItem(_ context.Context, _ pgx.Tx, _ uuid.UUID, _ int64, _ uuid.UUID) (pgrepo.SwipeRecord, error) {
	return pgrepo.SwipeRecord{}, pgrepo.ErrSwipeNotFound
}

func (s *stubSwipeStore) DeleteByID(_ context.Context, _ pgx.Tx, _ int64) error { return nil }

func (s *stubSwipeStore) HasRightSwipeOnItem(_ context.Context, _ pgx.Tx, _ int64, _ uuid.UUID) (bool, error) {
	return false, nil
}

type stubMatchStore struct{}

func (s *stubMatchStore) Create(_ context.Context, _ pgx.Tx, itemA, itemB uuid.UUID, userA, userB int64, now time.Time) (pgrepo.MatchRecord, error) {
	return pgrepo.MatchRecord{ID: 1, ItemAID: itemA, ItemBID: itemB, UserAID: userA, UserBID: userB, CreatedAt: now}, nil
}

func (s *stubMatchStore) DeleteByItems(_ context.Context, _ pgx.Tx, _, _ uuid.UUID) (bool, error) {
	return false, nil
}

type swipeHandlerFixture struct {
	handler   *SwipeHandler
	sessionID uuid.UUID
	targetID  uuid.UUID
}

func newSwipeHandlerFixture(t *testing.T, perMinute, per10Sec int) swipeHandlerFixture {
	t.Helper()

	mr := miniredis.RunT(t)
	redisClient := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = redisClient.Close() })

	sessionRepo := redrepo.NewTradeSessionRepo(redisClient)
	rateLimiter := ratesvc.NewLimiter(redrepo.NewRateRepo(redisClient), perMinute, per10Sec)

	sessionID := uuid.New()
	anchorID := uuid.New()
	targetID := uuid.New()

	session := model.TradeSession{
		ID:           sessionID,
		UserID:       101,
		AnchorItemID: anchorID,
		StartedAt:    time.Now(),
	}
	if err := sessionRepo.Save(context.Background(), session, time.Hour); err != nil {
		t.Fatalf("save session: %v", err)
	}

	items := &stubItemStore{items: map[uuid.UUID]pgrepo.ItemRecord{
		anchorID: {ID: anchorID, OwnerID: 101, Title: "vintage camera"},
		targetID: {ID: targetID, OwnerID: 202, Title: "mechanical keyboard"},
	}}

	swipes := swipesvc.NewService(swipesvc.Dependencies{
		SwipeStore:  &stubSwipeStore{},
		MatchStore:  &stubMatchStore{},
		ItemStore:   items,
		Sessions:    sessionRepo,
		RateLimiter: rateLimiter,
	}, swipesvc.Config{})

	trade := tradesvc.NewService(tradesvc.Dependencies{
		Sessions: sessionRepo,
		Items:    items,
		Reverser: swipes,
	}, tradesvc.Config{})

	return swipeHandlerFixture{
		handler:   NewSwipeHandler(swipes, trade, nil),
		sessionID: sessionID,
		targetID:  targetID,
	}
}

// weakTrace drags a few pixels and releases, far short of a commit.
func weakTrace() []dto.TraceEvent {
	return []dto.TraceEvent{
		{Kind: "down", X: 200, Y: 300, OffsetMS: 0},
		{Kind: "move", X: 208, Y: 301, OffsetMS: 40},
		{Kind: "up", X: 208, Y: 301, OffsetMS: 80},
	}
}

func performSwipe(t *testing.T, h *SwipeHandler, body map[string]any, withIdentity bool) *httptest.ResponseRecorder {
	t.Helper()

	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request body: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/swipes", bytes.NewReader(raw))
	if withIdentity {
		req = req.WithContext(authsvc.WithIdentity(context.Background(), authsvc.Identity{
			UserID: 101,
			SID:    "sid-101",
		}))
	}
	rec := httptest.NewRecorder()
	h.Swipe(rec, req)
	return rec
}

func decodeErrorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	var payload struct {
		Code string `json:"code"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return payload.Code
}

func TestSwipeHandlerRequiresIdentity(t *testing.T) {
	fx := newSwipeHandlerFixture(t, 100, 100)

	rec := performSwipe(t, fx.handler, map[string]any{
		"session_id":     fx.sessionID.String(),
		"target_item_id": fx.targetID.String(),
		"direction":      "RIGHT",
		"trace":          weakTrace(),
	}, false)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestSwipeHandlerRejectsUnknownDirection(t *testing.T) {
	fx := newSwipeHandlerFixture(t, 100, 100)

	rec := performSwipe(t, fx.handler, map[string]any{
		"session_id":     fx.sessionID.String(),
		"target_item_id": fx.targetID.String(),
		"direction":      "UP",
		"trace":          weakTrace(),
	}, true)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if code := decodeErrorCode(t, rec); code != "VALIDATION_ERROR" {
		t.Fatalf("code = %q, want VALIDATION_ERROR", code)
	}
}

func TestSwipeHandlerRejectsTraceThatDoesNotCommit(t *testing.T) {
	fx := newSwipeHandlerFixture(t, 100, 100)

	rec := performSwipe(t, fx.handler, map[string]any{
		"session_id":     fx.sessionID.String(),
		"target_item_id": fx.targetID.String(),
		"direction":      "RIGHT",
		"trace":          weakTrace(),
	}, true)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnprocessableEntity)
	}
	if code := decodeErrorCode(t, rec); code != "GESTURE_REJECTED" {
		t.Fatalf("code = %q, want GESTURE_REJECTED", code)
	}
}

func TestSwipeHandlerReturnsTooFastWhenWindowExhausted(t *testing.T) {
	fx := newSwipeHandlerFixture(t, 100, 1)

	body := map[string]any{
		"session_id":     fx.sessionID.String(),
		"target_item_id": fx.targetID.String(),
		"direction":      "RIGHT",
		"trace":          weakTrace(),
	}

	// First request consumes the 10s window before the trace is replayed.
	_ = performSwipe(t, fx.handler, body, true)

	rec := performSwipe(t, fx.handler, body, true)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusTooManyRequests)
	}

	var payload struct {
		Code          string `json:"code"`
		RetryAfterSec int64  `json:"retry_after_sec"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Code != "TOO_FAST" {
		t.Fatalf("code = %q, want TOO_FAST", payload.Code)
	}
	if payload.RetryAfterSec <= 0 {
		t.Fatalf("retry_after_sec = %d, want positive", payload.RetryAfterSec)
	}
}

func TestUndoHandlerReportsEmptyLedger(t *testing.T) {
	fx := newSwipeHandlerFixture(t, 100, 100)

	raw, err := json.Marshal(dto.UndoRequest{SessionID: fx.sessionID.String()})
	if err != nil {
		t.Fatalf("marshal request body: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/swipes/undo", bytes.NewReader(raw))
	req = req.WithContext(authsvc.WithIdentity(context.Background(), authsvc.Identity{
		UserID: 101,
		SID:    "sid-101",
	}))
	rec := httptest.NewRecorder()
	fx.handler.Undo(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusConflict)
	}
	if code := decodeErrorCode(t, rec); code != "NOTHING_TO_UNDO" {
		t.Fatalf("code = %q, want NOTHING_TO_UNDO", code)
	}
}
