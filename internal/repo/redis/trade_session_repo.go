package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"swaply/internal/domain/model"
)

const tradeSessionPrefix = "trade_sessions:"

var ErrTradeSessionNotFound = errors.New("trade session not found")

// TradeSessionRepo stores each user's active browsing context with a TTL so
// abandoned sessions expire on their own.
type TradeSessionRepo struct {
	client *goredis.Client
}

func NewTradeSessionRepo(client *goredis.Client) *TradeSessionRepo {
	return &TradeSessionRepo{client: client}
}

func (r *TradeSessionRepo) Save(ctx context.Context, session model.TradeSession, ttl time.Duration) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if session.ID == uuid.Nil || session.UserID <= 0 {
		return fmt.Errorf("invalid trade session payload")
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal trade session: %w", err)
	}

	if err := r.client.Set(ctx, tradeSessionKey(session.ID), payload, ttl).Err(); err != nil {
		return fmt.Errorf("save trade session: %w", err)
	}
	return nil
}

func (r *TradeSessionRepo) Get(ctx context.Context, sessionID uuid.UUID) (model.TradeSession, error) {
	if r.client == nil {
		return model.TradeSession{}, fmt.Errorf("redis client is nil")
	}
	if sessionID == uuid.Nil {
		return model.TradeSession{}, fmt.Errorf("invalid trade session id")
	}

	raw, err := r.client.Get(ctx, tradeSessionKey(sessionID)).Bytes()
	if err != nil {
		if err == goredis.Nil {
			return model.TradeSession{}, ErrTradeSessionNotFound
		}
		return model.TradeSession{}, fmt.Errorf("get trade session: %w", err)
	}

	var session model.TradeSession
	if err := json.Unmarshal(raw, &session); err != nil {
		return model.TradeSession{}, fmt.Errorf("unmarshal trade session: %w", err)
	}
	return session, nil
}

func (r *TradeSessionRepo) Delete(ctx context.Context, sessionID uuid.UUID) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if sessionID == uuid.Nil {
		return nil
	}

	if err := r.client.Del(ctx, tradeSessionKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("delete trade session: %w", err)
	}
	return nil
}

func tradeSessionKey(sessionID uuid.UUID) string {
	return tradeSessionPrefix + sessionID.String()
}
