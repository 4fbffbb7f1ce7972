package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already registered")
)

type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

type UserRecord struct {
	ID           int64
	Email        string
	DisplayName  string
	PasswordHash string
	City         string
	TradeCount   int
	CreatedAt    time.Time
}

func (r *UserRepo) Create(ctx context.Context, email, displayName, passwordHash string) (UserRecord, error) {
	if r.pool == nil {
		return UserRecord{}, fmt.Errorf("postgres pool is nil")
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || strings.TrimSpace(displayName) == "" || passwordHash == "" {
		return UserRecord{}, fmt.Errorf("invalid user payload")
	}

	var rec UserRecord
	err := r.pool.QueryRow(ctx, `
INSERT INTO users (email, display_name, password_hash, created_at)
VALUES ($1, $2, $3, NOW())
ON CONFLICT (email) DO NOTHING
RETURNING id, email, display_name, password_hash, city, trade_count, created_at
`, email, strings.TrimSpace(displayName), passwordHash).Scan(
		&rec.ID,
		&rec.Email,
		&rec.DisplayName,
		&rec.PasswordHash,
		&rec.City,
		&rec.TradeCount,
		&rec.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return UserRecord{}, ErrEmailTaken
		}
		return UserRecord{}, fmt.Errorf("create user: %w", err)
	}
	return rec, nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (UserRecord, error) {
	if r.pool == nil {
		return UserRecord{}, fmt.Errorf("postgres pool is nil")
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return UserRecord{}, fmt.Errorf("email is required")
	}

	var rec UserRecord
	err := r.pool.QueryRow(ctx, `
SELECT id, email, display_name, password_hash, city, trade_count, created_at
FROM users
WHERE email = $1
`, email).Scan(
		&rec.ID,
		&rec.Email,
		&rec.DisplayName,
		&rec.PasswordHash,
		&rec.City,
		&rec.TradeCount,
		&rec.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return UserRecord{}, ErrUserNotFound
		}
		return UserRecord{}, fmt.Errorf("get user by email: %w", err)
	}
	return rec, nil
}

func (r *UserRepo) GetByID(ctx context.Context, userID int64) (UserRecord, error) {
	if r.pool == nil {
		return UserRecord{}, fmt.Errorf("postgres pool is nil")
	}
	if userID <= 0 {
		return UserRecord{}, fmt.Errorf("invalid user id")
	}

	var rec UserRecord
	err := r.pool.QueryRow(ctx, `
SELECT id, email, display_name, password_hash, city, trade_count, created_at
FROM users
WHERE id = $1
`, userID).Scan(
		&rec.ID,
		&rec.Email,
		&rec.DisplayName,
		&rec.PasswordHash,
		&rec.City,
		&rec.TradeCount,
		&rec.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return UserRecord{}, ErrUserNotFound
		}
		return UserRecord{}, fmt.Errorf("get user: %w", err)
	}
	return rec, nil
}
