package repository

import (
	"context"
	"errors"
	"fmt"

	"handled/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UserRepository loads user identity and tier data. Tier changes arrive
// through the external payment webhook layer, not through this engine.
type UserRepository interface {
	GetUserByID(ctx context.Context, userID string) (*model.User, error)
	// UpsertUser creates the user row on first authenticated request.
	// New users start on the free tier.
	UpsertUser(ctx context.Context, userID, email string) (*model.User, error)
}

type userRepo struct {
	pool *pgxpool.Pool
}

// NewUserRepo creates a new UserRepository.
func NewUserRepo(pool *pgxpool.Pool) UserRepository {
	return &userRepo{pool: pool}
}

func (r *userRepo) GetUserByID(ctx context.Context, userID string) (*model.User, error) {
	const q = `
		SELECT user_id, email, display_name, subscription_tier, created_at, updated_at
		FROM users
		WHERE user_id = $1
	`
	var u model.User
	err := r.pool.QueryRow(ctx, q, userID).Scan(
		&u.UserID,
		&u.Email,
		&u.DisplayName,
		&u.SubscriptionTier,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("fetching user %s: %w", userID, err)
	}
	return &u, nil
}

func (r *userRepo) UpsertUser(ctx context.Context, userID, email string) (*model.User, error) {
	const q = `
		INSERT INTO users (user_id, email, display_name, subscription_tier)
		VALUES ($1, $2, '', 'free')
		ON CONFLICT (user_id) DO UPDATE SET email = EXCLUDED.email, updated_at = NOW()
		RETURNING user_id, email, display_name, subscription_tier, created_at, updated_at
	`
	var u model.User
	err := r.pool.QueryRow(ctx, q, userID, email).Scan(
		&u.UserID,
		&u.Email,
		&u.DisplayName,
		&u.SubscriptionTier,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("upserting user %s: %w", userID, err)
	}
	return &u, nil
}
