package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"handled/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrEventLimitExceeded is returned when a user has reached their usage
// limit for the period.
var ErrEventLimitExceeded = errors.New("event_limit_exceeded")

// UsageRepository tracks user action events for usage-based limits. The
// meter only reads committed events; recording happens after the action
// is approved, so a plain count-then-record flow can overshoot by at
// most one unit under concurrency. CheckAndRecordEvent closes that gap
// at the storage layer for callers that want it.
type UsageRepository interface {
	// CountEventsInRange counts events of one kind in [start, end).
	CountEventsInRange(ctx context.Context, userID string, kind model.ActionKind, start, end time.Time) (int, error)
	// RecordEvent appends a committed action event.
	RecordEvent(ctx context.Context, userID string, kind model.ActionKind) error
	// CheckAndRecordEvent atomically checks the user's event count for
	// the period and records a new event. Returns ErrEventLimitExceeded
	// if the limit is reached. maxEvents <= 0 means no limit.
	CheckAndRecordEvent(ctx context.Context, userID string, kind model.ActionKind, start, end time.Time, maxEvents int) error
}

type usageRepo struct {
	pool *pgxpool.Pool
}

// NewUsageRepo creates a new UsageRepository.
func NewUsageRepo(pool *pgxpool.Pool) UsageRepository {
	return &usageRepo{pool: pool}
}

func (r *usageRepo) CountEventsInRange(ctx context.Context, userID string, kind model.ActionKind, start, end time.Time) (int, error) {
	const q = `
		SELECT COUNT(*)
		FROM usage_events
		WHERE user_id = $1
		  AND event_type = $2
		  AND created_at >= $3
		  AND created_at < $4
	`
	var count int
	if err := r.pool.QueryRow(ctx, q, userID, kind, start, end).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting %s events for user %s: %w", kind, userID, err)
	}
	return count, nil
}

func (r *usageRepo) RecordEvent(ctx context.Context, userID string, kind model.ActionKind) error {
	const q = `INSERT INTO usage_events (user_id, event_type) VALUES ($1, $2)`
	if _, err := r.pool.Exec(ctx, q, userID, kind); err != nil {
		return fmt.Errorf("recording %s event for user %s: %w", kind, userID, err)
	}
	return nil
}

func (r *usageRepo) CheckAndRecordEvent(ctx context.Context, userID string, kind model.ActionKind, start, end time.Time, maxEvents int) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return fmt.Errorf("starting transaction for usage check: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()
	const countQ = `
		SELECT COUNT(*)
		FROM usage_events
		WHERE user_id = $1
		  AND event_type = $2
		  AND created_at >= $3
		  AND created_at < $4
	`
	var count int
	if err := tx.QueryRow(ctx, countQ, userID, kind, start, end).Scan(&count); err != nil {
		return fmt.Errorf("counting %s events for user %s: %w", kind, userID, err)
	}
	if maxEvents > 0 && count >= maxEvents {
		return ErrEventLimitExceeded
	}
	const insertQ = `INSERT INTO usage_events (user_id, event_type) VALUES ($1, $2)`
	if _, err := tx.Exec(ctx, insertQ, userID, kind); err != nil {
		return fmt.Errorf("recording %s event for user %s: %w", kind, userID, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing %s event for user %s: %w", kind, userID, err)
	}
	return nil
}
