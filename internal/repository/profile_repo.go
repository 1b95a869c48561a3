package repository

import (
	"context"
	"errors"
	"fmt"

	"handled/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ProfileRepository persists onboarding questionnaire answers.
type ProfileRepository interface {
	GetProfile(ctx context.Context, userID string) (*model.OnboardingProfile, error)
	// UpsertProfile overwrites the user's profile in full and stamps
	// completed_at. There is no partial merge.
	UpsertProfile(ctx context.Context, p *model.OnboardingProfile) (*model.OnboardingProfile, error)
}

type profileRepo struct {
	pool *pgxpool.Pool
}

// NewProfileRepo creates a new ProfileRepository.
func NewProfileRepo(pool *pgxpool.Pool) ProfileRepository {
	return &profileRepo{pool: pool}
}

const profileColumns = `user_id, age_range, employment_status, relationship_status, has_children,
	has_retirement_accounts, has_old_401k, has_life_insurance, has_will, has_emergency_fund,
	recent_life_events, financial_goals, completed_at, created_at, updated_at`

func scanProfile(row pgx.Row) (*model.OnboardingProfile, error) {
	var p model.OnboardingProfile
	err := row.Scan(
		&p.UserID,
		&p.AgeRange,
		&p.EmploymentStatus,
		&p.RelationshipStatus,
		&p.HasChildren,
		&p.HasRetirementAccounts,
		&p.HasOld401k,
		&p.HasLifeInsurance,
		&p.HasWill,
		&p.HasEmergencyFund,
		&p.RecentLifeEvents,
		&p.FinancialGoals,
		&p.CompletedAt,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *profileRepo) GetProfile(ctx context.Context, userID string) (*model.OnboardingProfile, error) {
	q := fmt.Sprintf(`SELECT %s FROM onboarding_profiles WHERE user_id = $1`, profileColumns)
	p, err := scanProfile(r.pool.QueryRow(ctx, q, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("getting profile for user %s: %w", userID, err)
	}
	return p, nil
}

func (r *profileRepo) UpsertProfile(ctx context.Context, p *model.OnboardingProfile) (*model.OnboardingProfile, error) {
	q := fmt.Sprintf(`
		INSERT INTO onboarding_profiles (user_id, age_range, employment_status, relationship_status,
			has_children, has_retirement_accounts, has_old_401k, has_life_insurance, has_will,
			has_emergency_fund, recent_life_events, financial_goals, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW())
		ON CONFLICT (user_id) DO UPDATE SET
			age_range = EXCLUDED.age_range,
			employment_status = EXCLUDED.employment_status,
			relationship_status = EXCLUDED.relationship_status,
			has_children = EXCLUDED.has_children,
			has_retirement_accounts = EXCLUDED.has_retirement_accounts,
			has_old_401k = EXCLUDED.has_old_401k,
			has_life_insurance = EXCLUDED.has_life_insurance,
			has_will = EXCLUDED.has_will,
			has_emergency_fund = EXCLUDED.has_emergency_fund,
			recent_life_events = EXCLUDED.recent_life_events,
			financial_goals = EXCLUDED.financial_goals,
			completed_at = NOW(),
			updated_at = NOW()
		RETURNING %s
	`, profileColumns)
	saved, err := scanProfile(r.pool.QueryRow(ctx, q,
		p.UserID, p.AgeRange, p.EmploymentStatus, p.RelationshipStatus,
		p.HasChildren, p.HasRetirementAccounts, p.HasOld401k, p.HasLifeInsurance, p.HasWill,
		p.HasEmergencyFund, p.RecentLifeEvents, p.FinancialGoals,
	))
	if err != nil {
		return nil, fmt.Errorf("upserting profile for user %s: %w", p.UserID, err)
	}
	return saved, nil
}
