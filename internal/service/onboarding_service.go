package service

import (
	"context"
	"errors"
	"fmt"

	"handled/internal/model"
	"handled/internal/repository"
	"handled/internal/taskgen"

	"github.com/rs/zerolog"
)

// ErrProfileNotFound is returned when the user has not completed
// onboarding yet.
var ErrProfileNotFound = errors.New("onboarding profile not found")

// OnboardingService saves questionnaire answers and materializes the
// generated task list. Resubmission overwrites the profile in full and
// generates a fresh task list; previously created tasks are left alone
// since the engine never deletes.
type OnboardingService interface {
	GetProfile(ctx context.Context, userID string) (*model.OnboardingProfile, error)
	SubmitProfile(ctx context.Context, p *model.OnboardingProfile) (*model.OnboardingProfile, []model.Task, error)
}

type onboardingService struct {
	profileRepo repository.ProfileRepository
	taskSvc     TaskService
	logger      zerolog.Logger
}

// NewOnboardingService creates a new OnboardingService with a scoped logger.
func NewOnboardingService(profileRepo repository.ProfileRepository, taskSvc TaskService, logger zerolog.Logger) OnboardingService {
	return &onboardingService{
		profileRepo: profileRepo,
		taskSvc:     taskSvc,
		logger:      logger.With().Str("service", "OnboardingService").Logger(),
	}
}

func (s *onboardingService) GetProfile(ctx context.Context, userID string) (*model.OnboardingProfile, error) {
	profile, err := s.profileRepo.GetProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("getting profile: %w", err)
	}
	return profile, nil
}

func (s *onboardingService) SubmitProfile(ctx context.Context, p *model.OnboardingProfile) (*model.OnboardingProfile, []model.Task, error) {
	saved, err := s.profileRepo.UpsertProfile(ctx, p)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", p.UserID).Msg("Failed to save onboarding profile")
		return nil, nil, err
	}

	specs := taskgen.Generate(saved)
	tasks, err := s.taskSvc.BulkCreate(ctx, saved.UserID, specs)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", saved.UserID).Msg("Failed to create generated tasks")
		return nil, nil, err
	}
	s.logger.Info().Str("user_id", saved.UserID).Int("tasks_created", len(tasks)).Msg("Onboarding profile saved")
	return saved, tasks, nil
}
