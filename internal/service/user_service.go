package service

import (
	"context"
	"errors"
	"fmt"

	"handled/internal/model"
	"handled/internal/repository"

	"github.com/rs/zerolog"
)

// UserService resolves the authenticated user's row. The identity layer
// only hands us a verified user ID; the row (and its subscription tier)
// lives here. First-time users are created on the free tier.
type UserService interface {
	GetOrCreateUser(ctx context.Context, userID string) (*model.User, error)
}

type userService struct {
	repo   repository.UserRepository
	logger zerolog.Logger
}

// NewUserService creates a new UserService with a scoped logger.
func NewUserService(repo repository.UserRepository, logger zerolog.Logger) UserService {
	return &userService{
		repo:   repo,
		logger: logger.With().Str("service", "UserService").Logger(),
	}
}

func (s *userService) GetOrCreateUser(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to fetch user")
		return nil, fmt.Errorf("fetching user: %w", err)
	}
	created, err := s.repo.UpsertUser(ctx, userID, "")
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to create user")
		return nil, fmt.Errorf("creating user: %w", err)
	}
	return created, nil
}
