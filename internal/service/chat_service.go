package service

import (
	"context"
	"errors"
	"fmt"

	"handled/internal/model"
	"handled/internal/repository"

	"github.com/rs/zerolog"
)

// ErrChatLimitExceeded is returned when the atomic usage commit finds
// the monthly chat quota already spent. The API layer surfaces it as a
// subscription-required rejection.
var ErrChatLimitExceeded = errors.New("chat limit exceeded")

// ChatService dispatches a user message to the external AI service
// after committing one unit of chat quota. The entitlement gate runs in
// the API layer first; the commit here re-checks atomically so a race
// between two requests never spends more than the quota.
type ChatService interface {
	SendMessage(ctx context.Context, userID string, tier model.SubscriptionTier, message string) (string, error)
}

type chatService struct {
	entitlements EntitlementService
	client       ChatClient
	logger       zerolog.Logger
}

// NewChatService creates a new ChatService with a scoped logger.
func NewChatService(entitlements EntitlementService, client ChatClient, logger zerolog.Logger) ChatService {
	return &chatService{
		entitlements: entitlements,
		client:       client,
		logger:       logger.With().Str("service", "ChatService").Logger(),
	}
}

func (s *chatService) SendMessage(ctx context.Context, userID string, tier model.SubscriptionTier, message string) (string, error) {
	if err := s.entitlements.CommitUsage(ctx, userID, tier, model.ActionChatMessage); err != nil {
		if errors.Is(err, repository.ErrEventLimitExceeded) {
			return "", ErrChatLimitExceeded
		}
		s.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to commit chat usage")
		return "", fmt.Errorf("committing chat usage: %w", err)
	}

	reply, err := s.client.Complete(ctx, userID, message)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to get AI completion")
		return "", fmt.Errorf("dispatching chat message: %w", err)
	}
	return reply, nil
}
