package service

import (
	"context"
	"fmt"
	"time"

	"handled/internal/model"
	"handled/internal/repository"

	"github.com/rs/zerolog"
)

// Limits holds the free tier's quota constants. Paid tiers are exempt
// from all of them.
type Limits struct {
	ChatMessagesPerMonth    int
	DocumentUploadsPerMonth int
	OpenTasks               int
}

// EntitlementService decides whether a metered action may proceed.
// Chat messages and document uploads are counted inside the current UTC
// calendar month; task creation is limited by the number of currently
// open tasks. Quota exhaustion is a result (Allowed=false), never an
// error.
//
// CheckEntitlement and the subsequent recording of the action event are
// not atomic: two requests racing for the last unit of quota can both
// pass and overshoot by one. This is accepted and bounded; callers that
// want the stronger guarantee commit through CommitUsage, which checks
// and records in a single serializable transaction.
type EntitlementService interface {
	CheckEntitlement(ctx context.Context, userID string, tier model.SubscriptionTier, kind model.ActionKind) (*model.Entitlement, error)
	// UsageSummary returns the entitlements for all metered kinds.
	UsageSummary(ctx context.Context, userID string, tier model.SubscriptionTier) (*model.UsageSummary, error)
	// CommitUsage records one unit of a time-windowed action,
	// atomically re-checking the limit at the storage layer. Returns
	// repository.ErrEventLimitExceeded when the quota is already spent.
	CommitUsage(ctx context.Context, userID string, tier model.SubscriptionTier, kind model.ActionKind) error
}

type entitlementService struct {
	usageRepo repository.UsageRepository
	taskRepo  repository.TaskRepository
	limits    Limits
	logger    zerolog.Logger
	now       func() time.Time
}

// NewEntitlementService creates a new EntitlementService with a scoped
// logger. Window boundaries are re-derived from the clock on every
// call, never cached.
func NewEntitlementService(usageRepo repository.UsageRepository, taskRepo repository.TaskRepository, limits Limits, logger zerolog.Logger) EntitlementService {
	return &entitlementService{
		usageRepo: usageRepo,
		taskRepo:  taskRepo,
		limits:    limits,
		logger:    logger.With().Str("service", "EntitlementService").Logger(),
		now:       time.Now,
	}
}

func (s *entitlementService) CheckEntitlement(ctx context.Context, userID string, tier model.SubscriptionTier, kind model.ActionKind) (*model.Entitlement, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("entitlement: invalid action kind %q", kind)
	}
	start, end := monthWindow(s.now())
	if tier.Unlimited() {
		return &model.Entitlement{
			Allowed:   true,
			Remaining: model.Unlimited,
			Limit:     model.Unlimited,
			ResetDate: end,
		}, nil
	}

	limit := s.limitFor(kind)
	var used int
	var err error
	if kind == model.ActionTaskCreate {
		used, err = s.taskRepo.CountOpenTasks(ctx, userID)
	} else {
		used, err = s.usageRepo.CountEventsInRange(ctx, userID, kind, start, end)
	}
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Str("kind", string(kind)).Msg("Failed to count usage")
		return nil, err
	}

	remaining := limit - used
	if remaining < 0 {
		remaining = 0
	}
	return &model.Entitlement{
		Allowed:   remaining > 0,
		Remaining: remaining,
		Limit:     limit,
		ResetDate: end,
	}, nil
}

func (s *entitlementService) UsageSummary(ctx context.Context, userID string, tier model.SubscriptionTier) (*model.UsageSummary, error) {
	chat, err := s.CheckEntitlement(ctx, userID, tier, model.ActionChatMessage)
	if err != nil {
		return nil, err
	}
	documents, err := s.CheckEntitlement(ctx, userID, tier, model.ActionDocumentUpload)
	if err != nil {
		return nil, err
	}
	tasks, err := s.CheckEntitlement(ctx, userID, tier, model.ActionTaskCreate)
	if err != nil {
		return nil, err
	}
	return &model.UsageSummary{Chat: *chat, Documents: *documents, Tasks: *tasks}, nil
}

func (s *entitlementService) CommitUsage(ctx context.Context, userID string, tier model.SubscriptionTier, kind model.ActionKind) error {
	if kind != model.ActionChatMessage && kind != model.ActionDocumentUpload {
		return fmt.Errorf("entitlement: %q is not a recordable action kind", kind)
	}
	if tier.Unlimited() {
		return s.usageRepo.RecordEvent(ctx, userID, kind)
	}
	start, end := monthWindow(s.now())
	return s.usageRepo.CheckAndRecordEvent(ctx, userID, kind, start, end, s.limitFor(kind))
}

func (s *entitlementService) limitFor(kind model.ActionKind) int {
	switch kind {
	case model.ActionChatMessage:
		return s.limits.ChatMessagesPerMonth
	case model.ActionDocumentUpload:
		return s.limits.DocumentUploadsPerMonth
	case model.ActionTaskCreate:
		return s.limits.OpenTasks
	}
	return 0
}

// monthWindow returns [month start, next month start) around now in
// UTC, regardless of the caller's local timezone.
func monthWindow(now time.Time) (start, end time.Time) {
	utc := now.UTC()
	start = time.Date(utc.Year(), utc.Month(), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}
