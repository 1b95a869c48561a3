package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"handled/internal/model"
	"handled/internal/repository"

	"github.com/rs/zerolog"
)

type fakeProfileRepo struct {
	profiles map[string]*model.OnboardingProfile
	clock    func() time.Time
}

func newFakeProfileRepo(clock func() time.Time) *fakeProfileRepo {
	return &fakeProfileRepo{profiles: make(map[string]*model.OnboardingProfile), clock: clock}
}

func (f *fakeProfileRepo) GetProfile(ctx context.Context, userID string) (*model.OnboardingProfile, error) {
	p, ok := f.profiles[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProfileRepo) UpsertProfile(ctx context.Context, p *model.OnboardingProfile) (*model.OnboardingProfile, error) {
	now := f.clock()
	cp := *p
	cp.CompletedAt = &now
	cp.UpdatedAt = now
	f.profiles[cp.UserID] = &cp
	out := cp
	return &out, nil
}

func boolPtr(b bool) *bool { return &b }

func newTestOnboardingService(profiles repository.ProfileRepository, tasks TaskService) *onboardingService {
	return &onboardingService{
		profileRepo: profiles,
		taskSvc:     tasks,
		logger:      zerolog.Nop(),
	}
}

func TestOnboardingGetProfile(t *testing.T) {
	ctx := context.Background()
	profiles := newFakeProfileRepo(fixedClock(testNow))
	taskRepo := newFakeTaskRepo()
	svc := newTestOnboardingService(profiles, newTestTaskService(taskRepo, testNow))

	if _, err := svc.GetProfile(ctx, "nobody"); !errors.Is(err, ErrProfileNotFound) {
		t.Errorf("GetProfile() missing error = %v, want ErrProfileNotFound", err)
	}

	profiles.profiles["u1"] = &model.OnboardingProfile{UserID: "u1"}
	got, err := svc.GetProfile(ctx, "u1")
	if err != nil || got.UserID != "u1" {
		t.Errorf("GetProfile() = %v, %v", got, err)
	}
}

func TestOnboardingSubmitProfile(t *testing.T) {
	ctx := context.Background()

	t.Run("saves profile and materializes tasks", func(t *testing.T) {
		profiles := newFakeProfileRepo(fixedClock(testNow))
		taskRepo := newFakeTaskRepo()
		svc := newTestOnboardingService(profiles, newTestTaskService(taskRepo, testNow))

		saved, tasks, err := svc.SubmitProfile(ctx, &model.OnboardingProfile{
			UserID:           "u1",
			HasLifeInsurance: boolPtr(false),
			HasChildren:      boolPtr(true),
		})
		if err != nil {
			t.Fatalf("SubmitProfile() error = %v", err)
		}
		if saved.CompletedAt == nil {
			t.Error("completedAt not stamped on save")
		}
		if len(tasks) == 0 {
			t.Fatal("no tasks generated")
		}
		for _, task := range tasks {
			if task.UserID != "u1" {
				t.Errorf("task %s userID = %q, want u1", task.ID, task.UserID)
			}
			if task.Status != model.StatusPending {
				t.Errorf("task %s status = %q, want pending", task.ID, task.Status)
			}
		}
	})

	t.Run("resubmission appends, never deletes", func(t *testing.T) {
		profiles := newFakeProfileRepo(fixedClock(testNow))
		taskRepo := newFakeTaskRepo()
		svc := newTestOnboardingService(profiles, newTestTaskService(taskRepo, testNow))

		_, first, err := svc.SubmitProfile(ctx, &model.OnboardingProfile{UserID: "u1"})
		if err != nil {
			t.Fatalf("first SubmitProfile() error = %v", err)
		}
		_, second, err := svc.SubmitProfile(ctx, &model.OnboardingProfile{
			UserID:  "u1",
			HasWill: boolPtr(false),
		})
		if err != nil {
			t.Fatalf("second SubmitProfile() error = %v", err)
		}

		_, total, _ := taskRepo.ListTasks(ctx, "u1", repository.TaskFilter{})
		if want := len(first) + len(second); total != want {
			t.Errorf("task count = %d, want %d (both submissions kept)", total, want)
		}
	})

	t.Run("resubmission overwrites the profile in full", func(t *testing.T) {
		profiles := newFakeProfileRepo(fixedClock(testNow))
		taskRepo := newFakeTaskRepo()
		svc := newTestOnboardingService(profiles, newTestTaskService(taskRepo, testNow))

		if _, _, err := svc.SubmitProfile(ctx, &model.OnboardingProfile{
			UserID:      "u1",
			HasChildren: boolPtr(true),
		}); err != nil {
			t.Fatalf("first SubmitProfile() error = %v", err)
		}
		if _, _, err := svc.SubmitProfile(ctx, &model.OnboardingProfile{UserID: "u1"}); err != nil {
			t.Fatalf("second SubmitProfile() error = %v", err)
		}

		stored, err := svc.GetProfile(ctx, "u1")
		if err != nil {
			t.Fatalf("GetProfile() error = %v", err)
		}
		if stored.HasChildren != nil {
			t.Errorf("hasChildren = %v after full overwrite, want unknown", *stored.HasChildren)
		}
	})
}
