package application

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/videarn/ledger-service/internal/domain"
)

// ListPlans returns purchasable plans for users; admins also see retired
// ones.
func (s *Service) ListPlans(ctx context.Context, actor Actor) ([]domain.Plan, error) {
	return s.plans.List(ctx, !actor.IsAdmin())
}

func (s *Service) ListVideos(ctx context.Context, actor Actor) ([]domain.Video, error) {
	return s.videos.List(ctx, !actor.IsAdmin())
}

func (s *Service) CreatePlan(ctx context.Context, actor Actor, req CreatePlanRequest) (domain.Plan, error) {
	if !actor.IsAdmin() {
		return domain.Plan{}, domain.ErrForbidden
	}
	if err := domain.ValidatePlanInput(req.Name, req.Price, req.DailyEarning, req.VideosPerDay, req.ValidityDays); err != nil {
		return domain.Plan{}, err
	}
	plan := domain.Plan{
		PlanID:       uuid.New(),
		Name:         strings.TrimSpace(req.Name),
		Price:        req.Price,
		DailyEarning: req.DailyEarning,
		VideosPerDay: req.VideosPerDay,
		ValidityDays: req.ValidityDays,
		Active:       true,
		CreatedAt:    s.nowFn(),
	}
	if err := s.plans.Create(ctx, plan); err != nil {
		return domain.Plan{}, err
	}
	return plan, nil
}

func (s *Service) CreateVideo(ctx context.Context, actor Actor, req CreateVideoRequest) (domain.Video, error) {
	if !actor.IsAdmin() {
		return domain.Video{}, domain.ErrForbidden
	}
	if err := domain.ValidateVideoInput(req.Title, req.SourceURL, req.DurationSeconds); err != nil {
		return domain.Video{}, err
	}
	video := domain.Video{
		VideoID:         uuid.New(),
		Title:           strings.TrimSpace(req.Title),
		Description:     strings.TrimSpace(req.Description),
		SourceURL:       strings.TrimSpace(req.SourceURL),
		DurationSeconds: req.DurationSeconds,
		Active:          true,
		CreatedAt:       s.nowFn(),
	}
	if err := s.videos.Create(ctx, video); err != nil {
		return domain.Video{}, err
	}
	return video, nil
}
