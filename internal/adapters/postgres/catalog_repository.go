package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/videarn/ledger-service/internal/domain"
)

type planRepository struct {
	db *gorm.DB
}

func (r *planRepository) Create(ctx context.Context, plan domain.Plan) error {
	rec := planModel{
		PlanID:       plan.PlanID,
		Name:         plan.Name,
		Price:        plan.Price,
		DailyEarning: plan.DailyEarning,
		VideosPerDay: plan.VideosPerDay,
		ValidityDays: plan.ValidityDays,
		Active:       plan.Active,
		CreatedAt:    plan.CreatedAt,
	}
	return r.db.WithContext(ctx).Create(&rec).Error
}

func (r *planRepository) GetByID(ctx context.Context, planID uuid.UUID) (domain.Plan, error) {
	var rec planModel
	if err := r.db.WithContext(ctx).Where("plan_id = ?", planID).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Plan{}, domain.ErrNotFound
		}
		return domain.Plan{}, err
	}
	return toDomainPlan(rec), nil
}

func (r *planRepository) List(ctx context.Context, activeOnly bool) ([]domain.Plan, error) {
	q := r.db.WithContext(ctx).Order("price ASC")
	if activeOnly {
		q = q.Where("active = TRUE")
	}
	var rows []planModel
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Plan, 0, len(rows))
	for _, row := range rows {
		out = append(out, toDomainPlan(row))
	}
	return out, nil
}

type videoRepository struct {
	db *gorm.DB
}

func (r *videoRepository) Create(ctx context.Context, video domain.Video) error {
	rec := videoModel{
		VideoID:         video.VideoID,
		Title:           video.Title,
		Description:     video.Description,
		SourceURL:       video.SourceURL,
		DurationSeconds: video.DurationSeconds,
		Active:          video.Active,
		CreatedAt:       video.CreatedAt,
	}
	return r.db.WithContext(ctx).Create(&rec).Error
}

func (r *videoRepository) GetByID(ctx context.Context, videoID uuid.UUID) (domain.Video, error) {
	var rec videoModel
	if err := r.db.WithContext(ctx).Where("video_id = ?", videoID).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Video{}, domain.ErrNotFound
		}
		return domain.Video{}, err
	}
	return toDomainVideo(rec), nil
}

func (r *videoRepository) List(ctx context.Context, activeOnly bool) ([]domain.Video, error) {
	q := r.db.WithContext(ctx).Order("created_at DESC")
	if activeOnly {
		q = q.Where("active = TRUE")
	}
	var rows []videoModel
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Video, 0, len(rows))
	for _, row := range rows {
		out = append(out, toDomainVideo(row))
	}
	return out, nil
}
