package application

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/videarn/ledger-service/internal/contracts"
	"github.com/videarn/ledger-service/internal/domain"
)

// RecordWatch appends one watch fact for today. The (account, video, day)
// unique index makes retries safe: a duplicate attempt fails cleanly with
// ErrAlreadyWatched and writes nothing.
func (s *Service) RecordWatch(ctx context.Context, actor Actor, videoID uuid.UUID) (domain.WatchedVideo, error) {
	account, err := s.accounts.GetByID(ctx, actor.AccountID)
	if err != nil {
		return domain.WatchedVideo{}, err
	}

	plan, err := s.activePlan(ctx, account)
	if err != nil {
		return domain.WatchedVideo{}, err
	}
	now := s.nowFn()
	if !domain.IsPlanActive(account, plan, now) {
		return domain.WatchedVideo{}, domain.ErrPlanNotActive
	}

	video, err := s.videos.GetByID(ctx, videoID)
	if err != nil {
		return domain.WatchedVideo{}, err
	}
	if !video.Active {
		return domain.WatchedVideo{}, domain.ErrNotFound
	}

	watch := domain.WatchedVideo{
		WatchID:   uuid.New(),
		AccountID: account.AccountID,
		VideoID:   video.VideoID,
		WatchDay:  domain.DayKey(now, s.cfg.BusinessTimezone),
		WatchedAt: now,
	}
	event := newOutboxEvent(domain.EventVideoWatchRecorded, account.AccountID.String(), now, contracts.WatchRecordedPayload{
		WatchID:   watch.WatchID.String(),
		AccountID: account.AccountID.String(),
		VideoID:   video.VideoID.String(),
		WatchDay:  watch.WatchDay,
		WatchedAt: now.Format(timeFormat),
	})
	if err := s.watches.Record(ctx, watch, event); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return domain.WatchedVideo{}, domain.ErrAlreadyWatched
		}
		return domain.WatchedVideo{}, err
	}

	s.logger.InfoContext(ctx, "watch recorded",
		"operation", "record_watch",
		"outcome", "success",
		"account_id", account.AccountID,
		"video_id", video.VideoID,
		"watch_day", watch.WatchDay,
	)
	return watch, nil
}

// activePlan loads the plan referenced by the account. Missing reference is
// reported as ErrPlanNotActive rather than ErrNotFound: from the caller's
// point of view the problem is eligibility, not a dangling id.
func (s *Service) activePlan(ctx context.Context, account domain.Account) (domain.Plan, error) {
	if account.ActivePlanID == nil {
		return domain.Plan{}, domain.ErrPlanNotActive
	}
	plan, err := s.plans.GetByID(ctx, *account.ActivePlanID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Plan{}, domain.ErrPlanNotActive
		}
		return domain.Plan{}, err
	}
	return plan, nil
}
