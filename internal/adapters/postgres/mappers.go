package postgres

import (
	"github.com/videarn/ledger-service/internal/domain"
)

func toDomainAccount(rec accountModel) domain.Account {
	code := ""
	if rec.ReferralCode != nil {
		code = *rec.ReferralCode
	}
	return domain.Account{
		AccountID:            rec.AccountID,
		Email:                rec.Email,
		DisplayName:          rec.DisplayName,
		Role:                 rec.Role,
		Banned:               rec.Banned,
		Balance:              rec.Balance,
		ReferralEarnings:     rec.ReferralEarnings,
		ReferralCode:         code,
		ReferredBy:           rec.ReferredBy,
		ActivePlanID:         rec.ActivePlanID,
		PlanActivatedAt:      rec.PlanActivatedAt,
		FirstPlanActivatedAt: rec.FirstPlanActivatedAt,
		LastWithdrawalAt:     rec.LastWithdrawalAt,
		CreatedAt:            rec.CreatedAt,
		UpdatedAt:            rec.UpdatedAt,
	}
}

func toDomainPlan(rec planModel) domain.Plan {
	return domain.Plan{
		PlanID:       rec.PlanID,
		Name:         rec.Name,
		Price:        rec.Price,
		DailyEarning: rec.DailyEarning,
		VideosPerDay: rec.VideosPerDay,
		ValidityDays: rec.ValidityDays,
		Active:       rec.Active,
		CreatedAt:    rec.CreatedAt,
	}
}

func toDomainVideo(rec videoModel) domain.Video {
	return domain.Video{
		VideoID:         rec.VideoID,
		Title:           rec.Title,
		Description:     rec.Description,
		SourceURL:       rec.SourceURL,
		DurationSeconds: rec.DurationSeconds,
		Active:          rec.Active,
		CreatedAt:       rec.CreatedAt,
	}
}

func toDomainWatch(rec watchedVideoModel) domain.WatchedVideo {
	return domain.WatchedVideo{
		WatchID:   rec.WatchID,
		AccountID: rec.AccountID,
		VideoID:   rec.VideoID,
		WatchDay:  rec.WatchDay,
		WatchedAt: rec.WatchedAt,
	}
}

func toDomainClaim(rec dailyClaimModel) domain.DailyClaim {
	return domain.DailyClaim{
		ClaimID:   rec.ClaimID,
		AccountID: rec.AccountID,
		ClaimDay:  rec.ClaimDay,
		Amount:    rec.Amount,
		ClaimedAt: rec.ClaimedAt,
	}
}

func toDomainTransaction(rec transactionModel) domain.Transaction {
	return domain.Transaction{
		TransactionID:    rec.TransactionID,
		AccountID:        rec.AccountID,
		PlanID:           rec.PlanID,
		Amount:           rec.Amount,
		PaymentReference: rec.PaymentReference,
		ProofURL:         rec.ProofURL,
		Status:           domain.TransactionStatus(rec.Status),
		DecidedBy:        rec.DecidedBy,
		DecidedAt:        rec.DecidedAt,
		CreatedAt:        rec.CreatedAt,
	}
}

func toDomainWithdrawal(rec withdrawalModel) domain.Withdrawal {
	return domain.Withdrawal{
		WithdrawalID:      rec.WithdrawalID,
		AccountID:         rec.AccountID,
		Amount:            rec.Amount,
		Method:            rec.Method,
		DestinationNumber: rec.DestinationNumber,
		DestinationName:   rec.DestinationName,
		Status:            domain.WithdrawalStatus(rec.Status),
		DecidedBy:         rec.DecidedBy,
		DecidedAt:         rec.DecidedAt,
		CreatedAt:         rec.CreatedAt,
	}
}
