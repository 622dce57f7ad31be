package domain

const (
	EventAccountRegistered     = "account.registered"
	EventVideoWatchRecorded    = "video.watch_recorded"
	EventClaimPaid             = "claim.paid"
	EventPlanActivated         = "plan.activated"
	EventTransactionRejected   = "transaction.rejected"
	EventReferralBonusCredited = "referral.bonus_credited"
	EventReferralCreditFailed  = "referral.credit_failed"
	EventWithdrawalRequested   = "withdrawal.requested"
	EventWithdrawalApproved    = "withdrawal.approved"
	EventWithdrawalRejected    = "withdrawal.rejected"
	EventAccountBanned         = "account.banned"
	EventAccountUnbanned       = "account.unbanned"
)
