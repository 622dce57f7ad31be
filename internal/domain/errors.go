package domain

import "errors"

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrNotFound           = errors.New("not found")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrConflict           = errors.New("conflict")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountBanned      = errors.New("account banned")

	ErrPlanNotActive           = errors.New("no active plan")
	ErrQuotaNotMet             = errors.New("daily watch quota not met")
	ErrAlreadyWatched          = errors.New("video already watched today")
	ErrAlreadyClaimed          = errors.New("daily reward already claimed")
	ErrInsufficientBalance     = errors.New("insufficient balance")
	ErrWithdrawalLocked        = errors.New("withdrawal already made this week")
	ErrPendingWithdrawalExists = errors.New("a withdrawal is already pending")
	ErrBelowMinimumWithdrawal  = errors.New("amount below minimum withdrawal")
	ErrTransactionNotPending   = errors.New("transaction is not pending")
	ErrWithdrawalNotPending    = errors.New("withdrawal is not pending")
	ErrReferralCodeNotFound    = errors.New("referral code not found")
	ErrPlanNotPurchasable      = errors.New("plan is not available for purchase")
)
