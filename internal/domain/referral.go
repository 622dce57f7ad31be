package domain

import (
	"crypto/rand"
	"time"

	"github.com/google/uuid"
)

// ReferralSummary is the read model for the referrals screen.
type ReferralSummary struct {
	ReferralCode     string  `json:"referral_code"`
	ReferredCount    int     `json:"referred_count"`
	ReferralEarnings float64 `json:"referral_earnings"`
}

// ReferralCredit records a bonus paid to a referrer for a referred account's
// first plan activation. One credit per referred account at most.
type ReferralCredit struct {
	ReferrerID    uuid.UUID `json:"referrer_id"`
	ReferredID    uuid.UUID `json:"referred_id"`
	TransactionID uuid.UUID `json:"transaction_id"`
	Amount        float64   `json:"amount"`
	CreditedAt    time.Time `json:"credited_at"`
}

// ReferralEligible reports whether approving a purchase for the account
// should credit a referrer: first-ever plan activation plus a recorded
// referrer. Evaluated against the account state before the approval mutates
// it. Pure.
func ReferralEligible(purchaser Account) bool {
	return !purchaser.HadPlanBefore() && purchaser.ReferredBy != nil
}

const referralCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
const referralCodeLength = 8

// NewReferralCode generates a short shareable code. Ambiguous characters are
// excluded since codes are typed by hand during sign-up.
func NewReferralCode() string {
	buf := make([]byte, referralCodeLength)
	_, _ = rand.Read(buf)
	for i, b := range buf {
		buf[i] = referralCodeAlphabet[int(b)%len(referralCodeAlphabet)]
	}
	return string(buf)
}
