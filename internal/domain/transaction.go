package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type TransactionStatus string

const (
	TransactionStatusPending  TransactionStatus = "pending"
	TransactionStatusApproved TransactionStatus = "approved"
	TransactionStatusRejected TransactionStatus = "rejected"
)

// Transaction is a manually-verified bank-transfer purchase of a plan.
// Status moves from pending to exactly one terminal state; terminal rows are
// never re-mutated. Approval is what activates the plan.
type Transaction struct {
	TransactionID    uuid.UUID         `json:"transaction_id"`
	AccountID        uuid.UUID         `json:"account_id"`
	PlanID           uuid.UUID         `json:"plan_id"`
	Amount           float64           `json:"amount"`
	PaymentReference string            `json:"payment_reference"`
	ProofURL         string            `json:"proof_url"`
	Status           TransactionStatus `json:"status"`
	DecidedBy        *uuid.UUID        `json:"decided_by,omitempty"`
	DecidedAt        *time.Time        `json:"decided_at,omitempty"`
	CreatedAt        time.Time         `json:"created_at"`
}

func (s TransactionStatus) Terminal() bool {
	return s == TransactionStatusApproved || s == TransactionStatusRejected
}

func ValidatePurchaseInput(paymentReference, proofURL string) error {
	if strings.TrimSpace(paymentReference) == "" {
		return ErrInvalidInput
	}
	if strings.TrimSpace(proofURL) == "" {
		return ErrInvalidInput
	}
	return nil
}
