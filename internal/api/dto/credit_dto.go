package dto

import (
	"time"

	"github.com/spec-kit/credit-service/internal/domain"
	"github.com/spec-kit/credit-service/internal/money"
)

// DebitRequest payload for POST /api/beneficiaries/:id/debit.
type DebitRequest struct {
	Amount        money.Cents `json:"amount"`
	BeneficiaryID string      `json:"beneficiaryId"`
	Description   *string     `json:"description"`
}

// ShareRequest assigns part of an allocation to a beneficiary.
type ShareRequest struct {
	BeneficiaryID string      `json:"beneficiaryId"`
	Amount        money.Cents `json:"amount"`
}

// AllocateRequest payload for POST /api/credit-allocations.
type AllocateRequest struct {
	AccountHolderID string         `json:"accountHolderId"`
	Amount          money.Cents    `json:"amount"`
	Distributions   []ShareRequest `json:"distributions"`
}

// TransactionPayload is the API view of a ledger movement.
type TransactionPayload struct {
	ID              string      `json:"id"`
	Type            string      `json:"type"`
	Amount          money.Cents `json:"amount"`
	BeneficiaryID   string      `json:"beneficiaryId"`
	AccountHolderID string      `json:"accountHolderId"`
	CreatedByID     string      `json:"createdById"`
	Description     *string     `json:"description,omitempty"`
	CreatedAt       time.Time   `json:"createdAt"`
}

// FromTransaction maps a domain transaction to its API view.
func FromTransaction(t *domain.Transaction) TransactionPayload {
	return TransactionPayload{
		ID:              t.ID,
		Type:            string(t.Type),
		Amount:          t.Amount,
		BeneficiaryID:   t.BeneficiaryID,
		AccountHolderID: t.AccountHolderID,
		CreatedByID:     t.CreatedByID,
		Description:     t.Description,
		CreatedAt:       t.CreatedAt,
	}
}

// BalanceResponse is the per-beneficiary balance view.
type BalanceResponse struct {
	BeneficiaryID  string      `json:"beneficiaryId"`
	CurrentBalance money.Cents `json:"currentBalance"`
	Formatted      string      `json:"formatted"`
	Distributions  int         `json:"distributions"`
}
