package domain

import (
	"time"

	"github.com/spec-kit/credit-service/internal/money"
)

// TransactionType distinguishes debits from credit loads.
type TransactionType string

const (
	TransactionDebit  TransactionType = "DEBIT"
	TransactionCredit TransactionType = "CREDIT"
)

// Transaction records a single movement against a beneficiary balance.
type Transaction struct {
	ID              string
	Type            TransactionType
	Amount          money.Cents
	BeneficiaryID   string
	AccountHolderID string
	CreatedByID     string
	Description     *string
	CreatedAt       time.Time
}
