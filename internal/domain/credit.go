package domain

import (
	"time"

	"github.com/spec-kit/credit-service/internal/money"
)

// DistributionStatus tracks whether a distribution still holds credit.
type DistributionStatus string

const (
	DistributionActive    DistributionStatus = "ACTIVE"
	DistributionExhausted DistributionStatus = "EXHAUSTED"
)

// CreditAllocation is a lump of credit purchased by an account holder.
type CreditAllocation struct {
	ID              string
	AccountHolderID string
	Amount          money.Cents
	CreatedAt       time.Time
}

// CreditDistribution is a ledger line assigning part of an allocation to a
// beneficiary. AvailableAmount never goes negative.
type CreditDistribution struct {
	ID              string
	BeneficiaryID   string
	AllocationID    string
	AvailableAmount money.Cents
	Status          DistributionStatus
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
