package domain

import "time"

// Beneficiary consumes prepaid credit funded by an account holder.
type Beneficiary struct {
	ID              string
	Name            string
	AccountHolderID string
	UnitID          *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
