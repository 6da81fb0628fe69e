package domain

import "time"

// AccountHolder links a user to the organization whose credits they fund.
type AccountHolder struct {
	ID             string
	UserID         string
	OrganizationID string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
