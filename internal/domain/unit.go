package domain

import "time"

// Unit is a canteen location belonging to an organization.
type Unit struct {
	ID             string
	Name           string
	OrganizationID string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
