package domain

import "time"

// Role enumerates dashboard access profiles.
type Role string

const (
	RoleAdmin         Role = "Admin"
	RoleAccountHolder Role = "AccountHolder"
	RoleOperator      Role = "Operator"
	RoleBeneficiary   Role = "Beneficiary"
)

// User is the domain model for dashboard identities. Users are never
// deleted, only deactivated.
type User struct {
	ID             string
	Name           string
	Email          string
	PasswordHash   string
	Role           Role
	TenantID       string
	OrganizationID *string
	AvatarURL      *string
	IsActive       bool
	LastLogin      *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
