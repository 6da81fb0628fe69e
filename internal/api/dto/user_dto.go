package dto

// CreateUserRequest payload for new identities.
type CreateUserRequest struct {
	Name           string  `json:"name"`
	Email          string  `json:"email"`
	Password       string  `json:"password"`
	Role           string  `json:"role"`
	TenantID       string  `json:"tenantId"`
	OrganizationID *string `json:"organizationId"`
}

// UpdateUserRequest payload for identity updates.
type UpdateUserRequest struct {
	Name           string  `json:"name"`
	Email          string  `json:"email"`
	Role           string  `json:"role"`
	OrganizationID *string `json:"organizationId"`
	IsActive       *bool   `json:"isActive"`
}
