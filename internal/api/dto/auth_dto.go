package dto

import (
	"time"

	"github.com/spec-kit/credit-service/internal/domain"
)

// LoginRequest payload for POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshRequest payload carrying the refresh token.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// UserPayload is the identity view returned to the dashboard.
type UserPayload struct {
	ID             string      `json:"id"`
	Name           string      `json:"name"`
	Email          string      `json:"email"`
	Role           domain.Role `json:"role"`
	TenantID       string      `json:"tenantId"`
	OrganizationID string      `json:"organizationId"`
	AvatarURL      *string     `json:"avatarUrl,omitempty"`
	IsActive       bool        `json:"isActive"`
	LastLogin      *time.Time  `json:"lastLogin,omitempty"`
	CreatedAt      time.Time   `json:"createdAt"`
}

// FromUser maps a domain user to its API view. The password hash never
// leaves the service.
func FromUser(user *domain.User) UserPayload {
	orgID := ""
	if user.OrganizationID != nil {
		orgID = *user.OrganizationID
	}
	return UserPayload{
		ID:             user.ID,
		Name:           user.Name,
		Email:          user.Email,
		Role:           user.Role,
		TenantID:       user.TenantID,
		OrganizationID: orgID,
		AvatarURL:      user.AvatarURL,
		IsActive:       user.IsActive,
		LastLogin:      user.LastLogin,
		CreatedAt:      user.CreatedAt,
	}
}

// SessionPayload is the token pair returned on login and refresh.
type SessionPayload struct {
	User         UserPayload `json:"user"`
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"refreshToken"`
	ExpiresAt    time.Time   `json:"expiresAt"`
}
