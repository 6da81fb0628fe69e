package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/credit-service/internal/auth"
	"github.com/spec-kit/credit-service/internal/config"
	"github.com/spec-kit/credit-service/internal/domain"
	"github.com/spec-kit/credit-service/internal/events"
	"github.com/spec-kit/credit-service/internal/repository"
	apperrors "github.com/spec-kit/credit-service/pkg/util"
)

// UserService handles administration of dashboard identities.
type UserService struct {
	users      repository.UserRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
	bcryptCost int
}

// NewUserService builds the service.
func NewUserService(cfg config.Config, users repository.UserRepository, dispatcher events.Dispatcher, logger *zap.Logger) *UserService {
	return &UserService{
		users:      users,
		dispatcher: dispatcher,
		logger:     logger,
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// CreateUserInput carries the fields an admin supplies for a new identity.
type CreateUserInput struct {
	Name           string
	Email          string
	Password       string
	Role           domain.Role
	TenantID       string
	OrganizationID *string
}

// UpdateUserInput carries mutable identity fields.
type UpdateUserInput struct {
	Name           string
	Email          string
	Role           domain.Role
	OrganizationID *string
	IsActive       *bool
}

// List returns all identities of a tenant.
func (s *UserService) List(ctx context.Context, tenantID string) ([]domain.User, error) {
	return s.users.List(ctx, tenantID)
}

// Get loads one identity.
func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}

// Create registers a new identity with a hashed password.
func (s *UserService) Create(ctx context.Context, input CreateUserInput) (*domain.User, error) {
	if !validRole(input.Role) {
		return nil, apperrors.NewValidationError("Perfil de acesso inválido", map[string]any{"role": input.Role})
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Name:           input.Name,
		Email:          input.Email,
		PasswordHash:   hash,
		Role:           input.Role,
		TenantID:       input.TenantID,
		OrganizationID: input.OrganizationID,
		IsActive:       true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Update mutates profile fields. A password change goes through Create-time
// hashing rules elsewhere; this path never touches the hash.
func (s *UserService) Update(ctx context.Context, id string, input UpdateUserInput) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != "" {
		user.Name = input.Name
	}
	if input.Email != "" {
		user.Email = input.Email
	}
	if input.Role != "" {
		if !validRole(input.Role) {
			return nil, apperrors.NewValidationError("Perfil de acesso inválido", map[string]any{"role": input.Role})
		}
		user.Role = input.Role
	}
	if input.OrganizationID != nil {
		user.OrganizationID = input.OrganizationID
	}
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Deactivate disables an identity instead of deleting it, so authenticated
// sessions die on the next credential check.
func (s *UserService) Deactivate(ctx context.Context, id string, actor *auth.Claims) error {
	if err := s.users.Deactivate(ctx, id); err != nil {
		return err
	}

	if s.dispatcher != nil {
		if err := s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventUserDeactivated,
			Actor:     events.Actor{UserID: actor.UserID, Role: actor.Role},
			Timestamp: time.Now(),
			Payload:   events.UserDeactivatedPayload{UserID: id},
		}); err != nil {
			s.logger.Warn("event dispatch failed",
				zap.String("event_type", string(events.EventUserDeactivated)), zap.Error(err))
		}
	}
	return nil
}

func validRole(role domain.Role) bool {
	switch role {
	case domain.RoleAdmin, domain.RoleAccountHolder, domain.RoleOperator, domain.RoleBeneficiary:
		return true
	}
	return false
}
