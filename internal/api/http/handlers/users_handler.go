package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/credit-service/internal/api/dto"
	"github.com/spec-kit/credit-service/internal/auth"
	"github.com/spec-kit/credit-service/internal/domain"
	"github.com/spec-kit/credit-service/internal/service"
	"github.com/spec-kit/credit-service/pkg/util"
)

// UsersHandler exposes identity administration endpoints.
type UsersHandler struct {
	users *service.UserService
}

// NewUsersHandler constructs the handler.
func NewUsersHandler(userService *service.UserService) *UsersHandler {
	return &UsersHandler{users: userService}
}

// List handles GET /api/users.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		return util.NewUnauthorized("IDENTITY_MISSING", "Token de acesso é obrigatório")
	}

	users, err := h.users.List(c.UserContext(), claims.TenantID)
	if err != nil {
		return err
	}

	payload := make([]dto.UserPayload, 0, len(users))
	for i := range users {
		payload = append(payload, dto.FromUser(&users[i]))
	}
	return util.OK(c, payload)
}

// Get handles GET /api/users/:id.
func (h *UsersHandler) Get(c *fiber.Ctx) error {
	user, err := h.users.Get(c.UserContext(), auth.PathParam(c, "id"))
	if err != nil {
		return err
	}
	return util.OK(c, dto.FromUser(user))
}

// Create handles POST /api/users.
func (h *UsersHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("Dados inválidos", nil)
	}
	if req.Name == "" || req.Email == "" || len(req.Password) < 6 {
		return util.NewValidationError("Nome, email e senha (mínimo 6 caracteres) são obrigatórios", nil)
	}

	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		return util.NewUnauthorized("IDENTITY_MISSING", "Token de acesso é obrigatório")
	}
	tenantID := req.TenantID
	if tenantID == "" {
		tenantID = claims.TenantID
	}

	user, err := h.users.Create(c.UserContext(), service.CreateUserInput{
		Name:           req.Name,
		Email:          req.Email,
		Password:       req.Password,
		Role:           domain.Role(req.Role),
		TenantID:       tenantID,
		OrganizationID: req.OrganizationID,
	})
	if err != nil {
		return err
	}
	return util.Created(c, dto.FromUser(user))
}

// Update handles PUT /api/users/:id.
func (h *UsersHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("Dados inválidos", nil)
	}

	user, err := h.users.Update(c.UserContext(), auth.PathParam(c, "id"), service.UpdateUserInput{
		Name:           req.Name,
		Email:          req.Email,
		Role:           domain.Role(req.Role),
		OrganizationID: req.OrganizationID,
		IsActive:       req.IsActive,
	})
	if err != nil {
		return err
	}
	return util.OK(c, dto.FromUser(user))
}

// Delete handles DELETE /api/users/:id. Identities are deactivated, never
// removed.
func (h *UsersHandler) Delete(c *fiber.Ctx) error {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		return util.NewUnauthorized("IDENTITY_MISSING", "Token de acesso é obrigatório")
	}

	if err := h.users.Deactivate(c.UserContext(), auth.PathParam(c, "id"), claims); err != nil {
		return err
	}
	return util.OKMessage(c, nil, "Usuário desativado com sucesso")
}
