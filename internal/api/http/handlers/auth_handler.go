package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/credit-service/internal/api/dto"
	"github.com/spec-kit/credit-service/internal/auth"
	"github.com/spec-kit/credit-service/internal/service"
	"github.com/spec-kit/credit-service/pkg/util"
)

// AuthHandler exposes session endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("Dados inválidos", nil)
	}
	if !strings.Contains(req.Email, "@") {
		return util.NewValidationError("Dados inválidos", map[string]any{"email": "Email inválido"})
	}
	if len(req.Password) < 6 {
		return util.NewValidationError("Dados inválidos", map[string]any{"password": "Senha deve ter pelo menos 6 caracteres"})
	}

	user, pair, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return util.OKMessage(c, dto.SessionPayload{
		User:         dto.FromUser(user),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresAt:    pair.AccessExpiresAt,
	}, "Login realizado com sucesso")
}

// Refresh handles POST /api/auth/refresh.
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req dto.RefreshRequest
	if err := c.BodyParser(&req); err != nil || req.RefreshToken == "" {
		return util.NewValidationError("Dados inválidos", nil)
	}

	user, pair, err := h.auth.Refresh(c.UserContext(), req.RefreshToken)
	if err != nil {
		return err
	}

	return util.OKMessage(c, dto.SessionPayload{
		User:         dto.FromUser(user),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresAt:    pair.AccessExpiresAt,
	}, "Token atualizado com sucesso")
}

// Logout handles POST /api/auth/logout.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	var req dto.RefreshRequest
	if err := c.BodyParser(&req); err == nil && req.RefreshToken != "" {
		if err := h.auth.Logout(c.UserContext(), req.RefreshToken); err != nil {
			return err
		}
	}
	return util.OKMessage(c, nil, "Logout realizado com sucesso")
}

// Me handles GET /api/auth/me.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		return util.NewUnauthorized("IDENTITY_MISSING", "Token de acesso é obrigatório")
	}

	user, err := h.auth.Me(c.UserContext(), claims.UserID)
	if err != nil {
		return err
	}
	return util.OK(c, dto.FromUser(user))
}
