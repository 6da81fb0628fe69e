package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/credit-service/internal/domain"
	apperrors "github.com/spec-kit/credit-service/pkg/util"
)

// RequireRoles gates a route group behind a closed allow-list of roles. It
// must run after the credential verifier.
func RequireRoles(allowed ...domain.Role) fiber.Handler {
	allowedSet := make(map[domain.Role]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		claims, ok := ClaimsFromContext(c)
		if !ok {
			return apperrors.NewForbidden("ROLE_NOT_ALLOWED", "Você não tem permissão para acessar este recurso")
		}
		if _, exists := allowedSet[claims.Role]; !exists {
			return apperrors.NewForbidden("ROLE_NOT_ALLOWED", "Você não tem permissão para acessar este recurso")
		}
		return c.Next()
	}
}

// AdminOnly admits administrators only.
func AdminOnly() fiber.Handler {
	return RequireRoles(domain.RoleAdmin)
}

// OperatorOnly admits administrators and operators.
func OperatorOnly() fiber.Handler {
	return RequireRoles(domain.RoleAdmin, domain.RoleOperator)
}
