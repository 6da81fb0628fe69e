package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/credit-service/internal/domain"
)

func withClaims(claims *Claims) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(claimsKey, claims)
		return c.Next()
	}
}

func TestRequireRoles(t *testing.T) {
	cases := []struct {
		name       string
		role       domain.Role
		allowed    []domain.Role
		wantStatus int
	}{
		{name: "allowed role", role: domain.RoleOperator, allowed: []domain.Role{domain.RoleAdmin, domain.RoleOperator}, wantStatus: http.StatusOK},
		{name: "denied role", role: domain.RoleBeneficiary, allowed: []domain.Role{domain.RoleAdmin}, wantStatus: http.StatusForbidden},
		{name: "empty allow list denies everyone", role: domain.RoleAdmin, allowed: nil, wantStatus: http.StatusForbidden},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := newTestApp()
			app.Get("/gated", withClaims(&Claims{UserID: "u1", Role: tc.role}), RequireRoles(tc.allowed...), func(c *fiber.Ctx) error {
				return c.SendStatus(http.StatusOK)
			})

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/gated", nil))
			require.NoError(t, err)
			require.Equal(t, tc.wantStatus, resp.StatusCode)

			if tc.wantStatus == http.StatusForbidden {
				code, message := decodeError(t, resp)
				require.Equal(t, "ROLE_NOT_ALLOWED", code)
				require.Equal(t, "Você não tem permissão para acessar este recurso", message)
			}
		})
	}
}

func TestRequireRolesWithoutClaims(t *testing.T) {
	app := newTestApp()
	app.Get("/gated", RequireRoles(domain.RoleAdmin), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/gated", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestRoleShortcuts(t *testing.T) {
	run := func(handler fiber.Handler, role domain.Role) int {
		app := newTestApp()
		app.Get("/gated", withClaims(&Claims{UserID: "u1", Role: role}), handler, func(c *fiber.Ctx) error {
			return c.SendStatus(http.StatusOK)
		})
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/gated", nil))
		require.NoError(t, err)
		return resp.StatusCode
	}

	require.Equal(t, http.StatusOK, run(AdminOnly(), domain.RoleAdmin))
	require.Equal(t, http.StatusForbidden, run(AdminOnly(), domain.RoleOperator))
	require.Equal(t, http.StatusOK, run(OperatorOnly(), domain.RoleAdmin))
	require.Equal(t, http.StatusOK, run(OperatorOnly(), domain.RoleOperator))
	require.Equal(t, http.StatusForbidden, run(OperatorOnly(), domain.RoleAccountHolder))
}
