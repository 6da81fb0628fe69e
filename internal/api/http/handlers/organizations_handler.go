package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/credit-service/internal/auth"
	"github.com/spec-kit/credit-service/internal/service"
	"github.com/spec-kit/credit-service/pkg/util"
)

// OrganizationsHandler exposes organization and unit administration.
type OrganizationsHandler struct {
	orgs *service.OrgService
}

// NewOrganizationsHandler constructs the handler.
func NewOrganizationsHandler(orgService *service.OrgService) *OrganizationsHandler {
	return &OrganizationsHandler{orgs: orgService}
}

type namedRequest struct {
	Name           string `json:"name"`
	OrganizationID string `json:"organizationId"`
}

// List handles GET /api/organizations.
func (h *OrganizationsHandler) List(c *fiber.Ctx) error {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		return util.NewUnauthorized("IDENTITY_MISSING", "Token de acesso é obrigatório")
	}

	orgs, err := h.orgs.ListOrganizations(c.UserContext(), claims.TenantID)
	if err != nil {
		return err
	}
	return util.OK(c, orgs)
}

// Get handles GET /api/organizations/:id.
func (h *OrganizationsHandler) Get(c *fiber.Ctx) error {
	org, err := h.orgs.GetOrganization(c.UserContext(), auth.PathParam(c, "id"))
	if err != nil {
		return err
	}
	return util.OK(c, org)
}

// Create handles POST /api/organizations.
func (h *OrganizationsHandler) Create(c *fiber.Ctx) error {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		return util.NewUnauthorized("IDENTITY_MISSING", "Token de acesso é obrigatório")
	}

	var req namedRequest
	if err := c.BodyParser(&req); err != nil || req.Name == "" {
		return util.NewValidationError("Nome é obrigatório", nil)
	}

	org, err := h.orgs.CreateOrganization(c.UserContext(), req.Name, claims.TenantID)
	if err != nil {
		return err
	}
	return util.Created(c, org)
}

// Update handles PUT /api/organizations/:id.
func (h *OrganizationsHandler) Update(c *fiber.Ctx) error {
	var req namedRequest
	if err := c.BodyParser(&req); err != nil || req.Name == "" {
		return util.NewValidationError("Nome é obrigatório", nil)
	}

	org, err := h.orgs.UpdateOrganization(c.UserContext(), auth.PathParam(c, "id"), req.Name)
	if err != nil {
		return err
	}
	return util.OK(c, org)
}

// ListUnits handles GET /api/organizations/:id/units.
func (h *OrganizationsHandler) ListUnits(c *fiber.Ctx) error {
	units, err := h.orgs.ListUnits(c.UserContext(), auth.PathParam(c, "id"))
	if err != nil {
		return err
	}
	return util.OK(c, units)
}

// CreateUnit handles POST /api/units.
func (h *OrganizationsHandler) CreateUnit(c *fiber.Ctx) error {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		return util.NewUnauthorized("IDENTITY_MISSING", "Token de acesso é obrigatório")
	}

	var req namedRequest
	if err := c.BodyParser(&req); err != nil || req.Name == "" {
		return util.NewValidationError("Nome é obrigatório", nil)
	}
	organizationID := req.OrganizationID
	if organizationID == "" {
		organizationID = claims.OrganizationID
	}

	unit, err := h.orgs.CreateUnit(c.UserContext(), req.Name, organizationID)
	if err != nil {
		return err
	}
	return util.Created(c, unit)
}

// GetUnit handles GET /api/units/:id.
func (h *OrganizationsHandler) GetUnit(c *fiber.Ctx) error {
	unit, err := h.orgs.GetUnit(c.UserContext(), auth.PathParam(c, "id"))
	if err != nil {
		return err
	}
	return util.OK(c, unit)
}

// UpdateUnit handles PUT /api/units/:id.
func (h *OrganizationsHandler) UpdateUnit(c *fiber.Ctx) error {
	var req namedRequest
	if err := c.BodyParser(&req); err != nil || req.Name == "" {
		return util.NewValidationError("Nome é obrigatório", nil)
	}

	unit, err := h.orgs.UpdateUnit(c.UserContext(), auth.PathParam(c, "id"), req.Name)
	if err != nil {
		return err
	}
	return util.OK(c, unit)
}
