package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/credit-service/internal/auth"
	"github.com/spec-kit/credit-service/internal/repository"
	"github.com/spec-kit/credit-service/pkg/util"
)

// AccountHoldersHandler exposes account holder reads.
type AccountHoldersHandler struct {
	holders       repository.AccountHolderRepository
	beneficiaries repository.BeneficiaryRepository
}

// NewAccountHoldersHandler constructs the handler.
func NewAccountHoldersHandler(holders repository.AccountHolderRepository, beneficiaries repository.BeneficiaryRepository) *AccountHoldersHandler {
	return &AccountHoldersHandler{holders: holders, beneficiaries: beneficiaries}
}

// Get handles GET /api/account-holders/:id.
func (h *AccountHoldersHandler) Get(c *fiber.Ctx) error {
	holder, err := h.holders.GetByID(c.UserContext(), auth.PathParam(c, "id"))
	if err != nil {
		return err
	}
	return util.OK(c, holder)
}

// ListBeneficiaries handles GET /api/account-holders/:id/beneficiaries.
func (h *AccountHoldersHandler) ListBeneficiaries(c *fiber.Ctx) error {
	beneficiaries, err := h.beneficiaries.ListByAccountHolder(c.UserContext(), auth.PathParam(c, "id"))
	if err != nil {
		return err
	}
	return util.OK(c, beneficiaries)
}
