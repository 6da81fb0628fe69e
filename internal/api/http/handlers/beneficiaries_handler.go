package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/credit-service/internal/auth"
	"github.com/spec-kit/credit-service/internal/repository"
	"github.com/spec-kit/credit-service/pkg/util"
)

// BeneficiariesHandler exposes beneficiary reads.
type BeneficiariesHandler struct {
	beneficiaries repository.BeneficiaryRepository
}

// NewBeneficiariesHandler constructs the handler.
func NewBeneficiariesHandler(beneficiaries repository.BeneficiaryRepository) *BeneficiariesHandler {
	return &BeneficiariesHandler{beneficiaries: beneficiaries}
}

// Get handles GET /api/beneficiaries/:id.
func (h *BeneficiariesHandler) Get(c *fiber.Ctx) error {
	beneficiary, err := h.beneficiaries.GetByID(c.UserContext(), auth.PathParam(c, "id"))
	if err != nil {
		return err
	}
	return util.OK(c, beneficiary)
}
