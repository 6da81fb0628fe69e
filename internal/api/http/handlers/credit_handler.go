package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/credit-service/internal/api/dto"
	"github.com/spec-kit/credit-service/internal/auth"
	"github.com/spec-kit/credit-service/internal/repository"
	"github.com/spec-kit/credit-service/internal/service"
	"github.com/spec-kit/credit-service/pkg/util"
)

// CreditHandler exposes the prepaid ledger endpoints.
type CreditHandler struct {
	credits *service.CreditService
}

// NewCreditHandler constructs the handler.
func NewCreditHandler(creditService *service.CreditService) *CreditHandler {
	return &CreditHandler{credits: creditService}
}

// Balance handles GET /api/beneficiaries/:id/balance.
func (h *CreditHandler) Balance(c *fiber.Ctx) error {
	statement, err := h.credits.Balance(c.UserContext(), auth.PathParam(c, "id"))
	if err != nil {
		return err
	}

	return util.OK(c, dto.BalanceResponse{
		BeneficiaryID:  statement.BeneficiaryID,
		CurrentBalance: statement.CurrentBalance,
		Formatted:      statement.CurrentBalance.BRL(),
		Distributions:  len(statement.Distributions),
	})
}

// Debit handles POST /api/beneficiaries/:id/debit. The balance guard has
// already vetted the request shape; the repository re-checks under lock.
func (h *CreditHandler) Debit(c *fiber.Ctx) error {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		return util.NewUnauthorized("IDENTITY_MISSING", "Token de acesso é obrigatório")
	}

	var req dto.DebitRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("Dados inválidos", nil)
	}
	beneficiaryID, err := debitTarget(auth.PathParam(c, "id"), req.BeneficiaryID)
	if err != nil {
		return err
	}

	transaction, err := h.credits.Debit(c.UserContext(), repository.DebitParams{
		BeneficiaryID: beneficiaryID,
		CreatedByID:   claims.UserID,
		Amount:        req.Amount,
		Description:   req.Description,
	}, claims)
	if err != nil {
		return err
	}
	return util.Created(c, dto.FromTransaction(transaction))
}

// debitTarget binds a debit to the beneficiary named by the route, which is
// the one the ownership resolver vetted. The body may restate that id but
// never redirect the debit to another account.
func debitTarget(routeID, bodyID string) (string, error) {
	bodyID = strings.TrimSpace(bodyID)
	if bodyID != "" && bodyID != routeID {
		return "", util.NewValidationError("O beneficiário informado não corresponde ao da rota", nil)
	}
	return routeID, nil
}

// Allocate handles POST /api/credit-allocations.
func (h *CreditHandler) Allocate(c *fiber.Ctx) error {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		return util.NewUnauthorized("IDENTITY_MISSING", "Token de acesso é obrigatório")
	}

	var req dto.AllocateRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("Dados inválidos", nil)
	}

	shares := make([]repository.DistributionShare, 0, len(req.Distributions))
	for _, d := range req.Distributions {
		shares = append(shares, repository.DistributionShare{
			BeneficiaryID: d.BeneficiaryID,
			Amount:        d.Amount,
		})
	}

	allocation, err := h.credits.Allocate(c.UserContext(), service.AllocateInput{
		AccountHolderID: req.AccountHolderID,
		Amount:          req.Amount,
		Shares:          shares,
	}, claims)
	if err != nil {
		return err
	}

	return util.Created(c, fiber.Map{
		"id":              allocation.ID,
		"accountHolderId": allocation.AccountHolderID,
		"amount":          allocation.Amount,
		"createdAt":       allocation.CreatedAt,
	})
}

// GetAllocation handles GET /api/credit-allocations/:id.
func (h *CreditHandler) GetAllocation(c *fiber.Ctx) error {
	allocation, err := h.credits.GetAllocation(c.UserContext(), auth.PathParam(c, "id"))
	if err != nil {
		return err
	}
	return util.OK(c, fiber.Map{
		"id":              allocation.ID,
		"accountHolderId": allocation.AccountHolderID,
		"amount":          allocation.Amount,
		"createdAt":       allocation.CreatedAt,
	})
}
