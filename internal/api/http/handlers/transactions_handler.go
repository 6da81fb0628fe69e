package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/credit-service/internal/api/dto"
	"github.com/spec-kit/credit-service/internal/auth"
	"github.com/spec-kit/credit-service/internal/domain"
	"github.com/spec-kit/credit-service/internal/repository"
	"github.com/spec-kit/credit-service/internal/service"
	"github.com/spec-kit/credit-service/pkg/util"
)

// TransactionsHandler exposes read access to the movement ledger.
type TransactionsHandler struct {
	credits *service.CreditService
}

// NewTransactionsHandler constructs the handler.
func NewTransactionsHandler(creditService *service.CreditService) *TransactionsHandler {
	return &TransactionsHandler{credits: creditService}
}

// Get handles GET /api/transactions/:id.
func (h *TransactionsHandler) Get(c *fiber.Ctx) error {
	transaction, err := h.credits.GetTransaction(c.UserContext(), auth.PathParam(c, "id"))
	if err != nil {
		return err
	}
	return util.OK(c, dto.FromTransaction(transaction))
}

// List handles GET /api/transactions.
func (h *TransactionsHandler) List(c *fiber.Ctx) error {
	filter := repository.TransactionFilter{
		Limit:  c.QueryInt("limit", 50),
		Offset: c.QueryInt("offset", 0),
	}
	if beneficiaryID := c.Query("beneficiaryId"); beneficiaryID != "" {
		filter.BeneficiaryID = &beneficiaryID
	}
	if txType := c.Query("type"); txType != "" {
		t := domain.TransactionType(txType)
		filter.Type = &t
	}

	transactions, err := h.credits.ListTransactions(c.UserContext(), filter)
	if err != nil {
		return err
	}

	payload := make([]dto.TransactionPayload, 0, len(transactions))
	for i := range transactions {
		payload = append(payload, dto.FromTransaction(&transactions[i]))
	}
	return util.OK(c, payload)
}
