package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/credit-service/internal/domain"
	"github.com/spec-kit/credit-service/internal/money"
	apperrors "github.com/spec-kit/credit-service/pkg/util"
)

// BalanceStore loads the active credit distributions of a beneficiary. It
// must return pgx.ErrNoRows when the beneficiary itself does not exist.
type BalanceStore interface {
	ActiveDistributions(ctx context.Context, beneficiaryID string) ([]domain.CreditDistribution, error)
}

type debitPayload struct {
	Amount        *money.Cents `json:"amount"`
	BeneficiaryID string       `json:"beneficiaryId"`
}

// EnsurePositiveBalance rejects debits that would push a beneficiary balance
// below zero. The check is advisory: the authoritative guard is the
// conditional update inside the repository debit transaction, so a race
// between concurrent debits still cannot overdraw the ledger.
func EnsurePositiveBalance(store BalanceStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var payload debitPayload
		if err := json.Unmarshal(c.Body(), &payload); err != nil {
			// Not a recognized debit shape; the handler validates the body.
			return c.Next()
		}

		if payload.Amount != nil && *payload.Amount < 0 {
			return apperrors.NewBadRequest("NEGATIVE_AMOUNT", "O valor não pode ser negativo")
		}

		// The ownership resolver vetted the route id, so the guard binds
		// to it. A body id never redirects the check to another account.
		beneficiaryID := PathParam(c, "id")
		if beneficiaryID == "" {
			beneficiaryID = strings.TrimSpace(payload.BeneficiaryID)
		}

		if beneficiaryID == "" || payload.Amount == nil ||
			c.Method() != fiber.MethodPost || !strings.Contains(c.Path(), "/debit") {
			return c.Next()
		}

		distributions, err := store.ActiveDistributions(c.UserContext(), beneficiaryID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NewNotFound("BENEFICIARY_NOT_FOUND", "Beneficiário não existe")
			}
			return apperrors.NewInternalError(err)
		}

		currentBalance := money.Sum(distributions, func(d domain.CreditDistribution) money.Cents {
			return d.AvailableAmount
		})
		if currentBalance < *payload.Amount {
			return apperrors.NewBadRequest("INSUFFICIENT_BALANCE",
				fmt.Sprintf("Saldo atual: %s. Valor solicitado: %s", currentBalance.BRL(), payload.Amount.BRL()))
		}

		return c.Next()
	}
}
