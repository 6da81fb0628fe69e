package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/credit-service/internal/domain"
	"github.com/spec-kit/credit-service/internal/money"
)

type fakeBalanceStore struct {
	distributions []domain.CreditDistribution
	err           error
	calls         int
	lastID        string
	lastCtx       context.Context
}

func (f *fakeBalanceStore) ActiveDistributions(ctx context.Context, beneficiaryID string) ([]domain.CreditDistribution, error) {
	f.calls++
	f.lastID = beneficiaryID
	f.lastCtx = ctx
	return f.distributions, f.err
}

func balanceApp(store BalanceStore) *fiber.App {
	app := newTestApp()
	app.Post("/beneficiaries/:id/debit", EnsurePositiveBalance(store), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusOK)
	})
	app.Post("/beneficiaries", EnsurePositiveBalance(store), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusCreated)
	})
	return app
}

func debitRequest(target, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return req
}

func distributions(amounts ...money.Cents) []domain.CreditDistribution {
	out := make([]domain.CreditDistribution, 0, len(amounts))
	for _, a := range amounts {
		out = append(out, domain.CreditDistribution{AvailableAmount: a, Status: domain.DistributionActive})
	}
	return out
}

func TestBalanceGuardSufficientFunds(t *testing.T) {
	store := &fakeBalanceStore{distributions: distributions(2000, 3000)}
	app := balanceApp(store)

	resp, err := app.Test(debitRequest("/beneficiaries/b1/debit", `{"amount": 50.00, "beneficiaryId": "b1"}`))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode, "debit equal to the balance must pass")
	require.Equal(t, 1, store.calls)
}

func TestBalanceGuardInsufficientFunds(t *testing.T) {
	store := &fakeBalanceStore{distributions: distributions(1000, 2000)}
	app := balanceApp(store)

	resp, err := app.Test(debitRequest("/beneficiaries/b1/debit", `{"amount": 50.00, "beneficiaryId": "b1"}`))
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	code, message := decodeError(t, resp)
	require.Equal(t, "INSUFFICIENT_BALANCE", code)
	require.Equal(t, "Saldo atual: R$ 30.00. Valor solicitado: R$ 50.00", message)
}

func TestBalanceGuardOneCentShort(t *testing.T) {
	store := &fakeBalanceStore{distributions: distributions(4999)}
	app := balanceApp(store)

	resp, err := app.Test(debitRequest("/beneficiaries/b1/debit", `{"amount": 50.00, "beneficiaryId": "b1"}`))
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	code, _ := decodeError(t, resp)
	require.Equal(t, "INSUFFICIENT_BALANCE", code)
}

func TestBalanceGuardNegativeAmount(t *testing.T) {
	store := &fakeBalanceStore{}
	app := balanceApp(store)

	resp, err := app.Test(debitRequest("/beneficiaries/b1/debit", `{"amount": -10.00, "beneficiaryId": "b1"}`))
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	code, message := decodeError(t, resp)
	require.Equal(t, "NEGATIVE_AMOUNT", code)
	require.Equal(t, "O valor não pode ser negativo", message)
	require.Zero(t, store.calls)
}

func TestBalanceGuardBeneficiaryNotFound(t *testing.T) {
	store := &fakeBalanceStore{err: pgx.ErrNoRows}
	app := balanceApp(store)

	resp, err := app.Test(debitRequest("/beneficiaries/ghost/debit", `{"amount": 10.00, "beneficiaryId": "ghost"}`))
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	code, message := decodeError(t, resp)
	require.Equal(t, "BENEFICIARY_NOT_FOUND", code)
	require.Equal(t, "Beneficiário não existe", message)
}

func TestBalanceGuardBindsRouteBeneficiary(t *testing.T) {
	store := &fakeBalanceStore{distributions: distributions(10000)}
	app := balanceApp(store)

	resp, err := app.Test(debitRequest("/beneficiaries/b1/debit", `{"amount": 10.00, "beneficiaryId": "b2"}`))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, 1, store.calls)
	require.Equal(t, "b1", store.lastID, "the balance read must target the account named by the route")
}

func TestBalanceGuardUsesRequestContext(t *testing.T) {
	store := &fakeBalanceStore{distributions: distributions(10000)}
	app := newTestApp()
	app.Post("/beneficiaries/:id/debit", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), time.Minute)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}, EnsurePositiveBalance(store), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusOK)
	})

	resp, err := app.Test(debitRequest("/beneficiaries/b1/debit", `{"amount": 10.00}`))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotNil(t, store.lastCtx)
	_, hasDeadline := store.lastCtx.Deadline()
	require.True(t, hasDeadline, "the store context must carry the request deadline")
}

func TestBalanceGuardIgnoresNonDebitShapes(t *testing.T) {
	store := &fakeBalanceStore{}
	app := balanceApp(store)

	cases := []struct {
		name   string
		target string
		body   string
		status int
	}{
		{name: "different route", target: "/beneficiaries", body: `{"amount": 10.00, "beneficiaryId": "b1"}`, status: http.StatusCreated},
		{name: "missing amount", target: "/beneficiaries/b1/debit", body: `{"beneficiaryId": "b1"}`, status: http.StatusOK},
		{name: "no beneficiary anywhere", target: "/beneficiaries", body: `{"amount": 10.00}`, status: http.StatusCreated},
		{name: "malformed body", target: "/beneficiaries/b1/debit", body: `{"amount": `, status: http.StatusOK},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := app.Test(debitRequest(tc.target, tc.body))
			require.NoError(t, err)
			require.Equal(t, tc.status, resp.StatusCode)
		})
	}
	require.Zero(t, store.calls)
}
