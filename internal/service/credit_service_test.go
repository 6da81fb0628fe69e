package service

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spec-kit/credit-service/internal/auth"
	"github.com/spec-kit/credit-service/internal/domain"
	"github.com/spec-kit/credit-service/internal/events"
	"github.com/spec-kit/credit-service/internal/money"
	"github.com/spec-kit/credit-service/internal/repository"
	apperrors "github.com/spec-kit/credit-service/pkg/util"
)

type fakeCreditRepo struct {
	distributions []domain.CreditDistribution
	debitErr      error
	debitCalls    int
	allocations   []repository.AllocationParams
}

func (f *fakeCreditRepo) ActiveDistributions(_ context.Context, _ string) ([]domain.CreditDistribution, error) {
	return f.distributions, nil
}

func (f *fakeCreditRepo) Debit(_ context.Context, p repository.DebitParams) (*domain.Transaction, error) {
	f.debitCalls++
	if f.debitErr != nil {
		return nil, f.debitErr
	}
	return &domain.Transaction{
		ID:            "tx-1",
		Type:          domain.TransactionDebit,
		Amount:        p.Amount,
		BeneficiaryID: p.BeneficiaryID,
	}, nil
}

func (f *fakeCreditRepo) Allocate(_ context.Context, p repository.AllocationParams) (*domain.CreditAllocation, error) {
	f.allocations = append(f.allocations, p)
	return &domain.CreditAllocation{
		ID:              "alloc-1",
		AccountHolderID: p.AccountHolderID,
		Amount:          p.Amount,
	}, nil
}

func (f *fakeCreditRepo) GetAllocation(_ context.Context, _ string) (*domain.CreditAllocation, error) {
	return nil, pgx.ErrNoRows
}

type fakeHolderRepo struct {
	holder *domain.AccountHolder
}

func (f *fakeHolderRepo) Create(_ context.Context, _ *domain.AccountHolder) error { return nil }

func (f *fakeHolderRepo) GetByID(_ context.Context, _ string) (*domain.AccountHolder, error) {
	if f.holder == nil {
		return nil, pgx.ErrNoRows
	}
	return f.holder, nil
}

func (f *fakeHolderRepo) GetByUserID(_ context.Context, _ string) (*domain.AccountHolder, error) {
	if f.holder == nil {
		return nil, pgx.ErrNoRows
	}
	return f.holder, nil
}

type fakeTransactionRepo struct{}

func (f *fakeTransactionRepo) GetByID(_ context.Context, _ string) (*domain.Transaction, error) {
	return nil, pgx.ErrNoRows
}

func (f *fakeTransactionRepo) List(_ context.Context, _ repository.TransactionFilter) ([]domain.Transaction, error) {
	return nil, nil
}

func newCreditService(credits *fakeCreditRepo, holders *fakeHolderRepo, dispatcher events.Dispatcher) *CreditService {
	return NewCreditService(CreditDependencies{
		CreditRepo:        credits,
		AccountHolderRepo: holders,
		TransactionRepo:   &fakeTransactionRepo{},
	}, dispatcher, zap.NewNop())
}

func operatorClaims() *auth.Claims {
	return &auth.Claims{UserID: "op-1", Role: domain.RoleOperator}
}

func TestDebitRejectsNonPositiveAmounts(t *testing.T) {
	credits := &fakeCreditRepo{}
	svc := newCreditService(credits, &fakeHolderRepo{}, nil)

	for _, amount := range []money.Cents{0, -100} {
		_, err := svc.Debit(context.Background(), repository.DebitParams{BeneficiaryID: "b1", Amount: amount}, operatorClaims())
		requireDomainError(t, err, "NEGATIVE_AMOUNT")
	}
	require.Zero(t, credits.debitCalls)
}

func TestDebitComposesInsufficientBalanceMessage(t *testing.T) {
	credits := &fakeCreditRepo{
		debitErr: repository.ErrInsufficientBalance,
		distributions: []domain.CreditDistribution{
			{AvailableAmount: 3000, Status: domain.DistributionActive},
		},
	}
	svc := newCreditService(credits, &fakeHolderRepo{}, nil)

	_, err := svc.Debit(context.Background(), repository.DebitParams{BeneficiaryID: "b1", Amount: 5000}, operatorClaims())
	requireDomainError(t, err, "INSUFFICIENT_BALANCE")
	require.Equal(t, "Saldo atual: R$ 30.00. Valor solicitado: R$ 50.00", apperrors.ToDomainError(err).Message)
}

func TestDebitPublishesEvent(t *testing.T) {
	credits := &fakeCreditRepo{}
	dispatcher := events.NewInMemoryDispatcher()

	var published []events.Event
	dispatcher.Subscribe(events.EventCreditDebited, func(_ context.Context, e events.Event) error {
		published = append(published, e)
		return nil
	})

	svc := newCreditService(credits, &fakeHolderRepo{}, dispatcher)
	tx, err := svc.Debit(context.Background(), repository.DebitParams{BeneficiaryID: "b1", Amount: 500}, operatorClaims())
	require.NoError(t, err)
	require.Equal(t, "tx-1", tx.ID)

	require.Len(t, published, 1)
	payload, ok := published[0].Payload.(events.CreditDebitedPayload)
	require.True(t, ok)
	require.Equal(t, "tx-1", payload.TransactionID)
	require.Equal(t, money.Cents(500), payload.Amount)
	require.Equal(t, "op-1", published[0].Actor.UserID)
}

func TestDebitLogsFailedDispatch(t *testing.T) {
	credits := &fakeCreditRepo{}
	dispatcher := events.NewInMemoryDispatcher()
	dispatcher.Subscribe(events.EventCreditDebited, func(_ context.Context, _ events.Event) error {
		return errors.New("smtp unreachable")
	})

	core, logs := observer.New(zap.WarnLevel)
	svc := NewCreditService(CreditDependencies{
		CreditRepo:        credits,
		AccountHolderRepo: &fakeHolderRepo{},
		TransactionRepo:   &fakeTransactionRepo{},
	}, dispatcher, zap.New(core))

	tx, err := svc.Debit(context.Background(), repository.DebitParams{BeneficiaryID: "b1", Amount: 500}, operatorClaims())
	require.NoError(t, err, "a failing handler must not fail the debit")
	require.Equal(t, "tx-1", tx.ID)

	entries := logs.FilterMessage("event dispatch failed").All()
	require.Len(t, entries, 1)
	require.Equal(t, string(events.EventCreditDebited), entries[0].ContextMap()["event_type"])
}

func TestAllocateValidatesShares(t *testing.T) {
	credits := &fakeCreditRepo{}
	svc := newCreditService(credits, &fakeHolderRepo{}, nil)
	claims := &auth.Claims{UserID: "holder-user", Role: domain.RoleAccountHolder}

	_, err := svc.Allocate(context.Background(), AllocateInput{AccountHolderID: "h1", Amount: 0}, claims)
	requireDomainError(t, err, "NEGATIVE_AMOUNT")

	_, err = svc.Allocate(context.Background(), AllocateInput{AccountHolderID: "h1", Amount: 1000}, claims)
	requireDomainError(t, err, "VALIDATION_FAILED")

	_, err = svc.Allocate(context.Background(), AllocateInput{
		AccountHolderID: "h1",
		Amount:          1000,
		Shares: []repository.DistributionShare{
			{BeneficiaryID: "b1", Amount: 400},
			{BeneficiaryID: "b2", Amount: 500},
		},
	}, claims)
	requireDomainError(t, err, "VALIDATION_FAILED")
	require.Equal(t, "A soma das distribuições deve ser igual ao valor alocado", apperrors.ToDomainError(err).Message)
	require.Empty(t, credits.allocations)
}

func TestAllocateResolvesHolderFromActor(t *testing.T) {
	credits := &fakeCreditRepo{}
	holders := &fakeHolderRepo{holder: &domain.AccountHolder{ID: "h9", UserID: "holder-user"}}
	svc := newCreditService(credits, holders, nil)
	claims := &auth.Claims{UserID: "holder-user", Role: domain.RoleAccountHolder}

	allocation, err := svc.Allocate(context.Background(), AllocateInput{
		Amount: 1000,
		Shares: []repository.DistributionShare{{BeneficiaryID: "b1", Amount: 1000}},
	}, claims)
	require.NoError(t, err)
	require.Equal(t, "h9", allocation.AccountHolderID)
	require.Len(t, credits.allocations, 1)
	require.Equal(t, "holder-user", credits.allocations[0].CreatedByID)
}
