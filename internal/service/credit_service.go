package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/credit-service/internal/auth"
	"github.com/spec-kit/credit-service/internal/domain"
	"github.com/spec-kit/credit-service/internal/events"
	"github.com/spec-kit/credit-service/internal/money"
	"github.com/spec-kit/credit-service/internal/repository"
	apperrors "github.com/spec-kit/credit-service/pkg/util"
)

// CreditService coordinates the prepaid ledger: balances, debits and
// allocations.
type CreditService struct {
	credits      repository.CreditRepository
	holders      repository.AccountHolderRepository
	transactions repository.TransactionRepository
	dispatcher   events.Dispatcher
	logger       *zap.Logger
}

// CreditDependencies encapsulates repo requirements for the credit service.
type CreditDependencies struct {
	CreditRepo        repository.CreditRepository
	AccountHolderRepo repository.AccountHolderRepository
	TransactionRepo   repository.TransactionRepository
}

// NewCreditService builds the service.
func NewCreditService(deps CreditDependencies, dispatcher events.Dispatcher, logger *zap.Logger) *CreditService {
	return &CreditService{
		credits:      deps.CreditRepo,
		holders:      deps.AccountHolderRepo,
		transactions: deps.TransactionRepo,
		dispatcher:   dispatcher,
		logger:       logger,
	}
}

// publish dispatches an event without failing the ledger operation that
// produced it. Handler errors are logged, never surfaced to the client.
func (s *CreditService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event dispatch failed",
			zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}

// BalanceStatement is the per-beneficiary view of remaining credit.
type BalanceStatement struct {
	BeneficiaryID  string
	CurrentBalance money.Cents
	Distributions  []domain.CreditDistribution
}

// Balance sums the beneficiary's active distributions exactly.
func (s *CreditService) Balance(ctx context.Context, beneficiaryID string) (*BalanceStatement, error) {
	distributions, err := s.credits.ActiveDistributions(ctx, beneficiaryID)
	if err != nil {
		return nil, err
	}
	return &BalanceStatement{
		BeneficiaryID: beneficiaryID,
		CurrentBalance: money.Sum(distributions, func(d domain.CreditDistribution) money.Cents {
			return d.AvailableAmount
		}),
		Distributions: distributions,
	}, nil
}

// Debit spends credit from a beneficiary balance. The repository performs
// the balance assertion under row locks; when it refuses, the statement is
// re-read only to compose the user-facing message.
func (s *CreditService) Debit(ctx context.Context, p repository.DebitParams, actor *auth.Claims) (*domain.Transaction, error) {
	if p.Amount <= 0 {
		return nil, apperrors.NewBadRequest("NEGATIVE_AMOUNT", "O valor não pode ser negativo")
	}

	transaction, err := s.credits.Debit(ctx, p)
	if err != nil {
		if errors.Is(err, repository.ErrInsufficientBalance) {
			statement, balErr := s.Balance(ctx, p.BeneficiaryID)
			if balErr != nil {
				return nil, balErr
			}
			return nil, apperrors.NewBadRequest("INSUFFICIENT_BALANCE",
				fmt.Sprintf("Saldo atual: %s. Valor solicitado: %s", statement.CurrentBalance.BRL(), p.Amount.BRL()))
		}
		return nil, err
	}

	s.publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventCreditDebited,
		Actor:     events.Actor{UserID: actor.UserID, Role: actor.Role},
		Timestamp: time.Now(),
		Payload: events.CreditDebitedPayload{
			TransactionID: transaction.ID,
			BeneficiaryID: transaction.BeneficiaryID,
			Amount:        transaction.Amount,
		},
	})
	return transaction, nil
}

// AllocateInput describes a credit load request.
type AllocateInput struct {
	AccountHolderID string
	Amount          money.Cents
	Shares          []repository.DistributionShare
}

// Allocate loads credit onto an account holder and distributes it. The
// shares must add up to the allocated amount exactly.
func (s *CreditService) Allocate(ctx context.Context, input AllocateInput, actor *auth.Claims) (*domain.CreditAllocation, error) {
	if input.Amount <= 0 {
		return nil, apperrors.NewBadRequest("NEGATIVE_AMOUNT", "O valor não pode ser negativo")
	}
	if len(input.Shares) == 0 {
		return nil, apperrors.NewValidationError("Informe pelo menos um beneficiário", nil)
	}

	total := money.Sum(input.Shares, func(share repository.DistributionShare) money.Cents {
		return share.Amount
	})
	if total != input.Amount {
		return nil, apperrors.NewValidationError("A soma das distribuições deve ser igual ao valor alocado",
			map[string]any{"amount": input.Amount.String(), "distributed": total.String()})
	}
	for _, share := range input.Shares {
		if share.Amount <= 0 {
			return nil, apperrors.NewBadRequest("NEGATIVE_AMOUNT", "O valor não pode ser negativo")
		}
	}

	holderID := input.AccountHolderID
	if holderID == "" {
		holder, err := s.holders.GetByUserID(ctx, actor.UserID)
		if err != nil {
			return nil, err
		}
		holderID = holder.ID
	}

	allocation, err := s.credits.Allocate(ctx, repository.AllocationParams{
		AccountHolderID: holderID,
		CreatedByID:     actor.UserID,
		Amount:          input.Amount,
		Shares:          input.Shares,
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventCreditAllocated,
		Actor:     events.Actor{UserID: actor.UserID, Role: actor.Role},
		Timestamp: time.Now(),
		Payload: events.CreditAllocatedPayload{
			AllocationID:    allocation.ID,
			AccountHolderID: allocation.AccountHolderID,
			Amount:          allocation.Amount,
			Beneficiaries:   len(input.Shares),
		},
	})
	return allocation, nil
}

// GetAllocation loads one allocation.
func (s *CreditService) GetAllocation(ctx context.Context, id string) (*domain.CreditAllocation, error) {
	return s.credits.GetAllocation(ctx, id)
}

// GetTransaction loads one ledger movement.
func (s *CreditService) GetTransaction(ctx context.Context, id string) (*domain.Transaction, error) {
	return s.transactions.GetByID(ctx, id)
}

// ListTransactions lists ledger movements.
func (s *CreditService) ListTransactions(ctx context.Context, filter repository.TransactionFilter) ([]domain.Transaction, error) {
	return s.transactions.List(ctx, filter)
}
