package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/credit-service/internal/domain"
	"github.com/spec-kit/credit-service/internal/money"
)

// ErrInsufficientBalance is returned when a debit would overdraw the
// beneficiary's active distributions.
var ErrInsufficientBalance = errors.New("insufficient balance")

// DistributionShare assigns part of an allocation to one beneficiary.
type DistributionShare struct {
	BeneficiaryID string
	Amount        money.Cents
}

// AllocationParams describes a credit load.
type AllocationParams struct {
	AccountHolderID string
	CreatedByID     string
	Amount          money.Cents
	Shares          []DistributionShare
}

// DebitParams describes a debit against a beneficiary balance.
type DebitParams struct {
	BeneficiaryID string
	CreatedByID   string
	Amount        money.Cents
	Description   *string
}

// CreditRepository handles the prepaid ledger: allocations, distributions
// and balance movements.
type CreditRepository interface {
	ActiveDistributions(ctx context.Context, beneficiaryID string) ([]domain.CreditDistribution, error)
	Debit(ctx context.Context, p DebitParams) (*domain.Transaction, error)
	Allocate(ctx context.Context, p AllocationParams) (*domain.CreditAllocation, error)
	GetAllocation(ctx context.Context, id string) (*domain.CreditAllocation, error)
}

type creditRepository struct {
	pool *pgxpool.Pool
}

// NewCreditRepository instantiates the repository.
func NewCreditRepository(pool *pgxpool.Pool) CreditRepository {
	return &creditRepository{pool: pool}
}

// ActiveDistributions loads the ACTIVE ledger lines for a beneficiary.
// Returns pgx.ErrNoRows when the beneficiary itself does not exist.
func (r *creditRepository) ActiveDistributions(ctx context.Context, beneficiaryID string) ([]domain.CreditDistribution, error) {
	var exists bool
	if err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM beneficiaries WHERE id=$1)`, beneficiaryID).Scan(&exists); err != nil {
		return nil, err
	}
	if !exists {
		return nil, pgx.ErrNoRows
	}

	const query = `
        SELECT id, beneficiary_id, allocation_id, available_amount, status, created_at, updated_at
        FROM credit_distributions
        WHERE beneficiary_id=$1 AND status='ACTIVE'
        ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query, beneficiaryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var distributions []domain.CreditDistribution
	for rows.Next() {
		var (
			d      domain.CreditDistribution
			amount int64
			status string
		)
		if err := rows.Scan(&d.ID, &d.BeneficiaryID, &d.AllocationID, &amount, &status, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		d.AvailableAmount = money.Cents(amount)
		d.Status = domain.DistributionStatus(status)
		distributions = append(distributions, d)
	}
	return distributions, rows.Err()
}

// Debit consumes active distributions oldest-first inside one transaction.
// The rows are locked and the balance re-checked under the lock, so two
// concurrent debits cannot both pass an almost-empty balance.
func (r *creditRepository) Debit(ctx context.Context, p DebitParams) (*domain.Transaction, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	var accountHolderID string
	if err := tx.QueryRow(ctx,
		`SELECT account_holder_id FROM beneficiaries WHERE id=$1`, p.BeneficiaryID).Scan(&accountHolderID); err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, `
        SELECT id, available_amount
        FROM credit_distributions
        WHERE beneficiary_id=$1 AND status='ACTIVE'
        ORDER BY created_at
        FOR UPDATE`, p.BeneficiaryID)
	if err != nil {
		return nil, err
	}

	type line struct {
		id        string
		available int64
	}
	var (
		lines   []line
		balance int64
	)
	for rows.Next() {
		var l line
		if err := rows.Scan(&l.id, &l.available); err != nil {
			rows.Close()
			return nil, err
		}
		balance += l.available
		lines = append(lines, l)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if balance < int64(p.Amount) {
		return nil, ErrInsufficientBalance
	}

	remaining := int64(p.Amount)
	for _, l := range lines {
		if remaining == 0 {
			break
		}
		take := l.available
		if take > remaining {
			take = remaining
		}
		left := l.available - take
		status := string(domain.DistributionActive)
		if left == 0 {
			status = string(domain.DistributionExhausted)
		}
		if _, err := tx.Exec(ctx, `
            UPDATE credit_distributions
            SET available_amount=$1, status=$2, updated_at=NOW()
            WHERE id=$3`, left, status, l.id); err != nil {
			return nil, err
		}
		remaining -= take
	}

	transaction := &domain.Transaction{
		Type:            domain.TransactionDebit,
		Amount:          p.Amount,
		BeneficiaryID:   p.BeneficiaryID,
		AccountHolderID: accountHolderID,
		CreatedByID:     p.CreatedByID,
		Description:     p.Description,
	}
	if err := tx.QueryRow(ctx, `
        INSERT INTO transactions (type, amount, beneficiary_id, account_holder_id, created_by_id, description)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at`,
		transaction.Type,
		int64(transaction.Amount),
		transaction.BeneficiaryID,
		transaction.AccountHolderID,
		transaction.CreatedByID,
		transaction.Description,
	).Scan(&transaction.ID, &transaction.CreatedAt); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return transaction, nil
}

// Allocate records a credit load and distributes it across beneficiaries,
// emitting one CREDIT transaction per share.
func (r *creditRepository) Allocate(ctx context.Context, p AllocationParams) (*domain.CreditAllocation, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	allocation := &domain.CreditAllocation{
		AccountHolderID: p.AccountHolderID,
		Amount:          p.Amount,
	}
	if err := tx.QueryRow(ctx, `
        INSERT INTO credit_allocations (account_holder_id, amount)
        VALUES ($1,$2)
        RETURNING id, created_at`,
		allocation.AccountHolderID,
		int64(allocation.Amount),
	).Scan(&allocation.ID, &allocation.CreatedAt); err != nil {
		return nil, err
	}

	for _, share := range p.Shares {
		if _, err := tx.Exec(ctx, `
            INSERT INTO credit_distributions (beneficiary_id, allocation_id, available_amount, status)
            VALUES ($1,$2,$3,'ACTIVE')`,
			share.BeneficiaryID, allocation.ID, int64(share.Amount)); err != nil {
			return nil, err
		}
		if _, err := tx.Exec(ctx, `
            INSERT INTO transactions (type, amount, beneficiary_id, account_holder_id, created_by_id)
            VALUES ($1,$2,$3,$4,$5)`,
			domain.TransactionCredit,
			int64(share.Amount),
			share.BeneficiaryID,
			p.AccountHolderID,
			p.CreatedByID); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return allocation, nil
}

func (r *creditRepository) GetAllocation(ctx context.Context, id string) (*domain.CreditAllocation, error) {
	const query = `SELECT id, account_holder_id, amount, created_at FROM credit_allocations WHERE id=$1`

	var (
		allocation domain.CreditAllocation
		amount     int64
	)
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&allocation.ID,
		&allocation.AccountHolderID,
		&amount,
		&allocation.CreatedAt,
	); err != nil {
		return nil, err
	}
	allocation.Amount = money.Cents(amount)
	return &allocation, nil
}
