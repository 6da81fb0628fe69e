package repository

import (
	"context"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/credit-service/internal/domain"
	"github.com/spec-kit/credit-service/internal/money"
)

// TransactionFilter narrows transaction listing.
type TransactionFilter struct {
	BeneficiaryID *string
	Type          *domain.TransactionType
	Limit         int
	Offset        int
}

// TransactionRepository reads the movement ledger. Writes happen inside the
// credit repository's transactions.
type TransactionRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Transaction, error)
	List(ctx context.Context, filter TransactionFilter) ([]domain.Transaction, error)
}

type transactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository instantiates the repository.
func NewTransactionRepository(pool *pgxpool.Pool) TransactionRepository {
	return &transactionRepository{pool: pool}
}

const transactionColumns = `id, type, amount, beneficiary_id, account_holder_id, created_by_id, description, created_at`

func (r *transactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	const query = `SELECT ` + transactionColumns + ` FROM transactions WHERE id=$1`
	return scanTransaction(r.pool.QueryRow(ctx, query, id))
}

func (r *transactionRepository) List(ctx context.Context, filter TransactionFilter) ([]domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE 1=1`
	args := []any{}

	if filter.BeneficiaryID != nil {
		args = append(args, *filter.BeneficiaryID)
		query += ` AND beneficiary_id=$1`
	}
	if filter.Type != nil {
		args = append(args, *filter.Type)
		query += ` AND type=$` + itoa(len(args))
	}
	query += ` ORDER BY created_at DESC`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += ` LIMIT $` + itoa(len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += ` OFFSET $` + itoa(len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transactions []domain.Transaction
	for rows.Next() {
		transaction, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, *transaction)
	}
	return transactions, rows.Err()
}

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var (
		transaction domain.Transaction
		txType      string
		amount      int64
	)
	if err := row.Scan(
		&transaction.ID,
		&txType,
		&amount,
		&transaction.BeneficiaryID,
		&transaction.AccountHolderID,
		&transaction.CreatedByID,
		&transaction.Description,
		&transaction.CreatedAt,
	); err != nil {
		return nil, err
	}
	transaction.Type = domain.TransactionType(txType)
	transaction.Amount = money.Cents(amount)
	return &transaction, nil
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
