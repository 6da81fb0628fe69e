package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/credit-service/internal/domain"
)

// BeneficiaryRepository defines persistence access for beneficiaries.
type BeneficiaryRepository interface {
	Create(ctx context.Context, beneficiary *domain.Beneficiary) error
	Update(ctx context.Context, beneficiary *domain.Beneficiary) error
	GetByID(ctx context.Context, id string) (*domain.Beneficiary, error)
	ListByAccountHolder(ctx context.Context, accountHolderID string) ([]domain.Beneficiary, error)
}

type beneficiaryRepository struct {
	pool *pgxpool.Pool
}

// NewBeneficiaryRepository instantiates the repository.
func NewBeneficiaryRepository(pool *pgxpool.Pool) BeneficiaryRepository {
	return &beneficiaryRepository{pool: pool}
}

func (r *beneficiaryRepository) Create(ctx context.Context, beneficiary *domain.Beneficiary) error {
	const query = `
        INSERT INTO beneficiaries (name, account_holder_id, unit_id)
        VALUES ($1,$2,$3)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		beneficiary.Name,
		beneficiary.AccountHolderID,
		beneficiary.UnitID,
	).Scan(&beneficiary.ID, &beneficiary.CreatedAt, &beneficiary.UpdatedAt)
}

func (r *beneficiaryRepository) Update(ctx context.Context, beneficiary *domain.Beneficiary) error {
	const query = `
        UPDATE beneficiaries SET name=$1, unit_id=$2, updated_at=NOW()
        WHERE id=$3`

	cmd, err := r.pool.Exec(ctx, query, beneficiary.Name, beneficiary.UnitID, beneficiary.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *beneficiaryRepository) GetByID(ctx context.Context, id string) (*domain.Beneficiary, error) {
	const query = `
        SELECT id, name, account_holder_id, unit_id, created_at, updated_at
        FROM beneficiaries WHERE id=$1`

	var beneficiary domain.Beneficiary
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&beneficiary.ID,
		&beneficiary.Name,
		&beneficiary.AccountHolderID,
		&beneficiary.UnitID,
		&beneficiary.CreatedAt,
		&beneficiary.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &beneficiary, nil
}

func (r *beneficiaryRepository) ListByAccountHolder(ctx context.Context, accountHolderID string) ([]domain.Beneficiary, error) {
	const query = `
        SELECT id, name, account_holder_id, unit_id, created_at, updated_at
        FROM beneficiaries WHERE account_holder_id=$1 ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query, accountHolderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var beneficiaries []domain.Beneficiary
	for rows.Next() {
		var b domain.Beneficiary
		if err := rows.Scan(&b.ID, &b.Name, &b.AccountHolderID, &b.UnitID, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		beneficiaries = append(beneficiaries, b)
	}
	return beneficiaries, rows.Err()
}
