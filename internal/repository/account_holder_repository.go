package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/credit-service/internal/domain"
)

// AccountHolderRepository defines persistence access for account holders.
type AccountHolderRepository interface {
	Create(ctx context.Context, holder *domain.AccountHolder) error
	GetByID(ctx context.Context, id string) (*domain.AccountHolder, error)
	GetByUserID(ctx context.Context, userID string) (*domain.AccountHolder, error)
}

type accountHolderRepository struct {
	pool *pgxpool.Pool
}

// NewAccountHolderRepository instantiates the repository.
func NewAccountHolderRepository(pool *pgxpool.Pool) AccountHolderRepository {
	return &accountHolderRepository{pool: pool}
}

func (r *accountHolderRepository) Create(ctx context.Context, holder *domain.AccountHolder) error {
	const query = `
        INSERT INTO account_holders (user_id, organization_id)
        VALUES ($1,$2)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query, holder.UserID, holder.OrganizationID).
		Scan(&holder.ID, &holder.CreatedAt, &holder.UpdatedAt)
}

func (r *accountHolderRepository) GetByID(ctx context.Context, id string) (*domain.AccountHolder, error) {
	const query = `
        SELECT id, user_id, organization_id, created_at, updated_at
        FROM account_holders WHERE id=$1`

	var holder domain.AccountHolder
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&holder.ID,
		&holder.UserID,
		&holder.OrganizationID,
		&holder.CreatedAt,
		&holder.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &holder, nil
}

func (r *accountHolderRepository) GetByUserID(ctx context.Context, userID string) (*domain.AccountHolder, error) {
	const query = `
        SELECT id, user_id, organization_id, created_at, updated_at
        FROM account_holders WHERE user_id=$1`

	var holder domain.AccountHolder
	if err := r.pool.QueryRow(ctx, query, userID).Scan(
		&holder.ID,
		&holder.UserID,
		&holder.OrganizationID,
		&holder.CreatedAt,
		&holder.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &holder, nil
}
