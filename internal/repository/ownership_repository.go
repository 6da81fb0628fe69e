package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// OwnershipRepository answers the resolver's per-type ownership predicates.
// Each query proves existence and ownership in one lookup, so a missing
// resource and a foreign one are indistinguishable to the caller.
type OwnershipRepository interface {
	BeneficiaryOwnedBy(ctx context.Context, beneficiaryID, userID string) (bool, error)
	AccountHolderOwnedBy(ctx context.Context, accountHolderID, userID string) (bool, error)
	UnitInOrganization(ctx context.Context, unitID, organizationID string) (bool, error)
	TransactionOwnedBy(ctx context.Context, transactionID, userID string) (bool, error)
	CreditAllocationOwnedBy(ctx context.Context, allocationID, userID string) (bool, error)
}

type ownershipRepository struct {
	pool *pgxpool.Pool
}

// NewOwnershipRepository instantiates the repository.
func NewOwnershipRepository(pool *pgxpool.Pool) OwnershipRepository {
	return &ownershipRepository{pool: pool}
}

// Beneficiaries are owned through their account holder.
func (r *ownershipRepository) BeneficiaryOwnedBy(ctx context.Context, beneficiaryID, userID string) (bool, error) {
	const query = `
        SELECT EXISTS (
            SELECT 1 FROM beneficiaries b
            JOIN account_holders ah ON ah.id = b.account_holder_id
            WHERE b.id=$1 AND ah.user_id=$2)`
	return r.exists(ctx, query, beneficiaryID, userID)
}

func (r *ownershipRepository) AccountHolderOwnedBy(ctx context.Context, accountHolderID, userID string) (bool, error) {
	const query = `
        SELECT EXISTS (
            SELECT 1 FROM account_holders WHERE id=$1 AND user_id=$2)`
	return r.exists(ctx, query, accountHolderID, userID)
}

// Units bind to the caller's organization rather than a single user.
func (r *ownershipRepository) UnitInOrganization(ctx context.Context, unitID, organizationID string) (bool, error) {
	const query = `
        SELECT EXISTS (
            SELECT 1 FROM units WHERE id=$1 AND organization_id=$2)`
	return r.exists(ctx, query, unitID, organizationID)
}

// Transactions are owned by their creator or by the holder of the debited
// account, whichever matches.
func (r *ownershipRepository) TransactionOwnedBy(ctx context.Context, transactionID, userID string) (bool, error) {
	const query = `
        SELECT EXISTS (
            SELECT 1 FROM transactions t
            LEFT JOIN account_holders ah ON ah.id = t.account_holder_id
            WHERE t.id=$1 AND (t.created_by_id=$2 OR ah.user_id=$2))`
	return r.exists(ctx, query, transactionID, userID)
}

func (r *ownershipRepository) CreditAllocationOwnedBy(ctx context.Context, allocationID, userID string) (bool, error) {
	const query = `
        SELECT EXISTS (
            SELECT 1 FROM credit_allocations ca
            JOIN account_holders ah ON ah.id = ca.account_holder_id
            WHERE ca.id=$1 AND ah.user_id=$2)`
	return r.exists(ctx, query, allocationID, userID)
}

func (r *ownershipRepository) exists(ctx context.Context, query string, args ...any) (bool, error) {
	var found bool
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&found); err != nil {
		return false, err
	}
	return found, nil
}
