package auth

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/credit-service/internal/domain"
	apperrors "github.com/spec-kit/credit-service/pkg/util"
)

// ResourceType selects the ownership predicate for a guarded route. The set
// is closed: adding a type means adding a case to EnsureOwnership.
type ResourceType string

const (
	ResourceBeneficiary      ResourceType = "beneficiary"
	ResourceAccountHolder    ResourceType = "accountHolder"
	ResourceUnit             ResourceType = "unit"
	ResourceTransaction      ResourceType = "transaction"
	ResourceCreditAllocation ResourceType = "creditAllocation"
)

// Known reports whether the type maps to an ownership predicate.
func (t ResourceType) Known() bool {
	switch t {
	case ResourceBeneficiary, ResourceAccountHolder, ResourceUnit, ResourceTransaction, ResourceCreditAllocation:
		return true
	}
	return false
}

// OwnershipStore answers per-type ownership predicates. Every method returns
// false both when the resource is absent and when it belongs to someone
// else, so callers cannot distinguish the two.
type OwnershipStore interface {
	BeneficiaryOwnedBy(ctx context.Context, beneficiaryID, userID string) (bool, error)
	AccountHolderOwnedBy(ctx context.Context, accountHolderID, userID string) (bool, error)
	UnitInOrganization(ctx context.Context, unitID, organizationID string) (bool, error)
	TransactionOwnedBy(ctx context.Context, transactionID, userID string) (bool, error)
	CreditAllocationOwnedBy(ctx context.Context, allocationID, userID string) (bool, error)
}

// OwnershipConfig tunes an ownership check. The zero value of DenyAdmin
// keeps the default admin bypass.
type OwnershipConfig struct {
	Resource  ResourceType
	IDParam   string // route parameter holding the resource id, default "id"
	DenyAdmin bool   // require ownership proof even from administrators
}

// EnsureOwnership builds a middleware proving the caller owns or administers
// the target resource before any mutation reaches the handler. An unknown
// resource type is a wiring mistake; MustResource catches it at
// route-registration time, and the middleware still answers 400 defensively.
func EnsureOwnership(store OwnershipStore, cfg OwnershipConfig) fiber.Handler {
	idParam := cfg.IDParam
	if idParam == "" {
		idParam = "id"
	}

	return func(c *fiber.Ctx) error {
		claims, ok := ClaimsFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("IDENTITY_MISSING", "Token de acesso é obrigatório")
		}

		if !cfg.DenyAdmin && claims.Role == domain.RoleAdmin {
			return c.Next()
		}

		resourceID := PathParam(c, idParam)

		var (
			owns bool
			err  error
		)
		switch cfg.Resource {
		case ResourceBeneficiary:
			owns, err = store.BeneficiaryOwnedBy(c.UserContext(), resourceID, claims.UserID)
		case ResourceAccountHolder:
			owns, err = store.AccountHolderOwnedBy(c.UserContext(), resourceID, claims.UserID)
		case ResourceUnit:
			owns, err = store.UnitInOrganization(c.UserContext(), resourceID, claims.OrganizationID)
		case ResourceTransaction:
			owns, err = store.TransactionOwnedBy(c.UserContext(), resourceID, claims.UserID)
		case ResourceCreditAllocation:
			owns, err = store.CreditAllocationOwnedBy(c.UserContext(), resourceID, claims.UserID)
		default:
			return apperrors.NewBadRequest("UNSUPPORTED_RESOURCE_TYPE",
				fmt.Sprintf("Tipo de recurso '%s' não é suportado", cfg.Resource))
		}
		if err != nil {
			return apperrors.NewInternalError(err)
		}
		if !owns {
			return apperrors.NewForbidden("OWNERSHIP_DENIED", "Você não tem permissão para acessar este recurso")
		}
		return c.Next()
	}
}

// MustResource panics when the resource type is not part of the closed set.
// Call it while wiring routes so a bad configuration fails at startup
// instead of surfacing as a runtime 400.
func MustResource(t ResourceType) ResourceType {
	if !t.Known() {
		panic(fmt.Sprintf("auth: unsupported ownership resource type %q", t))
	}
	return t
}
