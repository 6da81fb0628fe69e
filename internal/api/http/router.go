package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/credit-service/internal/api/http/handlers"
	"github.com/spec-kit/credit-service/internal/auth"
	"github.com/spec-kit/credit-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Users          *handlers.UsersHandler
	Organizations  *handlers.OrganizationsHandler
	AccountHolders *handlers.AccountHoldersHandler
	Beneficiaries  *handlers.BeneficiariesHandler
	Credits        *handlers.CreditHandler
	Transactions   *handlers.TransactionsHandler

	AuthMiddleware *auth.Middleware
	Ownership      auth.OwnershipStore
	Balance        auth.BalanceStore
}

// RegisterRoutes wires HTTP routes. Guarded routes run the pipeline in
// order: credential verifier, role gate, ownership resolver, balance guard.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health", cfg.Health.Status)
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/health/metrics", cfg.Health.Metrics)

	api := app.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/logout", cfg.Auth.Logout)
	authGroup.Post("/refresh", cfg.Auth.Refresh)
	authGroup.Get("/me", cfg.AuthMiddleware.Handle, cfg.Auth.Me)

	users := api.Group("/users", cfg.AuthMiddleware.Handle, auth.AdminOnly())
	users.Get("/", cfg.Users.List)
	users.Get("/:id", cfg.Users.Get)
	users.Post("/", cfg.Users.Create)
	users.Put("/:id", cfg.Users.Update)
	users.Delete("/:id", cfg.Users.Delete)

	orgs := api.Group("/organizations", cfg.AuthMiddleware.Handle, auth.AdminOnly())
	orgs.Get("/", cfg.Organizations.List)
	orgs.Get("/:id", cfg.Organizations.Get)
	orgs.Post("/", cfg.Organizations.Create)
	orgs.Put("/:id", cfg.Organizations.Update)
	orgs.Get("/:id/units", cfg.Organizations.ListUnits)

	units := api.Group("/units", cfg.AuthMiddleware.Handle)
	units.Post("/", auth.OperatorOnly(), cfg.Organizations.CreateUnit)
	units.Get("/:id", ownUnit(cfg), cfg.Organizations.GetUnit)
	units.Put("/:id", ownUnit(cfg), cfg.Organizations.UpdateUnit)

	holders := api.Group("/account-holders", cfg.AuthMiddleware.Handle)
	holders.Get("/:id", ownAccountHolder(cfg), cfg.AccountHolders.Get)
	holders.Get("/:id/beneficiaries", ownAccountHolder(cfg), cfg.AccountHolders.ListBeneficiaries)

	beneficiaries := api.Group("/beneficiaries", cfg.AuthMiddleware.Handle)
	beneficiaries.Get("/:id", ownBeneficiary(cfg), cfg.Beneficiaries.Get)
	beneficiaries.Get("/:id/balance", ownBeneficiary(cfg), cfg.Credits.Balance)
	beneficiaries.Post("/:id/debit",
		auth.RequireRoles(domain.RoleAdmin, domain.RoleOperator, domain.RoleAccountHolder),
		ownBeneficiary(cfg),
		auth.EnsurePositiveBalance(cfg.Balance),
		cfg.Credits.Debit)

	allocations := api.Group("/credit-allocations", cfg.AuthMiddleware.Handle)
	allocations.Post("/",
		auth.RequireRoles(domain.RoleAdmin, domain.RoleAccountHolder),
		cfg.Credits.Allocate)
	allocations.Get("/:id", ownCreditAllocation(cfg), cfg.Credits.GetAllocation)

	transactions := api.Group("/transactions", cfg.AuthMiddleware.Handle)
	transactions.Get("/", auth.OperatorOnly(), cfg.Transactions.List)
	transactions.Get("/:id", ownTransaction(cfg), cfg.Transactions.Get)
}

func ownBeneficiary(cfg RouteConfig) fiber.Handler {
	return auth.EnsureOwnership(cfg.Ownership, auth.OwnershipConfig{
		Resource: auth.MustResource(auth.ResourceBeneficiary),
	})
}

func ownAccountHolder(cfg RouteConfig) fiber.Handler {
	return auth.EnsureOwnership(cfg.Ownership, auth.OwnershipConfig{
		Resource: auth.MustResource(auth.ResourceAccountHolder),
	})
}

func ownUnit(cfg RouteConfig) fiber.Handler {
	return auth.EnsureOwnership(cfg.Ownership, auth.OwnershipConfig{
		Resource: auth.MustResource(auth.ResourceUnit),
	})
}

func ownTransaction(cfg RouteConfig) fiber.Handler {
	return auth.EnsureOwnership(cfg.Ownership, auth.OwnershipConfig{
		Resource: auth.MustResource(auth.ResourceTransaction),
	})
}

func ownCreditAllocation(cfg RouteConfig) fiber.Handler {
	return auth.EnsureOwnership(cfg.Ownership, auth.OwnershipConfig{
		Resource: auth.MustResource(auth.ResourceCreditAllocation),
	})
}
