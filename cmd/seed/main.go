package main

import (
	"context"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/credit-service/internal/config"
	"github.com/spec-kit/credit-service/internal/money"
	"github.com/spec-kit/credit-service/internal/observability"
	"github.com/spec-kit/credit-service/internal/persistence"
)

const demoPassword = "123456"

// Development seeder. Creates a demo tenant with one organization, one unit,
// a user per role, a beneficiary and an initial credit allocation so every
// endpoint can be exercised right after startup.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if cfg.App.IsProduction() {
		log.Fatal("seed de desenvolvimento não pode ser executado em produção")
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx := context.Background()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		log.Fatalf("failed to connect postgres: %v", err)
	}
	defer pg.Close()

	if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	if err := seed(ctx, pg.PoolHandle(), cfg.Auth.BcryptCost); err != nil {
		log.Fatalf("seed failed: %v", err)
	}
	log.Println("seed de desenvolvimento concluído")
}

func seed(ctx context.Context, pool *pgxpool.Pool, bcryptCost int) error {
	var count int
	if err := pool.QueryRow(ctx, `SELECT COUNT(1) FROM users WHERE email=$1`, "admin@dashmonster.com").Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		log.Println("dados demo já existem, pulando seed")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(demoPassword), bcryptCost)
	if err != nil {
		return err
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	var tenantID string
	if err := tx.QueryRow(ctx,
		`INSERT INTO tenants (name) VALUES ($1) RETURNING id`,
		"Demo Tenant").Scan(&tenantID); err != nil {
		return err
	}

	var orgID string
	if err := tx.QueryRow(ctx,
		`INSERT INTO organizations (name, tenant_id) VALUES ($1, $2) RETURNING id`,
		"Escola Demo", tenantID).Scan(&orgID); err != nil {
		return err
	}

	var unitID string
	if err := tx.QueryRow(ctx,
		`INSERT INTO units (name, organization_id) VALUES ($1, $2) RETURNING id`,
		"Cantina Central", orgID).Scan(&unitID); err != nil {
		return err
	}

	users := []struct {
		name  string
		email string
		role  string
	}{
		{"Admin", "admin@dashmonster.com", "Admin"},
		{"Operador", "operador@dashmonster.com", "Operator"},
		{"Responsável", "responsavel@dashmonster.com", "AccountHolder"},
		{"Beneficiário", "beneficiario@dashmonster.com", "Beneficiary"},
	}

	ids := make(map[string]string, len(users))
	for _, u := range users {
		var id string
		if err := tx.QueryRow(ctx,
			`INSERT INTO users (name, email, password_hash, role, tenant_id, organization_id)
			 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
			u.name, u.email, string(hash), u.role, tenantID, orgID).Scan(&id); err != nil {
			return err
		}
		ids[u.role] = id
	}

	var holderID string
	if err := tx.QueryRow(ctx,
		`INSERT INTO account_holders (user_id, organization_id) VALUES ($1, $2) RETURNING id`,
		ids["AccountHolder"], orgID).Scan(&holderID); err != nil {
		return err
	}

	var beneficiaryID string
	if err := tx.QueryRow(ctx,
		`INSERT INTO beneficiaries (name, account_holder_id, unit_id) VALUES ($1, $2, $3) RETURNING id`,
		"Beneficiário", holderID, unitID).Scan(&beneficiaryID); err != nil {
		return err
	}

	initial := money.Cents(10000)

	var allocationID string
	if err := tx.QueryRow(ctx,
		`INSERT INTO credit_allocations (account_holder_id, amount) VALUES ($1, $2) RETURNING id`,
		holderID, int64(initial)).Scan(&allocationID); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx,
		`INSERT INTO credit_distributions (beneficiary_id, allocation_id, available_amount, status)
		 VALUES ($1, $2, $3, 'ACTIVE')`,
		beneficiaryID, allocationID, int64(initial)); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx,
		`INSERT INTO transactions (type, amount, beneficiary_id, account_holder_id, created_by_id, description)
		 VALUES ('CREDIT', $1, $2, $3, $4, $5)`,
		int64(initial), beneficiaryID, holderID, ids["AccountHolder"], "Alocação inicial de demonstração"); err != nil {
		return err
	}

	return tx.Commit(ctx)
}
