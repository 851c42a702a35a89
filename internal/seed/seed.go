package seed

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Simplici0/orca/internal/accounts"
	"github.com/Simplici0/orca/internal/pricing"
	"github.com/Simplici0/orca/internal/store"
)

// Config contains the values required by startup seed.
type Config struct {
	AdminEmail    string
	AdminPassword string
	// DemoUsers adds the sample accounts used in local development.
	DemoUsers bool
}

// Stats contains seed operation counters.
type Stats struct {
	Inserts int
	Updates int
}

type demoUser struct {
	email, password, name string
	plan                  accounts.Plan
}

var demoUsers = []demoUser{
	{"demo@orcainteriores.com", "demo123", "Usuário Demo", accounts.PlanPro},
	{"arquiteto@teste.com", "arq123", "Arquiteto Teste", accounts.PlanBasic},
	{"marceneiro@teste.com", "marc123", "Marceneiro Teste", accounts.PlanEnterprise},
	{"gratuito@teste.com", "free123", "Conta Gratuita", accounts.PlanFree},
}

// Run executes the startup seed in an idempotent way.
// Existing catalog rows are never overwritten, so admin edits survive restarts.
func Run(db *sql.DB, cfg Config) (Stats, error) {
	ctx := context.Background()
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return Stats{}, fmt.Errorf("begin seed transaction: %w", err)
	}

	stats := Stats{}

	if err := seedUser(ctx, tx, cfg.AdminEmail, cfg.AdminPassword, "Administrador", accounts.PlanEnterprise, true, &stats); err != nil {
		_ = tx.Rollback()
		return Stats{}, err
	}
	if cfg.DemoUsers {
		for _, u := range demoUsers {
			if err := seedUser(ctx, tx, u.email, u.password, u.name, u.plan, false, &stats); err != nil {
				_ = tx.Rollback()
				return Stats{}, err
			}
		}
	}

	inserts, updates, err := store.SaveCatalog(ctx, tx, pricing.DefaultCatalog(), true)
	if err != nil {
		_ = tx.Rollback()
		return Stats{}, fmt.Errorf("seed price catalog: %w", err)
	}
	stats.Inserts += inserts
	stats.Updates += updates

	if err := tx.Commit(); err != nil {
		return Stats{}, fmt.Errorf("commit seed transaction: %w", err)
	}

	return stats, nil
}

func seedUser(ctx context.Context, tx *sql.Tx, email, password, name string, plan accounts.Plan, admin bool, stats *Stats) error {
	email = accounts.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil
	}

	var exists bool
	if err := tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE email = ? LIMIT 1)`, email).Scan(&exists); err != nil {
		return fmt.Errorf("check user existence: %w", err)
	}
	if exists {
		if !admin {
			return nil
		}
		res, err := tx.ExecContext(ctx, `UPDATE users SET is_admin = 1 WHERE email = ? AND is_admin = 0`, email)
		if err != nil {
			return fmt.Errorf("promote admin user: %w", err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			stats.Updates++
		}
		return nil
	}

	hash, err := accounts.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash password for %s: %w", email, err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO users (email, password_hash, name, plan, is_admin)
		VALUES (?, ?, ?, ?, ?)
	`, email, hash, name, string(plan), admin); err != nil {
		return fmt.Errorf("insert user %s: %w", email, err)
	}
	stats.Inserts++
	return nil
}
