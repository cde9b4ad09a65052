package worker

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "modernc.org/sqlite"

	"divvy/internal/core"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Mirror is a normalized, queryable SQLite copy of the ledger snapshots.
// It is rebuilt collection by collection and is never written back to the
// primary backend.
type Mirror struct {
	db *sql.DB
}

func NewMirror(dbPath string) (*Mirror, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create mirror directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open mirror database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping mirror database: %w", err)
	}

	if err := runMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run mirror migrations: %w", err)
	}

	return &Mirror{db: db}, nil
}

func runMigrations(dbPath string) error {
	// Separate connection so migrations do not interfere with the main one.
	migrateDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("open migration database: %w", err)
	}
	defer migrateDB.Close()

	driver, err := migratesqlite.WithInstance(migrateDB, &migratesqlite.Config{})
	if err != nil {
		return fmt.Errorf("create sqlite driver: %w", err)
	}

	d, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("create iofs source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", d, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("run migrations: %w", err)
	}

	return nil
}

func (m *Mirror) Close() error {
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}

// ReplaceUsers rewrites the users table from a snapshot.
func (m *Mirror) ReplaceUsers(ctx context.Context, users []core.User) error {
	return m.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM users"); err != nil {
			return fmt.Errorf("clear users: %w", err)
		}
		for _, u := range users {
			_, err := tx.ExecContext(ctx,
				"INSERT INTO users (id, name, email, avatar) VALUES (?, ?, ?, ?)",
				u.ID, u.Name, u.Email, u.Avatar)
			if err != nil {
				return fmt.Errorf("insert user %s: %w", u.ID, err)
			}
		}
		return nil
	})
}

// ReplaceGroups rewrites the groups and group_members tables from a snapshot.
func (m *Mirror) ReplaceGroups(ctx context.Context, groups []core.Group) error {
	return m.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM group_members"); err != nil {
			return fmt.Errorf("clear group members: %w", err)
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM groups"); err != nil {
			return fmt.Errorf("clear groups: %w", err)
		}
		for _, g := range groups {
			_, err := tx.ExecContext(ctx,
				"INSERT INTO groups (id, name, description, created_at, created_by) VALUES (?, ?, ?, ?, ?)",
				g.ID, g.Name, g.Description, g.CreatedAt.UTC().Format(time.RFC3339), g.CreatedBy)
			if err != nil {
				return fmt.Errorf("insert group %s: %w", g.ID, err)
			}
			for _, member := range g.Members {
				_, err := tx.ExecContext(ctx,
					"INSERT INTO group_members (group_id, user_id, name) VALUES (?, ?, ?)",
					g.ID, member.ID, member.Name)
				if err != nil {
					return fmt.Errorf("insert member %s of group %s: %w", member.ID, g.ID, err)
				}
			}
		}
		return nil
	})
}

// ReplaceExpenses rewrites the expenses and splits tables from a snapshot.
func (m *Mirror) ReplaceExpenses(ctx context.Context, expenses []core.Expense) error {
	return m.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM splits"); err != nil {
			return fmt.Errorf("clear splits: %w", err)
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM expenses"); err != nil {
			return fmt.Errorf("clear expenses: %w", err)
		}
		for _, e := range expenses {
			_, err := tx.ExecContext(ctx,
				"INSERT INTO expenses (id, title, description, amount, category, date, payer_id, group_id) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
				e.ID, e.Title, e.Description, e.Amount, e.Category, e.Date.UTC().Format(time.RFC3339), e.PayerID, e.GroupID)
			if err != nil {
				return fmt.Errorf("insert expense %s: %w", e.ID, err)
			}
			for _, split := range e.Splits {
				_, err := tx.ExecContext(ctx,
					"INSERT INTO splits (expense_id, user_id, amount) VALUES (?, ?, ?)",
					e.ID, split.UserID, split.Amount)
				if err != nil {
					return fmt.Errorf("insert split %s of expense %s: %w", split.UserID, e.ID, err)
				}
			}
		}
		return nil
	})
}

// Counts returns the number of mirrored rows per entity table.
func (m *Mirror) Counts(ctx context.Context) (users, groups, expenses int, err error) {
	for _, q := range []struct {
		table string
		dst   *int
	}{
		{"users", &users},
		{"groups", &groups},
		{"expenses", &expenses},
	} {
		if err = m.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+q.table).Scan(q.dst); err != nil {
			return 0, 0, 0, fmt.Errorf("count %s: %w", q.table, err)
		}
	}
	return users, groups, expenses, nil
}

// GroupTotal sums all mirrored expense amounts for one group.
func (m *Mirror) GroupTotal(ctx context.Context, groupID string) (float64, error) {
	var total float64
	err := m.db.QueryRowContext(ctx,
		"SELECT COALESCE(SUM(amount), 0) FROM expenses WHERE group_id = ?", groupID,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum group %s: %w", groupID, err)
	}
	return total, nil
}

func (m *Mirror) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
