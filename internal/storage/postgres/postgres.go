// Package postgres is the direct relational backend: SQL over the pgx
// stdlib driver. It creates its tables idempotently on first use and maps
// rows onto the domain entities.
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/crisnabto/despesas/internal/balance"
	"github.com/crisnabto/despesas/internal/database"
	"github.com/crisnabto/despesas/internal/expense"
	"github.com/crisnabto/despesas/internal/user"
)

type Store struct {
	db *sql.DB
}

// New opens the connection and ensures the schema exists.
func New(ctx context.Context, connStr string) (*Store, error) {
	db, err := database.Open(ctx, connStr)
	if err != nil {
		return nil, err
	}

	s := &Store{db: db}
	if err := s.createTables(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing tables: %w", err)
	}

	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createTables(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id VARCHAR PRIMARY KEY,
			email VARCHAR UNIQUE,
			first_name VARCHAR,
			last_name VARCHAR,
			profile_image_url VARCHAR,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS expenses (
			id SERIAL PRIMARY KEY,
			category TEXT NOT NULL,
			description TEXT NOT NULL,
			value DECIMAL(10, 2) NOT NULL,
			date DATE NOT NULL,
			payment_method TEXT NOT NULL,
			is_paid BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS account_balance (
			id SERIAL PRIMARY KEY,
			current_balance DECIMAL(10, 2) NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}

	return nil
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanExpense reads one expense row. Expected column order:
// id, category, description, value, date, payment_method, is_paid, created_at.
func scanExpense(sc scanner) (*expense.Expense, error) {
	var e expense.Expense

	var value string

	if err := sc.Scan(
		&e.ID, &e.Category, &e.Description, &value, &e.Date,
		&e.PaymentMethod, &e.IsPaid, &e.CreatedAt,
	); err != nil {
		return nil, err
	}

	v, err := decimal.NewFromString(value)
	if err != nil {
		return nil, fmt.Errorf("parsing value %q: %w", value, err)
	}

	e.Value = v

	return &e, nil
}

const selectExpenseColumns = `id, category, description, value, date, payment_method, is_paid, created_at`

func (s *Store) ListExpenses(ctx context.Context) ([]*expense.Expense, error) {
	query := `SELECT ` + selectExpenseColumns + ` FROM expenses ORDER BY date DESC, id DESC`

	return s.queryExpenses(ctx, query)
}

func (s *Store) CreateExpense(ctx context.Context, e *expense.Expense) error {
	query := `
		INSERT INTO expenses (category, description, value, date, payment_method, is_paid, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query,
		e.Category,
		e.Description,
		e.Value.StringFixed(2),
		e.Date,
		e.PaymentMethod,
		e.IsPaid,
	).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating expense: %w", err)
	}

	return nil
}

func (s *Store) UpdateExpense(ctx context.Context, id int, patch expense.Patch) (*expense.Expense, error) {
	if patch.Empty() {
		return s.getExpense(ctx, id)
	}

	query := `UPDATE expenses SET`

	var args []any

	argIdx := 1

	set := func(column string, v any) {
		if argIdx > 1 {
			query += ","
		}

		query += fmt.Sprintf(" %s = $%d", column, argIdx)

		args = append(args, v)
		argIdx++
	}

	if patch.Category != nil {
		set("category", *patch.Category)
	}

	if patch.Description != nil {
		set("description", *patch.Description)
	}

	if patch.Value != nil {
		set("value", patch.Value.StringFixed(2))
	}

	if patch.Date != nil {
		set("date", *patch.Date)
	}

	if patch.PaymentMethod != nil {
		set("payment_method", *patch.PaymentMethod)
	}

	if patch.IsPaid != nil {
		set("is_paid", *patch.IsPaid)
	}

	query += fmt.Sprintf(" WHERE id = $%d RETURNING ", argIdx) + selectExpenseColumns
	args = append(args, id)

	e, err := scanExpense(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, expense.ErrNotFound
		}

		return nil, fmt.Errorf("updating expense: %w", err)
	}

	return e, nil
}

func (s *Store) DeleteExpense(ctx context.Context, id int) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("deleting expense: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("deleting expense: %w", err)
	}

	return n > 0, nil
}

func (s *Store) ListExpensesByCategory(ctx context.Context, category string) ([]*expense.Expense, error) {
	query := `SELECT ` + selectExpenseColumns + `
		FROM expenses WHERE category = $1 ORDER BY date DESC, id DESC`

	return s.queryExpenses(ctx, query, category)
}

func (s *Store) ListUnpaidExpenses(ctx context.Context) ([]*expense.Expense, error) {
	query := `SELECT ` + selectExpenseColumns + `
		FROM expenses WHERE is_paid = FALSE ORDER BY date ASC, id ASC`

	return s.queryExpenses(ctx, query)
}

func (s *Store) MarkExpensePaid(ctx context.Context, id int) (bool, error) {
	res, err := s.db.ExecContext(ctx, `UPDATE expenses SET is_paid = TRUE WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("marking expense paid: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("marking expense paid: %w", err)
	}

	return n > 0, nil
}

func (s *Store) getExpense(ctx context.Context, id int) (*expense.Expense, error) {
	query := `SELECT ` + selectExpenseColumns + ` FROM expenses WHERE id = $1`

	e, err := scanExpense(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, expense.ErrNotFound
		}

		return nil, fmt.Errorf("getting expense: %w", err)
	}

	return e, nil
}

func (s *Store) queryExpenses(ctx context.Context, query string, args ...any) ([]*expense.Expense, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing expenses: %w", err)
	}
	defer rows.Close()

	var out []*expense.Expense

	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning expense: %w", err)
		}

		out = append(out, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating expense rows: %w", err)
	}

	return out, nil
}

func (s *Store) GetAccountBalance(ctx context.Context) (*balance.AccountBalance, error) {
	query := `SELECT id, current_balance, updated_at FROM account_balance WHERE id = 1`

	var b balance.AccountBalance

	var current string

	err := s.db.QueryRowContext(ctx, query).Scan(&b.ID, &current, &b.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, balance.ErrNotFound
		}

		return nil, fmt.Errorf("getting account balance: %w", err)
	}

	v, err := decimal.NewFromString(current)
	if err != nil {
		return nil, fmt.Errorf("parsing balance %q: %w", current, err)
	}

	b.CurrentBalance = v

	return &b, nil
}

// UpdateAccountBalance upserts the singleton row; there is at most one
// logical balance record system-wide.
func (s *Store) UpdateAccountBalance(ctx context.Context, current decimal.Decimal) (*balance.AccountBalance, error) {
	query := `
		INSERT INTO account_balance (id, current_balance, updated_at)
		VALUES (1, $1, NOW())
		ON CONFLICT (id) DO UPDATE SET current_balance = EXCLUDED.current_balance, updated_at = NOW()
		RETURNING id, updated_at
	`

	b := balance.AccountBalance{CurrentBalance: current}
	if err := s.db.QueryRowContext(ctx, query, current.StringFixed(2)).Scan(&b.ID, &b.UpdatedAt); err != nil {
		return nil, fmt.Errorf("updating account balance: %w", err)
	}

	return &b, nil
}

func (s *Store) GetUser(ctx context.Context, id string) (*user.User, error) {
	query := `
		SELECT id, COALESCE(email, ''), COALESCE(first_name, ''), COALESCE(last_name, ''),
			COALESCE(profile_image_url, ''), created_at, updated_at
		FROM users WHERE id = $1
	`

	var u user.User

	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.ProfileImageURL,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, user.ErrNotFound
		}

		return nil, fmt.Errorf("getting user: %w", err)
	}

	return &u, nil
}

func (s *Store) UpsertUser(ctx context.Context, u *user.User) (*user.User, error) {
	query := `
		INSERT INTO users (id, email, first_name, last_name, profile_image_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		ON CONFLICT (id) DO UPDATE SET
			email = EXCLUDED.email,
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			profile_image_url = EXCLUDED.profile_image_url,
			updated_at = NOW()
		RETURNING created_at, updated_at
	`

	out := *u
	if err := s.db.QueryRowContext(ctx, query,
		u.ID, u.Email, u.FirstName, u.LastName, u.ProfileImageURL,
	).Scan(&out.CreatedAt, &out.UpdatedAt); err != nil {
		return nil, fmt.Errorf("upserting user: %w", err)
	}

	return &out, nil
}
