package storage

import (
	"context"
	"fmt"
	"log/slog"

	"expensetracker/internal/core"
)

// Repository maps domain expenses onto the expenses table. Every call runs
// in its own session.
type Repository struct {
	db *DB
}

func NewRepository(db *DB) *Repository {
	return &Repository{db: db}
}

// CreateExpense inserts e in a committed transaction and returns the new id.
func (r *Repository) CreateExpense(ctx context.Context, e core.Expense) (int64, error) {
	if err := e.Validate(); err != nil {
		return 0, fmt.Errorf("validate expense: %w", err)
	}

	var id int64
	err := r.db.WithSession(ctx, func(s *Session) error {
		return s.InTx(ctx, func(q *Queries) error {
			var err error
			id, err = q.CreateExpense(ctx, CreateExpenseParams{
				Amount:   e.Amount,
				Category: e.Category,
				Date:     e.Date.String(),
			})
			return err
		})
	})
	if err != nil {
		return 0, fmt.Errorf("create expense: %w", err)
	}

	slog.DebugContext(ctx, "Expense saved",
		"id", id,
		"amount", e.Amount,
		"category", e.Category,
		"date", e.Date.String())

	return id, nil
}

// ListExpenses returns every stored expense in storage scan order.
func (r *Repository) ListExpenses(ctx context.Context) ([]core.Expense, error) {
	var rows []Expense
	err := r.db.WithSession(ctx, func(s *Session) error {
		var err error
		rows, err = s.Queries().ListExpenses(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	return toCore(rows)
}

// ListExpensesByMonth returns the expenses dated in the given year and month.
// Out-of-range values simply match nothing.
func (r *Repository) ListExpensesByMonth(ctx context.Context, year, month int) ([]core.Expense, error) {
	var rows []Expense
	err := r.db.WithSession(ctx, func(s *Session) error {
		var err error
		rows, err = s.Queries().ListExpensesByMonth(ctx, int64(year), int64(month))
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list expenses by month (year=%d, month=%d): %w", year, month, err)
	}
	return toCore(rows)
}

// SumAmounts returns the sum of all amounts, or nil when the table is empty.
func (r *Repository) SumAmounts(ctx context.Context) (*float64, error) {
	var sum *float64
	err := r.db.WithSession(ctx, func(s *Session) error {
		total, err := s.Queries().SumExpenseAmounts(ctx)
		if err != nil {
			return err
		}
		if total.Valid {
			sum = &total.Float64
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("sum expense amounts: %w", err)
	}
	return sum, nil
}

// Ping checks the underlying store.
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func toCore(rows []Expense) ([]core.Expense, error) {
	expenses := make([]core.Expense, len(rows))
	for i, e := range rows {
		d, err := core.ParseDate(e.Date)
		if err != nil {
			return nil, fmt.Errorf("parse stored date %q for expense %d: %w", e.Date, e.ID, err)
		}
		expenses[i] = core.Expense{
			ID:       e.ID,
			Amount:   e.Amount,
			Category: e.Category,
			Date:     d,
		}
	}
	return expenses, nil
}
