package ports

import (
	"context"

	"expensetracker/internal/core"
)

// Ports consumed by the HTTP layer.
type (
	ExpenseWriter interface {
		CreateExpense(ctx context.Context, e core.Expense) (id int64, err error)
	}

	// ExpenseLister returns stored expenses, all of them or one month's worth.
	ExpenseLister interface {
		ListExpenses(ctx context.Context) ([]core.Expense, error)
		// ListExpensesByMonth returns expenses whose date falls in year and month.
		ListExpensesByMonth(ctx context.Context, year int, month int) ([]core.Expense, error)
	}

	// TotalsReader compares the all-time expense sum against a salary.
	TotalsReader interface {
		Totals(ctx context.Context, salary float64) (core.Totals, error)
	}

	// HealthChecker reports whether the backing store is reachable.
	HealthChecker interface {
		Ping(ctx context.Context) error
	}
)
