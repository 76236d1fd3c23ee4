package storage

import (
	"context"
	"database/sql"
	"fmt"
)

type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

// Queries holds the statements for the expenses table.
type Queries struct {
	db      DBTX
	dialect Dialect
}

func New(db DBTX, dialect Dialect) *Queries {
	return &Queries{db: db, dialect: dialect}
}

// Expense is a row of the expenses table. Date is YYYY-MM-DD text.
type Expense struct {
	ID       int64
	Amount   float64
	Category string
	Date     string
}

type CreateExpenseParams struct {
	Amount   float64
	Category string
	Date     string
}

const createExpense = `INSERT INTO expenses (amount, category, "date") VALUES (?, ?, ?) RETURNING id`

func (q *Queries) CreateExpense(ctx context.Context, arg CreateExpenseParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, q.dialect.rebind(createExpense), arg.Amount, arg.Category, arg.Date)
	var id int64
	err := row.Scan(&id)
	return id, err
}

func (q *Queries) selectExpenses() string {
	return `SELECT id, amount, category, ` + q.dialect.dateExpr() + ` FROM expenses`
}

func (q *Queries) ListExpenses(ctx context.Context) ([]Expense, error) {
	rows, err := q.db.QueryContext(ctx, q.selectExpenses())
	if err != nil {
		return nil, err
	}
	return scanExpenses(rows)
}

func (q *Queries) ListExpensesByMonth(ctx context.Context, year, month int64) ([]Expense, error) {
	query := q.dialect.rebind(q.selectExpenses() + ` WHERE ` + q.dialect.monthFilter())
	rows, err := q.db.QueryContext(ctx, query, year, month)
	if err != nil {
		return nil, err
	}
	return scanExpenses(rows)
}

const sumExpenseAmounts = `SELECT SUM(amount) FROM expenses`

// SumExpenseAmounts returns the aggregate sum, which is NULL on an empty table.
func (q *Queries) SumExpenseAmounts(ctx context.Context) (sql.NullFloat64, error) {
	row := q.db.QueryRowContext(ctx, sumExpenseAmounts)
	var total sql.NullFloat64
	err := row.Scan(&total)
	return total, err
}

func scanExpenses(rows *sql.Rows) ([]Expense, error) {
	defer rows.Close()
	items := []Expense{}
	for rows.Next() {
		var i Expense
		if err := rows.Scan(&i.ID, &i.Amount, &i.Category, &i.Date); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
