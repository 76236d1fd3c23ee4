package services

import (
	"context"
	"fmt"

	"expensetracker/internal/core"
	"expensetracker/internal/log"
)

// ExpenseStore is the persistence the service needs.
type ExpenseStore interface {
	CreateExpense(ctx context.Context, e core.Expense) (int64, error)
	ListExpenses(ctx context.Context) ([]core.Expense, error)
	ListExpensesByMonth(ctx context.Context, year, month int) ([]core.Expense, error)
	SumAmounts(ctx context.Context) (*float64, error)
	Ping(ctx context.Context) error
	Close() error
}

// EventPublisher announces committed expenses to other systems.
type EventPublisher interface {
	PublishExpenseCreated(ctx context.Context, e core.Expense) error
	Close() error
}

// ExpenseService orchestrates expense operations across storage and the
// optional event publisher
type ExpenseService struct {
	storage   ExpenseStore
	publisher EventPublisher
}

// NewExpenseService wires the service. publisher may be nil.
func NewExpenseService(storage ExpenseStore, publisher EventPublisher) *ExpenseService {
	return &ExpenseService{
		storage:   storage,
		publisher: publisher,
	}
}

// CreateExpense stores an expense and publishes an expense.created event
func (s *ExpenseService) CreateExpense(ctx context.Context, e core.Expense) (int64, error) {
	id, err := s.storage.CreateExpense(ctx, e)
	if err != nil {
		return 0, fmt.Errorf("save expense: %w", err)
	}
	e.ID = id

	log.NewStructuredLogger(log.FromContext(ctx)).
		LogExpenseCreated(ctx, id, e.Amount, e.Category, e.Date.String())

	// The row is committed at this point; a failed publish does not fail the request.
	if err := s.publishCreated(ctx, e); err != nil {
		log.FromContext(ctx).WithComponent(log.ComponentAMQP).ErrorContext(ctx, "Failed to publish expense created message",
			log.FieldExpenseID, id, log.FieldOperation, log.OpPublish, log.FieldError, err)
	}

	return id, nil
}

// ListExpenses returns all expenses
func (s *ExpenseService) ListExpenses(ctx context.Context) ([]core.Expense, error) {
	return s.storage.ListExpenses(ctx)
}

// ListExpensesByMonth returns the expenses of one year and month
func (s *ExpenseService) ListExpensesByMonth(ctx context.Context, year, month int) ([]core.Expense, error) {
	return s.storage.ListExpensesByMonth(ctx, year, month)
}

// Totals sums every stored amount and subtracts it from salary. An empty
// store sums to zero.
func (s *ExpenseService) Totals(ctx context.Context, salary float64) (core.Totals, error) {
	sum, err := s.storage.SumAmounts(ctx)
	if err != nil {
		return core.Totals{}, fmt.Errorf("compute totals: %w", err)
	}
	return core.NewTotals(salary, sum), nil
}

// Ping checks the storage backend
func (s *ExpenseService) Ping(ctx context.Context) error {
	return s.storage.Ping(ctx)
}

func (s *ExpenseService) publishCreated(ctx context.Context, e core.Expense) error {
	if s.publisher == nil {
		return nil
	}
	return s.publisher.PublishExpenseCreated(ctx, e)
}

// Close closes both storage and publisher connections
func (s *ExpenseService) Close() error {
	var errs []error

	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if s.storage != nil {
		if err := s.storage.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close expense service: %v", errs)
	}

	return nil
}
