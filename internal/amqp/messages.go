package amqp

import (
	"encoding/json"
	"time"

	"expensetracker/internal/core"
)

// EventExpenseCreated is the type of the message published after an insert.
const EventExpenseCreated = "expense.created"

// ExpenseCreatedMessage notifies consumers that an expense was committed.
type ExpenseCreatedMessage struct {
	Event     string    `json:"event"`
	ID        int64     `json:"id"`
	Amount    float64   `json:"amount"`
	Category  string    `json:"category"`
	Date      string    `json:"date"`
	Timestamp time.Time `json:"timestamp"`
}

// NewExpenseCreatedMessage builds the message for a stored expense
func NewExpenseCreatedMessage(e core.Expense) *ExpenseCreatedMessage {
	return &ExpenseCreatedMessage{
		Event:     EventExpenseCreated,
		ID:        e.ID,
		Amount:    e.Amount,
		Category:  e.Category,
		Date:      e.Date.String(),
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *ExpenseCreatedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}
