package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"expensetracker/internal/core"
	"expensetracker/internal/log"
	"expensetracker/internal/middleware/trace"
)

// ExpenseResponse is the wire form of a stored expense.
type ExpenseResponse struct {
	ID       int64   `json:"id"`
	Amount   float64 `json:"amount"`
	Category string  `json:"category"`
	Date     string  `json:"date"`
}

// TotalsResponse is the body of GET /totals.
type TotalsResponse struct {
	TotalExpenses   float64 `json:"total_expenses"`
	RemainingAmount float64 `json:"remaining_amount"`
}

type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

func internalError(r *http.Request) errorResponse {
	return errorResponse{Error: "internal server error", RequestID: trace.GetRequestID(r.Context())}
}

func newExpenseResponses(items []core.Expense) []ExpenseResponse {
	out := make([]ExpenseResponse, 0, len(items))
	for _, e := range items {
		out = append(out, ExpenseResponse{
			ID:       e.ID,
			Amount:   e.Amount,
			Category: e.Category,
			Date:     e.Date.String(),
		})
	}
	return out
}

// writeJSON encodes v before touching the response, so a value that cannot
// be encoded (such as an infinite total) becomes a 500 instead of an empty 200.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		log.NewStructuredLogger(log.FromContext(r.Context())).
			LogError(r.Context(), "Response encoding failed", err, log.ComponentHTTP, log.OpEncode, log.NewFields())
		status = http.StatusInternalServerError
		body, _ = json.Marshal(internalError(r))
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}

// writeError maps err to a status code. Validation failures are echoed to
// the client; anything else is logged and hidden behind a generic message.
func writeError(w http.ResponseWriter, r *http.Request, operation string, err error) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		log.FromContext(r.Context()).DebugContext(r.Context(), "Request rejected",
			log.FieldOperation, operation,
			log.FieldError, verr.Message)
		writeJSON(w, r, http.StatusUnprocessableEntity, errorResponse{Error: verr.Message})
		return
	}

	log.NewStructuredLogger(log.FromContext(r.Context())).
		LogError(r.Context(), "Request failed", err, log.ComponentHTTP, operation, log.NewFields())
	writeJSON(w, r, http.StatusInternalServerError, internalError(r))
}
