package http

import (
	"net/http"

	"expensetracker/internal/log"
)

// ExpenseCreatedMessage is the body returned by a successful POST /expenses.
const ExpenseCreatedMessage = "Expense added successfully."

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	exp, err := s.validator.DecodeExpense(r)
	if err != nil {
		writeError(w, r, log.OpValidate, err)
		return
	}

	if _, err := s.expWriter.CreateExpense(r.Context(), exp); err != nil {
		writeError(w, r, log.OpCreate, err)
		return
	}

	writeJSON(w, r, http.StatusOK, ExpenseCreatedMessage)
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	items, err := s.expLister.ListExpenses(r.Context())
	if err != nil {
		writeError(w, r, log.OpList, err)
		return
	}

	writeJSON(w, r, http.StatusOK, newExpenseResponses(items))
}

func (s *Server) handleListMonthlyExpenses(w http.ResponseWriter, r *http.Request) {
	year, err := PathInt(r, "year")
	if err != nil {
		writeError(w, r, log.OpValidate, err)
		return
	}
	month, err := PathInt(r, "month")
	if err != nil {
		writeError(w, r, log.OpValidate, err)
		return
	}

	items, err := s.expLister.ListExpensesByMonth(r.Context(), year, month)
	if err != nil {
		writeError(w, r, log.OpList, err)
		return
	}

	log.FromContext(r.Context()).DebugContext(r.Context(), "Monthly expenses listed",
		log.FieldYear, year,
		log.FieldMonth, month,
		log.FieldCount, len(items))
	writeJSON(w, r, http.StatusOK, newExpenseResponses(items))
}

func (s *Server) handleTotals(w http.ResponseWriter, r *http.Request) {
	salary, err := QueryFloat(r, "salary")
	if err != nil {
		writeError(w, r, log.OpValidate, err)
		return
	}

	totals, err := s.totals.Totals(r.Context(), salary)
	if err != nil {
		writeError(w, r, log.OpTotals, err)
		return
	}

	log.FromContext(r.Context()).DebugContext(r.Context(), "Totals computed",
		log.FieldSalary, salary,
		log.FieldOperation, log.OpTotals)
	writeJSON(w, r, http.StatusOK, TotalsResponse{
		TotalExpenses:   totals.TotalExpenses,
		RemainingAmount: totals.RemainingAmount,
	})
}
