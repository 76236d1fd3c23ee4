package core

// Totals compares the all-time expense sum against a salary.
type Totals struct {
	TotalExpenses   float64
	RemainingAmount float64
}

// NewTotals builds Totals from a storage sum. A nil sum means no rows were
// aggregated and counts as zero.
func NewTotals(salary float64, sum *float64) Totals {
	var total float64
	if sum != nil {
		total = *sum
	}
	return Totals{
		TotalExpenses:   total,
		RemainingAmount: salary - total,
	}
}
