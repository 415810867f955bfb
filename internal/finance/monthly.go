package finance

import "time"

// MonthlyBreakdown is one of twelve month buckets of income, expenses
// and profit, used for month-over-month comparison views.
type MonthlyBreakdown struct {
	Month    time.Month `json:"month"`
	Income   float64    `json:"income"`
	Expenses float64    `json:"expenses"`
	Profit   float64    `json:"profit"`
}

// BreakdownByMonth buckets paid income and expenses into the twelve
// calendar months. Like the P&L month buckets, the year is ignored;
// filter first when a single year is wanted.
func BreakdownByMonth(invoices []Invoice, expenses []Expense) []MonthlyBreakdown {
	var recurringMonthly float64
	for _, exp := range expenses {
		if exp.Recurring {
			recurringMonthly += amount(exp.Amount)
		}
	}

	result := make([]MonthlyBreakdown, 0, 12)
	for m := time.January; m <= time.December; m++ {
		entry := MonthlyBreakdown{Month: m, Expenses: recurringMonthly}
		for _, inv := range invoices {
			if inv.Status == InvoicePaid && inv.PaidDate != nil && inv.PaidDate.Month() == m {
				entry.Income += amount(inv.Amount)
			}
		}
		for _, exp := range expenses {
			if !exp.Recurring && exp.Date.Month() == m {
				entry.Expenses += amount(exp.Amount)
			}
		}
		entry.Profit = entry.Income - entry.Expenses
		result = append(result, entry)
	}
	return result
}
