package finance

import "time"

// ForecastMonths is the fixed length of the cash-flow projection.
const ForecastMonths = 6

// OverdueRecoveryRate is the optimistic fraction of overdue receivables
// assumed to be collected within the first forecast month.
const OverdueRecoveryRate = 0.5

// CashFlowMonth is one entry of the forward cash projection.
type CashFlowMonth struct {
	Month             time.Time `json:"month"`
	ExpectedIncome    float64   `json:"expectedIncome"`
	ExpectedExpenses  float64   `json:"expectedExpenses"`
	NetCashFlow       float64   `json:"netCashFlow"`
	CumulativeBalance float64   `json:"cumulativeBalance"`
	OverdueRecovery   float64   `json:"overdueRecovery"`
}

// ForecastCashFlow projects six months of cash movement starting at the
// current month. Months are folded in chronological order because each
// cumulative balance carries the prior months' net flow forward.
//
// Expected income per month is the open (sent or overdue) invoice amount
// due in that month. The first month additionally assumes recovery of
// half the currently overdue total; that optimism is reported separately
// in OverdueRecovery so it stays auditable.
func ForecastCashFlow(invoices []Invoice, expenses []Expense, now time.Time) []CashFlowMonth {
	var recurringMonthly float64
	for _, exp := range expenses {
		if exp.Recurring {
			recurringMonthly += amount(exp.Amount)
		}
	}

	var open []Invoice
	var overdueTotal float64
	for _, inv := range invoices {
		switch inv.Status {
		case InvoiceSent:
			open = append(open, inv)
		case InvoiceOverdue:
			open = append(open, inv)
			overdueTotal += amount(inv.Amount)
		}
	}

	result := make([]CashFlowMonth, 0, ForecastMonths)
	var cumulative float64
	for i := 0; i < ForecastMonths; i++ {
		start := monthStart(now, i)

		var income float64
		for _, inv := range open {
			if inv.DueDate != nil && inMonth(*inv.DueDate, start) {
				income += amount(inv.Amount)
			}
		}

		var recovery float64
		if i == 0 {
			recovery = overdueTotal * OverdueRecoveryRate
			income += recovery
		}

		var oneTime float64
		for _, exp := range expenses {
			if !exp.Recurring && inMonth(exp.Date, start) {
				oneTime += amount(exp.Amount)
			}
		}

		expected := recurringMonthly + oneTime
		net := income - expected
		cumulative += net

		result = append(result, CashFlowMonth{
			Month:             start,
			ExpectedIncome:    income,
			ExpectedExpenses:  expected,
			NetCashFlow:       net,
			CumulativeBalance: cumulative,
			OverdueRecovery:   recovery,
		})
	}
	return result
}
