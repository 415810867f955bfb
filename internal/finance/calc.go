package finance

import (
	"math"
	"time"
)

// amount sanitises a monetary value for accumulation. NaN and infinities
// would silently poison every downstream sum, so they count as zero.
func amount(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// round1 rounds to one decimal place, the shared convention for every
// percentage field in this package.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// daysBetween returns the whole number of days from 'from' to 'to',
// negative when 'to' precedes 'from'.
func daysBetween(to, from time.Time) int {
	return int(math.Floor(to.Sub(from).Hours() / 24))
}

// monthStart returns the first instant of the month n months after t.
// time.Date normalises month overflow, so December+1 lands in January.
func monthStart(t time.Time, n int) time.Time {
	return time.Date(t.Year(), t.Month()+time.Month(n), 1, 0, 0, 0, 0, t.Location())
}

// inMonth reports whether t falls inside [start, start+1 month).
func inMonth(t, start time.Time) bool {
	return !t.Before(start) && t.Before(monthStart(start, 1))
}

// sumPaymentsByInvoice folds partial payments into a per-invoice total.
func sumPaymentsByInvoice(payments []Payment) map[string]float64 {
	totals := make(map[string]float64, len(payments))
	for _, p := range payments {
		totals[p.InvoiceID] += amount(p.Amount)
	}
	return totals
}

// invoiceSettled reports whether an invoice should be treated as fully
// paid. Both sources of truth win: an explicit paid status, or partial
// payments covering the full amount even when the status field lags.
func invoiceSettled(inv Invoice, paid float64) bool {
	return inv.Status == InvoicePaid || paid >= amount(inv.Amount)
}

// effectiveExpense returns the accumulation weight of an expense:
// recurring expenses are annualised at twelve months.
func effectiveExpense(exp Expense) float64 {
	a := amount(exp.Amount)
	if exp.Recurring {
		return a * 12
	}
	return a
}
