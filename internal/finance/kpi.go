package finance

import (
	"math"
	"sort"
	"time"
)

// TopClient summarises paid revenue attributed to one client.
type TopClient struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
	Count  int     `json:"count"`
}

// KPIData carries the headline indicators for the finance dashboard.
// All percentage fields are rounded to one decimal and default to zero
// when their denominator is zero.
type KPIData struct {
	DSO                  float64     `json:"dso"`
	ProfitMargin         float64     `json:"profitMargin"`
	MonthlyGrowth        float64     `json:"monthlyGrowth"`
	OverduePercentage    float64     `json:"overduePercentage"`
	OverdueCount         int         `json:"overdueCount"`
	TopClients           []TopClient `json:"topClients"`
	ExpenseToIncomeRatio float64     `json:"expenseToIncomeRatio"`
	CollectionRate       float64     `json:"collectionRate"`
}

// ComputeKPIs derives the KPI card from raw invoice and expense records.
// The caller decides the scope by pre-filtering (see FilterInvoicesByYear);
// now anchors the monthly-growth comparison.
func ComputeKPIs(invoices []Invoice, expenses []Expense, clients []Client, vatRate float64, now time.Time) KPIData {
	var paid, overdue, sent []Invoice
	for _, inv := range invoices {
		switch inv.Status {
		case InvoicePaid:
			paid = append(paid, inv)
		case InvoiceOverdue:
			overdue = append(overdue, inv)
		case InvoiceSent:
			sent = append(sent, inv)
		}
	}

	// DSO averages the issue-to-payment lag over paid invoices. Zero or
	// negative lags are data anomalies and are excluded from both the sum
	// and the count rather than diluting the average.
	var dsoDays, dsoCount int
	for _, inv := range paid {
		if inv.PaidDate == nil {
			continue
		}
		if days := daysBetween(*inv.PaidDate, inv.IssueDate); days > 0 {
			dsoDays += days
			dsoCount++
		}
	}
	var dso float64
	if dsoCount > 0 {
		dso = math.Round(float64(dsoDays) / float64(dsoCount))
	}

	var totalIncome float64
	for _, inv := range paid {
		totalIncome += amount(inv.Amount)
	}
	var totalExpenses, expensesNet float64
	for _, exp := range expenses {
		effective := effectiveExpense(exp)
		totalExpenses += effective
		if exp.HasVAT {
			expensesNet += RemoveVAT(effective, vatRate)
		} else {
			expensesNet += effective
		}
	}

	incomeNet := RemoveVAT(totalIncome, vatRate)
	var profitMargin float64
	if incomeNet > 0 {
		profitMargin = (incomeNet - expensesNet) / incomeNet * 100
	}

	// Growth compares full calendar months, not rolling 30-day windows.
	currentStart := monthStart(now, 0)
	previousStart := monthStart(now, -1)
	var currentIncome, previousIncome float64
	for _, inv := range paid {
		if inv.PaidDate == nil {
			continue
		}
		switch {
		case !inv.PaidDate.Before(currentStart):
			currentIncome += amount(inv.Amount)
		case !inv.PaidDate.Before(previousStart):
			previousIncome += amount(inv.Amount)
		}
	}
	var monthlyGrowth float64
	if previousIncome > 0 {
		monthlyGrowth = (currentIncome - previousIncome) / previousIncome * 100
	}

	var overdueAmount, sentAmount float64
	for _, inv := range overdue {
		overdueAmount += amount(inv.Amount)
	}
	for _, inv := range sent {
		sentAmount += amount(inv.Amount)
	}
	var overduePct float64
	if outstanding := overdueAmount + sentAmount; outstanding > 0 {
		overduePct = overdueAmount / outstanding * 100
	}

	top := make([]TopClient, 0, len(clients))
	for _, client := range clients {
		entry := TopClient{ID: client.ID, Name: client.Name}
		for _, inv := range paid {
			if inv.ClientID == client.ID {
				entry.Amount += amount(inv.Amount)
				entry.Count++
			}
		}
		if entry.Amount > 0 {
			top = append(top, entry)
		}
	}
	sort.SliceStable(top, func(i, j int) bool { return top[i].Amount > top[j].Amount })
	if len(top) > 5 {
		top = top[:5]
	}

	var expenseRatio float64
	if totalIncome > 0 {
		expenseRatio = totalExpenses / totalIncome * 100
	}

	var totalBilled float64
	for _, inv := range invoices {
		totalBilled += amount(inv.Amount)
	}
	var collectionRate float64
	if totalBilled > 0 {
		collectionRate = totalIncome / totalBilled * 100
	}

	return KPIData{
		DSO:                  dso,
		ProfitMargin:         round1(profitMargin),
		MonthlyGrowth:        round1(monthlyGrowth),
		OverduePercentage:    round1(overduePct),
		OverdueCount:         len(overdue),
		TopClients:           top,
		ExpenseToIncomeRatio: round1(expenseRatio),
		CollectionRate:       round1(collectionRate),
	}
}
