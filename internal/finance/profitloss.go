package finance

import (
	"sort"
	"time"
)

// ClientIncome attributes paid revenue to one client.
type ClientIncome struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

// MonthAmount is one of twelve fixed month buckets.
type MonthAmount struct {
	Month  time.Month `json:"month"`
	Amount float64    `json:"amount"`
}

// CategoryAmount totals expenses for one category.
type CategoryAmount struct {
	Category ExpenseCategory `json:"category"`
	Amount   float64         `json:"amount"`
}

// ProfitLossData is the structured P&L report.
type ProfitLossData struct {
	TotalIncome        float64          `json:"totalIncome"`
	IncomeBeforeVAT    float64          `json:"incomeBeforeVat"`
	VATOnIncome        float64          `json:"vatOnIncome"`
	TotalExpenses      float64          `json:"totalExpenses"`
	ExpensesBeforeVAT  float64          `json:"expensesBeforeVat"`
	VATOnExpenses      float64          `json:"vatOnExpenses"`
	GrossProfit        float64          `json:"grossProfit"`
	NetProfit          float64          `json:"netProfit"`
	VATToPay           float64          `json:"vatToPay"`
	IncomeByClient     []ClientIncome   `json:"incomeByClient"`
	IncomeByMonth      []MonthAmount    `json:"incomeByMonth"`
	ExpensesByCategory []CategoryAmount `json:"expensesByCategory"`
	ExpensesByMonth    []MonthAmount    `json:"expensesByMonth"`
}

// BuildProfitLoss aggregates paid income and expenses into a P&L report.
// Scope is whatever the caller passed in; filter by fiscal year first
// when a single year is wanted.
//
// The month buckets key on the calendar month only and ignore the year.
// With no year filter, several years of data collapse into the same
// twelve buckets. That is the report's defined semantics, not a defect;
// changing it would silently alter every historical report.
func BuildProfitLoss(invoices []Invoice, expenses []Expense, clients []Client, vatRate float64) ProfitLossData {
	var paid []Invoice
	for _, inv := range invoices {
		if inv.Status == InvoicePaid {
			paid = append(paid, inv)
		}
	}

	var totalIncome float64
	for _, inv := range paid {
		totalIncome += amount(inv.Amount)
	}
	incomeNet := RemoveVAT(totalIncome, vatRate)
	vatOnIncome := VATAmount(totalIncome, vatRate)

	// Only the VAT-bearing expense subset is net-of-VAT'd; the rest
	// passes through gross.
	var totalExpenses, expensesWithVAT float64
	for _, exp := range expenses {
		effective := effectiveExpense(exp)
		totalExpenses += effective
		if exp.HasVAT {
			expensesWithVAT += effective
		}
	}
	expensesWithoutVAT := totalExpenses - expensesWithVAT
	vatOnExpenses := VATAmount(expensesWithVAT, vatRate)
	expensesNet := RemoveVAT(expensesWithVAT, vatRate) + expensesWithoutVAT

	byClient := make([]ClientIncome, 0, len(clients))
	for _, client := range clients {
		entry := ClientIncome{ID: client.ID, Name: client.Name}
		for _, inv := range paid {
			if inv.ClientID == client.ID {
				entry.Amount += amount(inv.Amount)
			}
		}
		if entry.Amount > 0 {
			byClient = append(byClient, entry)
		}
	}
	sort.SliceStable(byClient, func(i, j int) bool { return byClient[i].Amount > byClient[j].Amount })

	incomeByMonth := make([]MonthAmount, 0, 12)
	for m := time.January; m <= time.December; m++ {
		entry := MonthAmount{Month: m}
		for _, inv := range paid {
			if inv.PaidDate != nil && inv.PaidDate.Month() == m {
				entry.Amount += amount(inv.Amount)
			}
		}
		incomeByMonth = append(incomeByMonth, entry)
	}

	byCategory := make([]CategoryAmount, 0, len(ExpenseCategories()))
	for _, cat := range ExpenseCategories() {
		entry := CategoryAmount{Category: cat}
		for _, exp := range expenses {
			if exp.Category == cat {
				entry.Amount += effectiveExpense(exp)
			}
		}
		if entry.Amount > 0 {
			byCategory = append(byCategory, entry)
		}
	}
	sort.SliceStable(byCategory, func(i, j int) bool { return byCategory[i].Amount > byCategory[j].Amount })

	// One-time expenses land in their own month; the recurring total is
	// added identically to every bucket.
	var recurringMonthly float64
	for _, exp := range expenses {
		if exp.Recurring {
			recurringMonthly += amount(exp.Amount)
		}
	}
	expensesByMonth := make([]MonthAmount, 0, 12)
	for m := time.January; m <= time.December; m++ {
		entry := MonthAmount{Month: m, Amount: recurringMonthly}
		for _, exp := range expenses {
			if !exp.Recurring && exp.Date.Month() == m {
				entry.Amount += amount(exp.Amount)
			}
		}
		expensesByMonth = append(expensesByMonth, entry)
	}

	return ProfitLossData{
		TotalIncome:        totalIncome,
		IncomeBeforeVAT:    incomeNet,
		VATOnIncome:        vatOnIncome,
		TotalExpenses:      totalExpenses,
		ExpensesBeforeVAT:  expensesNet,
		VATOnExpenses:      vatOnExpenses,
		GrossProfit:        totalIncome - totalExpenses,
		NetProfit:          incomeNet - expensesNet,
		VATToPay:           vatOnIncome - vatOnExpenses,
		IncomeByClient:     byClient,
		IncomeByMonth:      incomeByMonth,
		ExpensesByCategory: byCategory,
		ExpensesByMonth:    expensesByMonth,
	}
}
