package finance

import (
	"math"
	"testing"
	"time"
)

func TestForecastCashFlowAccumulation(t *testing.T) {
	now := day(2026, time.August, 10)
	invoices := []Invoice{
		{ID: "a", ClientID: "c1", Amount: 1000, Status: InvoiceSent,
			IssueDate: day(2026, time.July, 1), DueDate: dayPtr(2026, time.September, 15)},
		{ID: "b", ClientID: "c1", Amount: 400, Status: InvoiceOverdue,
			IssueDate: day(2026, time.June, 1), DueDate: dayPtr(2026, time.July, 1)},
	}
	expenses := []Expense{
		{ID: "e1", Amount: 100, Category: CategoryRent, Date: day(2026, time.January, 5), Recurring: true},
		{ID: "e2", Amount: 250, Category: CategoryEquipment, Date: day(2026, time.October, 3)},
	}

	forecast := ForecastCashFlow(invoices, expenses, now)
	if len(forecast) != ForecastMonths {
		t.Fatalf("expected %d months, got %d", ForecastMonths, len(forecast))
	}
	if forecast[0].CumulativeBalance != forecast[0].NetCashFlow {
		t.Fatalf("first cumulative balance must equal first net flow")
	}
	for i := 1; i < len(forecast); i++ {
		want := forecast[i-1].CumulativeBalance + forecast[i].NetCashFlow
		if math.Abs(forecast[i].CumulativeBalance-want) > 1e-9 {
			t.Fatalf("month %d: cumulative %.2f, want %.2f", i, forecast[i].CumulativeBalance, want)
		}
	}
}

func TestForecastCashFlowOverdueRecoveryScope(t *testing.T) {
	now := day(2026, time.August, 10)
	invoices := []Invoice{
		{ID: "a", ClientID: "c1", Amount: 800, Status: InvoiceOverdue,
			IssueDate: day(2026, time.May, 1), DueDate: dayPtr(2026, time.June, 1)},
		{ID: "b", ClientID: "c2", Amount: 200, Status: InvoiceOverdue,
			IssueDate: day(2026, time.May, 1), DueDate: dayPtr(2026, time.June, 15)},
	}
	forecast := ForecastCashFlow(invoices, nil, now)
	if forecast[0].OverdueRecovery != 500 {
		t.Fatalf("expected recovery 500 in first month, got %.2f", forecast[0].OverdueRecovery)
	}
	for i := 1; i < len(forecast); i++ {
		if forecast[i].OverdueRecovery != 0 {
			t.Fatalf("month %d must not carry overdue recovery", i)
		}
	}
}

func TestForecastCashFlowDueDateBuckets(t *testing.T) {
	now := day(2026, time.August, 10)
	invoices := []Invoice{
		{ID: "a", ClientID: "c1", Amount: 1000, Status: InvoiceSent,
			IssueDate: day(2026, time.July, 1), DueDate: dayPtr(2026, time.October, 1)},
		// No due date: never projected.
		{ID: "b", ClientID: "c1", Amount: 999, Status: InvoiceSent, IssueDate: day(2026, time.July, 1)},
		// Draft invoices are not expected income.
		{ID: "c", ClientID: "c1", Amount: 777, Status: InvoiceDraft,
			IssueDate: day(2026, time.July, 1), DueDate: dayPtr(2026, time.October, 5)},
	}
	forecast := ForecastCashFlow(invoices, nil, now)
	if forecast[2].ExpectedIncome != 1000 {
		t.Fatalf("October should expect 1000, got %.2f", forecast[2].ExpectedIncome)
	}
	var total float64
	for _, m := range forecast {
		total += m.ExpectedIncome
	}
	if total != 1000 {
		t.Fatalf("only the due sent invoice may be projected, got total %.2f", total)
	}
}

func TestForecastCashFlowExpenses(t *testing.T) {
	now := day(2026, time.August, 10)
	expenses := []Expense{
		{ID: "e1", Amount: 300, Category: CategoryRent, Date: day(2025, time.March, 1), Recurring: true},
		{ID: "e2", Amount: 120, Category: CategoryTravel, Date: day(2026, time.September, 20)},
	}
	forecast := ForecastCashFlow(nil, expenses, now)
	for i, m := range forecast {
		want := 300.0
		if i == 1 {
			want += 120
		}
		if m.ExpectedExpenses != want {
			t.Fatalf("month %d: expenses %.2f, want %.2f", i, m.ExpectedExpenses, want)
		}
	}
}

func TestForecastCashFlowYearRollover(t *testing.T) {
	now := day(2026, time.November, 20)
	forecast := ForecastCashFlow(nil, nil, now)
	last := forecast[len(forecast)-1]
	if last.Month.Year() != 2027 || last.Month.Month() != time.April {
		t.Fatalf("expected April 2027 as final month, got %v", last.Month)
	}
}
