package finance

import (
	"math"
	"testing"
	"time"
)

func TestComputeKPIsEmptyInputs(t *testing.T) {
	kpis := ComputeKPIs(nil, nil, nil, 18, day(2026, time.August, 1))
	if kpis.DSO != 0 || kpis.ProfitMargin != 0 || kpis.CollectionRate != 0 {
		t.Fatalf("empty inputs must yield zeroed KPIs: %+v", kpis)
	}
	if kpis.TopClients == nil || len(kpis.TopClients) != 0 {
		t.Fatalf("top clients must be an empty slice, got %#v", kpis.TopClients)
	}
}

func TestComputeKPIsDSO(t *testing.T) {
	invoices := []Invoice{
		{ID: "a", ClientID: "c1", Amount: 1000, Status: InvoicePaid,
			IssueDate: day(2024, time.January, 1), PaidDate: dayPtr(2024, time.January, 11)},
		// Paid same day: a data anomaly, excluded instead of counted as zero.
		{ID: "b", ClientID: "c1", Amount: 500, Status: InvoicePaid,
			IssueDate: day(2024, time.February, 1), PaidDate: dayPtr(2024, time.February, 1)},
	}
	kpis := ComputeKPIs(invoices, nil, nil, 18, day(2024, time.March, 1))
	if kpis.DSO != 10 {
		t.Fatalf("expected DSO 10, got %v", kpis.DSO)
	}
}

func TestComputeKPIsDSOIgnoresMissingPaidDate(t *testing.T) {
	invoices := []Invoice{
		{ID: "a", ClientID: "c1", Amount: 1000, Status: InvoicePaid, IssueDate: day(2024, time.January, 1)},
	}
	kpis := ComputeKPIs(invoices, nil, nil, 18, day(2024, time.March, 1))
	if kpis.DSO != 0 {
		t.Fatalf("paid invoice without paid date must be excluded, got DSO %v", kpis.DSO)
	}
}

func TestComputeKPIsProfitMargin(t *testing.T) {
	invoices := []Invoice{
		{ID: "a", ClientID: "c1", Amount: 1180, Status: InvoicePaid,
			IssueDate: day(2024, time.January, 1), PaidDate: dayPtr(2024, time.January, 15)},
	}
	expenses := []Expense{
		{ID: "e1", Amount: 590, Category: CategoryOffice, Date: day(2024, time.February, 1), HasVAT: true},
	}
	kpis := ComputeKPIs(invoices, expenses, nil, 18, day(2024, time.March, 1))
	// net income 1000, net expenses 500, margin 50.0
	if kpis.ProfitMargin != 50 {
		t.Fatalf("expected margin 50, got %v", kpis.ProfitMargin)
	}
}

func TestComputeKPIsMonthlyGrowth(t *testing.T) {
	now := day(2026, time.August, 15)
	invoices := []Invoice{
		{ID: "a", ClientID: "c1", Amount: 1000, Status: InvoicePaid,
			IssueDate: day(2026, time.June, 1), PaidDate: dayPtr(2026, time.July, 10)},
		{ID: "b", ClientID: "c1", Amount: 1500, Status: InvoicePaid,
			IssueDate: day(2026, time.July, 1), PaidDate: dayPtr(2026, time.August, 3)},
	}
	kpis := ComputeKPIs(invoices, nil, nil, 18, now)
	if kpis.MonthlyGrowth != 50 {
		t.Fatalf("expected 50%% growth, got %v", kpis.MonthlyGrowth)
	}
}

func TestComputeKPIsGrowthZeroPreviousMonth(t *testing.T) {
	now := day(2026, time.August, 15)
	invoices := []Invoice{
		{ID: "a", ClientID: "c1", Amount: 1000, Status: InvoicePaid,
			IssueDate: day(2026, time.August, 1), PaidDate: dayPtr(2026, time.August, 3)},
	}
	kpis := ComputeKPIs(invoices, nil, nil, 18, now)
	if kpis.MonthlyGrowth != 0 {
		t.Fatalf("zero previous month must yield 0 growth, got %v", kpis.MonthlyGrowth)
	}
}

func TestComputeKPIsOverduePercentage(t *testing.T) {
	invoices := []Invoice{
		{ID: "a", ClientID: "c1", Amount: 300, Status: InvoiceOverdue, IssueDate: day(2026, time.May, 1)},
		{ID: "b", ClientID: "c1", Amount: 700, Status: InvoiceSent, IssueDate: day(2026, time.June, 1)},
	}
	kpis := ComputeKPIs(invoices, nil, nil, 18, day(2026, time.August, 1))
	if kpis.OverduePercentage != 30 {
		t.Fatalf("expected 30%%, got %v", kpis.OverduePercentage)
	}
	if kpis.OverdueCount != 1 {
		t.Fatalf("expected one overdue invoice, got %d", kpis.OverdueCount)
	}
}

func TestComputeKPIsTopClients(t *testing.T) {
	clients := []Client{
		{ID: "c1", Name: "Alon Studio"}, {ID: "c2", Name: "Barak Media"},
		{ID: "c3", Name: "Carmel Labs"}, {ID: "c4", Name: "Dor Design"},
		{ID: "c5", Name: "Eden Films"}, {ID: "c6", Name: "Gal Arch"},
		{ID: "c7", Name: "No Revenue Ltd"},
	}
	var invoices []Invoice
	for i, id := range []string{"c1", "c2", "c3", "c4", "c5", "c6"} {
		invoices = append(invoices, Invoice{
			ID: id + "-inv", ClientID: id, Amount: float64((i + 1) * 100), Status: InvoicePaid,
			IssueDate: day(2026, time.January, 1), PaidDate: dayPtr(2026, time.February, 1),
		})
	}
	kpis := ComputeKPIs(invoices, nil, clients, 18, day(2026, time.August, 1))
	if len(kpis.TopClients) != 5 {
		t.Fatalf("expected top 5, got %d", len(kpis.TopClients))
	}
	if kpis.TopClients[0].ID != "c6" || kpis.TopClients[0].Amount != 600 {
		t.Fatalf("unexpected leader: %+v", kpis.TopClients[0])
	}
	for _, tc := range kpis.TopClients {
		if tc.ID == "c7" || tc.ID == "c1" {
			t.Fatalf("client %s should not appear in top 5", tc.ID)
		}
	}
}

func TestComputeKPIsCollectionRate(t *testing.T) {
	invoices := []Invoice{
		{ID: "a", ClientID: "c1", Amount: 600, Status: InvoicePaid,
			IssueDate: day(2026, time.January, 1), PaidDate: dayPtr(2026, time.February, 1)},
		{ID: "b", ClientID: "c1", Amount: 400, Status: InvoiceSent, IssueDate: day(2026, time.March, 1)},
	}
	kpis := ComputeKPIs(invoices, nil, nil, 18, day(2026, time.August, 1))
	if kpis.CollectionRate != 60 {
		t.Fatalf("expected 60%%, got %v", kpis.CollectionRate)
	}
}

func TestComputeKPIsMalformedAmounts(t *testing.T) {
	invoices := []Invoice{
		{ID: "a", ClientID: "c1", Amount: math.NaN(), Status: InvoicePaid,
			IssueDate: day(2026, time.January, 1), PaidDate: dayPtr(2026, time.February, 1)},
		{ID: "b", ClientID: "c1", Amount: 100, Status: InvoicePaid,
			IssueDate: day(2026, time.January, 1), PaidDate: dayPtr(2026, time.February, 1)},
	}
	kpis := ComputeKPIs(invoices, nil, nil, 18, day(2026, time.August, 1))
	if math.IsNaN(kpis.CollectionRate) || math.IsNaN(kpis.ProfitMargin) {
		t.Fatalf("NaN amounts must not poison downstream sums: %+v", kpis)
	}
	if kpis.CollectionRate != 100 {
		t.Fatalf("expected 100%% collection on sane records, got %v", kpis.CollectionRate)
	}
}
