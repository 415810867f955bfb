package finance

import (
	"sort"
	"time"
)

// ClientDebt summarises the outstanding position of one client. It is
// recomputed from scratch on every call and never persisted.
type ClientDebt struct {
	ClientID      string     `json:"clientId"`
	ClientName    string     `json:"clientName"`
	TotalInvoiced float64    `json:"totalInvoiced"`
	TotalPaid     float64    `json:"totalPaid"`
	Outstanding   float64    `json:"outstanding"`
	OverdueAmount float64    `json:"overdueAmount"`
	NextDueDate   *time.Time `json:"nextDueDate,omitempty"`
	OverdueDays   int        `json:"overdueDays,omitempty"`
}

// DebtTotals aggregates the whole ledger's receivable position.
type DebtTotals struct {
	TotalInvoiced    float64 `json:"totalInvoiced"`
	TotalPaid        float64 `json:"totalPaid"`
	TotalOutstanding float64 `json:"totalOutstanding"`
	TotalOverdue     float64 `json:"totalOverdue"`
	ClientsWithDebt  int     `json:"clientsWithDebt"`
}

// AggregateDebts folds all non-cancelled invoices and their partial
// payments into per-client debt positions. Only clients with a positive
// outstanding balance are emitted, sorted descending by outstanding.
// Invoices without a matching client record are skipped, mirroring the
// inner join the record source performs.
func AggregateDebts(invoices []Invoice, payments []Payment, clients []Client, now time.Time) ([]ClientDebt, DebtTotals) {
	names := make(map[string]string, len(clients))
	for _, c := range clients {
		names[c.ID] = c.Name
	}
	paidTotals := sumPaymentsByInvoice(payments)

	positions := make(map[string]*ClientDebt)
	order := make([]string, 0, len(clients))

	for _, inv := range invoices {
		if inv.Status == InvoiceCancelled {
			continue
		}
		name, known := names[inv.ClientID]
		if !known {
			continue
		}

		invoiceAmount := amount(inv.Amount)
		paid := paidTotals[inv.ID]
		settled := invoiceSettled(inv, paid)
		var remaining float64
		if !settled {
			remaining = maxFloat(0, invoiceAmount-paid)
		}
		overdue := !settled && inv.DueDate != nil && inv.DueDate.Before(now)

		debt, ok := positions[inv.ClientID]
		if !ok {
			debt = &ClientDebt{ClientID: inv.ClientID, ClientName: name}
			positions[inv.ClientID] = debt
			order = append(order, inv.ClientID)
		}

		debt.TotalInvoiced += invoiceAmount
		if settled {
			debt.TotalPaid += invoiceAmount
		} else {
			debt.TotalPaid += paid
		}
		debt.Outstanding += remaining
		if overdue {
			debt.OverdueAmount += remaining
			if days := daysBetween(now, *inv.DueDate); days > debt.OverdueDays {
				debt.OverdueDays = days
			}
		}
		if !settled && inv.DueDate != nil && !inv.DueDate.Before(now) {
			if debt.NextDueDate == nil || inv.DueDate.Before(*debt.NextDueDate) {
				due := *inv.DueDate
				debt.NextDueDate = &due
			}
		}
	}

	var totals DebtTotals
	debts := make([]ClientDebt, 0, len(positions))
	for _, id := range order {
		debt := positions[id]
		totals.TotalInvoiced += debt.TotalInvoiced
		totals.TotalPaid += debt.TotalPaid
		if debt.Outstanding > 0 {
			debts = append(debts, *debt)
			totals.TotalOutstanding += debt.Outstanding
			totals.TotalOverdue += debt.OverdueAmount
		}
	}
	totals.ClientsWithDebt = len(debts)

	sort.SliceStable(debts, func(i, j int) bool { return debts[i].Outstanding > debts[j].Outstanding })
	return debts, totals
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
