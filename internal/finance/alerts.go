package finance

import (
	"sort"
	"time"
)

// AlertType tags a payment alert for display and sort priority.
type AlertType string

const (
	AlertOverdue  AlertType = "overdue"
	AlertUpcoming AlertType = "upcoming"
	AlertPartial  AlertType = "partial"
)

// DefaultAlertWindowDays is the forward window for upcoming-due alerts.
const DefaultAlertWindowDays = 7

// PaymentAlert flags one invoice that needs collection attention.
// Amount is the remaining balance, not the original invoice total.
type PaymentAlert struct {
	ID            string    `json:"id"`
	Type          AlertType `json:"type"`
	ClientID      string    `json:"clientId"`
	ClientName    string    `json:"clientName"`
	InvoiceID     string    `json:"invoiceId"`
	InvoiceNumber string    `json:"invoiceNumber"`
	Amount        float64   `json:"amount"`
	DueDate       time.Time `json:"dueDate"`
	DaysRemaining int       `json:"daysRemaining,omitempty"`
	DaysOverdue   int       `json:"daysOverdue,omitempty"`
}

// BuildAlerts produces the prioritised alert feed. Every open invoice
// with a remaining balance and a due date yields an overdue alert (due
// date passed) or an upcoming alert (due within windowDays); an invoice
// with partial payments additionally yields a partial alert, so a single
// invoice can surface twice.
//
// Ordering is fixed: every overdue alert precedes every other alert no
// matter the amounts involved, and within each partition alerts ascend
// by due date.
func BuildAlerts(invoices []Invoice, payments []Payment, clients []Client, now time.Time, windowDays int) []PaymentAlert {
	if windowDays <= 0 {
		windowDays = DefaultAlertWindowDays
	}
	names := make(map[string]string, len(clients))
	for _, c := range clients {
		names[c.ID] = c.Name
	}
	paidTotals := sumPaymentsByInvoice(payments)

	alerts := make([]PaymentAlert, 0)
	for _, inv := range invoices {
		if inv.Status == InvoicePaid || inv.Status == InvoiceCancelled {
			continue
		}
		if inv.DueDate == nil {
			continue
		}
		paid := paidTotals[inv.ID]
		remaining := amount(inv.Amount) - paid
		if remaining <= 0 {
			continue
		}

		base := PaymentAlert{
			ClientID:      inv.ClientID,
			ClientName:    names[inv.ClientID],
			InvoiceID:     inv.ID,
			InvoiceNumber: inv.Number,
			Amount:        remaining,
			DueDate:       *inv.DueDate,
		}

		daysDiff := daysBetween(*inv.DueDate, now)
		if daysDiff < 0 {
			alert := base
			alert.ID = "overdue-" + inv.ID
			alert.Type = AlertOverdue
			alert.DaysOverdue = -daysDiff
			alerts = append(alerts, alert)
		} else if daysDiff <= windowDays {
			alert := base
			alert.ID = "upcoming-" + inv.ID
			alert.Type = AlertUpcoming
			alert.DaysRemaining = daysDiff
			alerts = append(alerts, alert)
		}

		if paid > 0 {
			alert := base
			alert.ID = "partial-" + inv.ID
			alert.Type = AlertPartial
			alerts = append(alerts, alert)
		}
	}

	sort.SliceStable(alerts, func(i, j int) bool {
		if (alerts[i].Type == AlertOverdue) != (alerts[j].Type == AlertOverdue) {
			return alerts[i].Type == AlertOverdue
		}
		return alerts[i].DueDate.Before(alerts[j].DueDate)
	})
	return alerts
}
