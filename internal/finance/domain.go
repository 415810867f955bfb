// Package finance derives business metrics from raw ledger records.
//
// Every computation in this package is a pure function of its inputs:
// record slices are never mutated, nothing is cached, and the reference
// clock is always an explicit parameter. Callers that need memoisation
// layer it on top (see Service and Cache).
package finance

import "time"

// InvoiceStatus enumerates invoice lifecycle states.
type InvoiceStatus string

const (
	InvoiceDraft     InvoiceStatus = "draft"
	InvoiceSent      InvoiceStatus = "sent"
	InvoicePaid      InvoiceStatus = "paid"
	InvoiceOverdue   InvoiceStatus = "overdue"
	InvoiceCancelled InvoiceStatus = "cancelled"
)

// ExpenseCategory enumerates the fixed expense categories.
type ExpenseCategory string

const (
	CategorySupplier     ExpenseCategory = "supplier"
	CategoryEquipment    ExpenseCategory = "equipment"
	CategoryRent         ExpenseCategory = "rent"
	CategoryMarketing    ExpenseCategory = "marketing"
	CategoryOffice       ExpenseCategory = "office"
	CategoryTravel       ExpenseCategory = "travel"
	CategorySoftware     ExpenseCategory = "software"
	CategoryProfessional ExpenseCategory = "professional"
	CategoryOther        ExpenseCategory = "other"
)

// ExpenseCategories lists every category in presentation order.
func ExpenseCategories() []ExpenseCategory {
	return []ExpenseCategory{
		CategorySupplier,
		CategoryEquipment,
		CategoryRent,
		CategoryMarketing,
		CategoryOffice,
		CategoryTravel,
		CategorySoftware,
		CategoryProfessional,
		CategoryOther,
	}
}

// Invoice is a billing record. Amount is gross, VAT inclusive.
type Invoice struct {
	ID        string        `json:"id"`
	Number    string        `json:"number"`
	ClientID  string        `json:"clientId"`
	ProjectID string        `json:"projectId,omitempty"`
	Amount    float64       `json:"amount"`
	Status    InvoiceStatus `json:"status"`
	IssueDate time.Time     `json:"issueDate"`
	DueDate   *time.Time    `json:"dueDate,omitempty"`
	PaidDate  *time.Time    `json:"paidDate,omitempty"`
}

// Payment is a partial payment applied to a single invoice. An invoice
// may carry zero or more payments; their sum decides the remaining
// balance independently of the invoice status field.
type Payment struct {
	ID        string    `json:"id"`
	InvoiceID string    `json:"invoiceId"`
	Amount    float64   `json:"amount"`
	PaidAt    time.Time `json:"paidAt"`
	Method    string    `json:"method"`
}

// Expense is a cost record. Recurring expenses contribute to every
// month's baseline regardless of their own date; HasVAT marks the subset
// with recoverable VAT.
type Expense struct {
	ID          string          `json:"id"`
	Description string          `json:"description,omitempty"`
	Amount      float64         `json:"amount"`
	Category    ExpenseCategory `json:"category"`
	Date        time.Time       `json:"date"`
	HasVAT      bool            `json:"hasVat"`
	Recurring   bool            `json:"recurring"`
}

// Client is a join key and label source for aggregations.
type Client struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// FilterInvoicesByYear keeps invoices issued in the given calendar year.
func FilterInvoicesByYear(invoices []Invoice, year int) []Invoice {
	out := make([]Invoice, 0, len(invoices))
	for _, inv := range invoices {
		if inv.IssueDate.Year() == year {
			out = append(out, inv)
		}
	}
	return out
}

// FilterExpensesByYear keeps expenses dated in the given calendar year.
func FilterExpensesByYear(expenses []Expense, year int) []Expense {
	out := make([]Expense, 0, len(expenses))
	for _, exp := range expenses {
		if exp.Date.Year() == year {
			out = append(out, exp)
		}
	}
	return out
}
