// Package records owns persistence of the raw ledger records the
// finance engine consumes. It is deliberately thin: create and list,
// no derivation logic.
package records

import "time"

// CreateClientInput describes a new client record.
type CreateClientInput struct {
	Name string `json:"name" validate:"required,max=200"`
}

// CreateInvoiceInput describes a new invoice. Amount is gross.
type CreateInvoiceInput struct {
	Number    string     `json:"number" validate:"required,max=50"`
	ClientID  string     `json:"clientId" validate:"required,uuid4"`
	ProjectID string     `json:"projectId,omitempty" validate:"omitempty,uuid4"`
	Amount    float64    `json:"amount" validate:"gt=0"`
	Status    string     `json:"status" validate:"oneof=draft sent paid overdue cancelled"`
	IssueDate time.Time  `json:"issueDate" validate:"required"`
	DueDate   *time.Time `json:"dueDate,omitempty"`
	PaidDate  *time.Time `json:"paidDate,omitempty"`
}

// CreateExpenseInput describes a new expense record.
type CreateExpenseInput struct {
	Description string    `json:"description,omitempty" validate:"max=500"`
	Amount      float64   `json:"amount" validate:"gt=0"`
	Category    string    `json:"category" validate:"oneof=supplier equipment rent marketing office travel software professional other"`
	Date        time.Time `json:"date" validate:"required"`
	HasVAT      bool      `json:"hasVat"`
	Recurring   bool      `json:"recurring"`
}

// CreatePaymentInput describes a partial payment against an invoice.
type CreatePaymentInput struct {
	Amount float64   `json:"amount" validate:"gt=0"`
	PaidAt time.Time `json:"paidAt" validate:"required"`
	Method string    `json:"method" validate:"oneof=cash check transfer credit_card other"`
}
