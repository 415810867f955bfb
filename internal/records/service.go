package records

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/praxisledger/praxisledger/internal/finance"
)

// RepositoryPort defines the persistence operations the service needs.
type RepositoryPort interface {
	CreateClient(ctx context.Context, client finance.Client) error
	ListClients(ctx context.Context) ([]finance.Client, error)
	CreateInvoice(ctx context.Context, inv finance.Invoice) error
	GetInvoice(ctx context.Context, id string) (finance.Invoice, error)
	ListInvoices(ctx context.Context) ([]finance.Invoice, error)
	CreateExpense(ctx context.Context, exp finance.Expense) error
	ListExpenses(ctx context.Context) ([]finance.Expense, error)
	CreatePayment(ctx context.Context, p finance.Payment) error
	ListPayments(ctx context.Context) ([]finance.Payment, error)
	ListPaymentsByInvoice(ctx context.Context, invoiceID string) ([]finance.Payment, error)
	MarkInvoicePaid(ctx context.Context, id string, paidDate time.Time) error
}

// CacheBumper invalidates derived-report caches after a write.
type CacheBumper interface {
	Bump(ctx context.Context) error
}

// Service validates inputs and persists ledger records. Every mutation
// bumps the finance cache so derived reports never serve stale data.
type Service struct {
	repo     RepositoryPort
	bumper   CacheBumper
	validate *validator.Validate
	now      func() time.Time
}

// NewService builds the records service.
func NewService(repo RepositoryPort, bumper CacheBumper) *Service {
	return &Service{
		repo:     repo,
		bumper:   bumper,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		now:      time.Now,
	}
}

// WithNow overrides the service clock for testing.
func (s *Service) WithNow(fn func() time.Time) {
	if fn != nil {
		s.now = fn
	}
}

func (s *Service) bump(ctx context.Context) {
	if s.bumper != nil {
		_ = s.bumper.Bump(ctx)
	}
}

// CreateClient validates and stores a new client.
func (s *Service) CreateClient(ctx context.Context, input CreateClientInput) (finance.Client, error) {
	if err := s.validate.Struct(input); err != nil {
		return finance.Client{}, fmt.Errorf("records: validate client: %w", err)
	}
	client := finance.Client{ID: uuid.NewString(), Name: input.Name}
	if err := s.repo.CreateClient(ctx, client); err != nil {
		return finance.Client{}, err
	}
	s.bump(ctx)
	return client, nil
}

// ListClients returns every client record.
func (s *Service) ListClients(ctx context.Context) ([]finance.Client, error) {
	return s.repo.ListClients(ctx)
}

// CreateInvoice validates and stores a new invoice.
func (s *Service) CreateInvoice(ctx context.Context, input CreateInvoiceInput) (finance.Invoice, error) {
	if err := s.validate.Struct(input); err != nil {
		return finance.Invoice{}, fmt.Errorf("records: validate invoice: %w", err)
	}
	inv := finance.Invoice{
		ID:        uuid.NewString(),
		Number:    input.Number,
		ClientID:  input.ClientID,
		ProjectID: input.ProjectID,
		Amount:    input.Amount,
		Status:    finance.InvoiceStatus(input.Status),
		IssueDate: input.IssueDate,
		DueDate:   input.DueDate,
		PaidDate:  input.PaidDate,
	}
	if err := s.repo.CreateInvoice(ctx, inv); err != nil {
		return finance.Invoice{}, err
	}
	s.bump(ctx)
	return inv, nil
}

// ListInvoices returns every invoice record.
func (s *Service) ListInvoices(ctx context.Context) ([]finance.Invoice, error) {
	return s.repo.ListInvoices(ctx)
}

// CreateExpense validates and stores a new expense.
func (s *Service) CreateExpense(ctx context.Context, input CreateExpenseInput) (finance.Expense, error) {
	if err := s.validate.Struct(input); err != nil {
		return finance.Expense{}, fmt.Errorf("records: validate expense: %w", err)
	}
	exp := finance.Expense{
		ID:          uuid.NewString(),
		Description: input.Description,
		Amount:      input.Amount,
		Category:    finance.ExpenseCategory(input.Category),
		Date:        input.Date,
		HasVAT:      input.HasVAT,
		Recurring:   input.Recurring,
	}
	if err := s.repo.CreateExpense(ctx, exp); err != nil {
		return finance.Expense{}, err
	}
	s.bump(ctx)
	return exp, nil
}

// ListExpenses returns every expense record.
func (s *Service) ListExpenses(ctx context.Context) ([]finance.Expense, error) {
	return s.repo.ListExpenses(ctx)
}

// RecordPayment validates and stores a partial payment against an
// invoice. When the accumulated payments cover the invoice amount the
// invoice status is promoted to paid, dated by the service clock.
func (s *Service) RecordPayment(ctx context.Context, invoiceID string, input CreatePaymentInput) (finance.Payment, error) {
	if err := s.validate.Struct(input); err != nil {
		return finance.Payment{}, fmt.Errorf("records: validate payment: %w", err)
	}
	inv, err := s.repo.GetInvoice(ctx, invoiceID)
	if err != nil {
		return finance.Payment{}, err
	}

	payment := finance.Payment{
		ID:        uuid.NewString(),
		InvoiceID: inv.ID,
		Amount:    input.Amount,
		PaidAt:    input.PaidAt,
		Method:    input.Method,
	}
	if err := s.repo.CreatePayment(ctx, payment); err != nil {
		return finance.Payment{}, err
	}

	payments, err := s.repo.ListPaymentsByInvoice(ctx, inv.ID)
	if err != nil {
		return finance.Payment{}, err
	}
	var covered float64
	for _, p := range payments {
		covered += p.Amount
	}
	if covered >= inv.Amount && inv.Status != finance.InvoicePaid {
		if err := s.repo.MarkInvoicePaid(ctx, inv.ID, s.now()); err != nil {
			return finance.Payment{}, err
		}
	}

	s.bump(ctx)
	return payment, nil
}

// ListPayments returns every partial payment record.
func (s *Service) ListPayments(ctx context.Context) ([]finance.Payment, error) {
	return s.repo.ListPayments(ctx)
}

// ListInvoicePayments returns the payments recorded against one invoice.
func (s *Service) ListInvoicePayments(ctx context.Context, invoiceID string) ([]finance.Payment, error) {
	if _, err := s.repo.GetInvoice(ctx, invoiceID); err != nil {
		return nil, err
	}
	return s.repo.ListPaymentsByInvoice(ctx, invoiceID)
}
