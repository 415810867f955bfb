package records

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/praxisledger/praxisledger/internal/finance"
)

type memoryRepo struct {
	clients  []finance.Client
	invoices map[string]finance.Invoice
	expenses []finance.Expense
	payments []finance.Payment
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{invoices: make(map[string]finance.Invoice)}
}

func (r *memoryRepo) CreateClient(ctx context.Context, client finance.Client) error {
	r.clients = append(r.clients, client)
	return nil
}

func (r *memoryRepo) ListClients(ctx context.Context) ([]finance.Client, error) {
	return r.clients, nil
}

func (r *memoryRepo) CreateInvoice(ctx context.Context, inv finance.Invoice) error {
	r.invoices[inv.ID] = inv
	return nil
}

func (r *memoryRepo) GetInvoice(ctx context.Context, id string) (finance.Invoice, error) {
	inv, ok := r.invoices[id]
	if !ok {
		return finance.Invoice{}, ErrNotFound
	}
	return inv, nil
}

func (r *memoryRepo) ListInvoices(ctx context.Context) ([]finance.Invoice, error) {
	out := make([]finance.Invoice, 0, len(r.invoices))
	for _, inv := range r.invoices {
		out = append(out, inv)
	}
	return out, nil
}

func (r *memoryRepo) CreateExpense(ctx context.Context, exp finance.Expense) error {
	r.expenses = append(r.expenses, exp)
	return nil
}

func (r *memoryRepo) ListExpenses(ctx context.Context) ([]finance.Expense, error) {
	return r.expenses, nil
}

func (r *memoryRepo) CreatePayment(ctx context.Context, p finance.Payment) error {
	r.payments = append(r.payments, p)
	return nil
}

func (r *memoryRepo) ListPayments(ctx context.Context) ([]finance.Payment, error) {
	return r.payments, nil
}

func (r *memoryRepo) ListPaymentsByInvoice(ctx context.Context, invoiceID string) ([]finance.Payment, error) {
	var out []finance.Payment
	for _, p := range r.payments {
		if p.InvoiceID == invoiceID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *memoryRepo) MarkInvoicePaid(ctx context.Context, id string, paidDate time.Time) error {
	inv, ok := r.invoices[id]
	if !ok {
		return ErrNotFound
	}
	inv.Status = finance.InvoicePaid
	inv.PaidDate = &paidDate
	r.invoices[id] = inv
	return nil
}

type countingBumper struct {
	bumps int
}

func (b *countingBumper) Bump(ctx context.Context) error {
	b.bumps++
	return nil
}

func TestCreateClientAssignsID(t *testing.T) {
	repo := newMemoryRepo()
	bumper := &countingBumper{}
	svc := NewService(repo, bumper)

	client, err := svc.CreateClient(context.Background(), CreateClientInput{Name: "Alon Studio"})
	require.NoError(t, err)
	require.NotEmpty(t, client.ID)
	require.Equal(t, "Alon Studio", client.Name)
	require.Equal(t, 1, bumper.bumps, "mutations must invalidate derived reports")
}

func TestCreateClientRejectsEmptyName(t *testing.T) {
	svc := NewService(newMemoryRepo(), nil)
	_, err := svc.CreateClient(context.Background(), CreateClientInput{})
	require.Error(t, err)
}

func TestCreateInvoiceValidation(t *testing.T) {
	svc := NewService(newMemoryRepo(), nil)
	_, err := svc.CreateInvoice(context.Background(), CreateInvoiceInput{
		Number:    "INV-1",
		ClientID:  "not-a-uuid",
		Amount:    100,
		Status:    "sent",
		IssueDate: time.Now(),
	})
	require.Error(t, err)

	_, err = svc.CreateInvoice(context.Background(), CreateInvoiceInput{
		Number:    "INV-1",
		ClientID:  "0b961454-96c2-4f2e-bd1c-18ea70e2b696",
		Amount:    100,
		Status:    "mailed",
		IssueDate: time.Now(),
	})
	require.Error(t, err, "unknown status must be rejected")
}

func TestRecordPaymentPromotesInvoice(t *testing.T) {
	repo := newMemoryRepo()
	bumper := &countingBumper{}
	svc := NewService(repo, bumper)
	paidAt := time.Date(2026, time.August, 20, 0, 0, 0, 0, time.UTC)
	svc.WithNow(func() time.Time { return paidAt })

	inv, err := svc.CreateInvoice(context.Background(), CreateInvoiceInput{
		Number:    "INV-1",
		ClientID:  "0b961454-96c2-4f2e-bd1c-18ea70e2b696",
		Amount:    1000,
		Status:    "sent",
		IssueDate: paidAt.AddDate(0, -1, 0),
	})
	require.NoError(t, err)

	_, err = svc.RecordPayment(context.Background(), inv.ID, CreatePaymentInput{
		Amount: 400, PaidAt: paidAt, Method: "transfer",
	})
	require.NoError(t, err)
	stored, err := repo.GetInvoice(context.Background(), inv.ID)
	require.NoError(t, err)
	require.Equal(t, finance.InvoiceSent, stored.Status, "partial payment must not settle the invoice")

	_, err = svc.RecordPayment(context.Background(), inv.ID, CreatePaymentInput{
		Amount: 600, PaidAt: paidAt, Method: "transfer",
	})
	require.NoError(t, err)
	stored, err = repo.GetInvoice(context.Background(), inv.ID)
	require.NoError(t, err)
	require.Equal(t, finance.InvoicePaid, stored.Status, "covering payments must settle the invoice")
	require.NotNil(t, stored.PaidDate)
	require.True(t, stored.PaidDate.Equal(paidAt))
}

func TestListInvoicePaymentsUnknownInvoice(t *testing.T) {
	svc := NewService(newMemoryRepo(), nil)
	_, err := svc.ListInvoicePayments(context.Background(), "missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRecordPaymentUnknownInvoice(t *testing.T) {
	svc := NewService(newMemoryRepo(), nil)
	_, err := svc.RecordPayment(context.Background(), "missing", CreatePaymentInput{
		Amount: 10, PaidAt: time.Now(), Method: "cash",
	})
	require.ErrorIs(t, err, ErrNotFound)
}
