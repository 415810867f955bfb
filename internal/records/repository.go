package records

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/praxisledger/praxisledger/internal/finance"
)

// ErrNotFound indicates a missing record.
var ErrNotFound = errors.New("records: not found")

// ErrDuplicate indicates a unique constraint violation.
var ErrDuplicate = errors.New("records: duplicate")

const uniqueViolation = "23505"

// Repository provides PostgreSQL backed persistence for ledger records.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func mapPgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrDuplicate
	}
	return err
}

// CreateClient inserts a client row.
func (r *Repository) CreateClient(ctx context.Context, client finance.Client) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO clients (id, name) VALUES ($1, $2)`,
		client.ID, client.Name)
	return mapPgError(err)
}

// ListClients returns all clients ordered by name.
func (r *Repository) ListClients(ctx context.Context) ([]finance.Client, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name FROM clients ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var clients []finance.Client
	for rows.Next() {
		var c finance.Client
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		clients = append(clients, c)
	}
	return clients, rows.Err()
}

// CreateInvoice inserts an invoice row.
func (r *Repository) CreateInvoice(ctx context.Context, inv finance.Invoice) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO invoices (id, number, client_id, project_id, amount, status, issue_date, due_date, paid_date)
VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7, $8, $9)`,
		inv.ID, inv.Number, inv.ClientID, inv.ProjectID, inv.Amount, string(inv.Status), inv.IssueDate, inv.DueDate, inv.PaidDate)
	return mapPgError(err)
}

// GetInvoice fetches one invoice by id.
func (r *Repository) GetInvoice(ctx context.Context, id string) (finance.Invoice, error) {
	var inv finance.Invoice
	var projectID *string
	err := r.pool.QueryRow(ctx,
		`SELECT id, number, client_id, project_id, amount, status, issue_date, due_date, paid_date
FROM invoices WHERE id = $1`, id).
		Scan(&inv.ID, &inv.Number, &inv.ClientID, &projectID, &inv.Amount, &inv.Status, &inv.IssueDate, &inv.DueDate, &inv.PaidDate)
	if errors.Is(err, pgx.ErrNoRows) {
		return finance.Invoice{}, ErrNotFound
	}
	if err != nil {
		return finance.Invoice{}, err
	}
	if projectID != nil {
		inv.ProjectID = *projectID
	}
	return inv, nil
}

// ListInvoices returns all invoices ordered by issue date, newest first.
func (r *Repository) ListInvoices(ctx context.Context) ([]finance.Invoice, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, number, client_id, project_id, amount, status, issue_date, due_date, paid_date
FROM invoices ORDER BY issue_date DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var invoices []finance.Invoice
	for rows.Next() {
		var inv finance.Invoice
		var projectID *string
		if err := rows.Scan(&inv.ID, &inv.Number, &inv.ClientID, &projectID, &inv.Amount, &inv.Status, &inv.IssueDate, &inv.DueDate, &inv.PaidDate); err != nil {
			return nil, err
		}
		if projectID != nil {
			inv.ProjectID = *projectID
		}
		invoices = append(invoices, inv)
	}
	return invoices, rows.Err()
}

// CreateExpense inserts an expense row.
func (r *Repository) CreateExpense(ctx context.Context, exp finance.Expense) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO expenses (id, description, amount, category, expense_date, has_vat, is_recurring)
VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		exp.ID, exp.Description, exp.Amount, string(exp.Category), exp.Date, exp.HasVAT, exp.Recurring)
	return mapPgError(err)
}

// ListExpenses returns all expenses ordered by date, newest first.
func (r *Repository) ListExpenses(ctx context.Context) ([]finance.Expense, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, description, amount, category, expense_date, has_vat, is_recurring
FROM expenses ORDER BY expense_date DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var expenses []finance.Expense
	for rows.Next() {
		var exp finance.Expense
		if err := rows.Scan(&exp.ID, &exp.Description, &exp.Amount, &exp.Category, &exp.Date, &exp.HasVAT, &exp.Recurring); err != nil {
			return nil, err
		}
		expenses = append(expenses, exp)
	}
	return expenses, rows.Err()
}

// CreatePayment inserts a partial payment row.
func (r *Repository) CreatePayment(ctx context.Context, p finance.Payment) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO invoice_payments (id, invoice_id, amount, payment_date, method)
VALUES ($1, $2, $3, $4, $5)`,
		p.ID, p.InvoiceID, p.Amount, p.PaidAt, p.Method)
	return mapPgError(err)
}

// ListPayments returns all partial payments.
func (r *Repository) ListPayments(ctx context.Context) ([]finance.Payment, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, invoice_id, amount, payment_date, method FROM invoice_payments ORDER BY payment_date`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var payments []finance.Payment
	for rows.Next() {
		var p finance.Payment
		if err := rows.Scan(&p.ID, &p.InvoiceID, &p.Amount, &p.PaidAt, &p.Method); err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

// ListPaymentsByInvoice returns the payments recorded against one invoice.
func (r *Repository) ListPaymentsByInvoice(ctx context.Context, invoiceID string) ([]finance.Payment, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, invoice_id, amount, payment_date, method FROM invoice_payments
WHERE invoice_id = $1 ORDER BY payment_date`, invoiceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var payments []finance.Payment
	for rows.Next() {
		var p finance.Payment
		if err := rows.Scan(&p.ID, &p.InvoiceID, &p.Amount, &p.PaidAt, &p.Method); err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

// MarkInvoicePaid flips an invoice to paid with the given paid date.
func (r *Repository) MarkInvoicePaid(ctx context.Context, id string, paidDate time.Time) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE invoices SET status = 'paid', paid_date = $2 WHERE id = $1`, id, paidDate)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
