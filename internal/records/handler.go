package records

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/praxisledger/praxisledger/internal/finance"
	"github.com/praxisledger/praxisledger/internal/platform/httpx"
)

// RecordsService defines the operations the HTTP layer needs.
type RecordsService interface {
	CreateClient(ctx context.Context, input CreateClientInput) (finance.Client, error)
	ListClients(ctx context.Context) ([]finance.Client, error)
	CreateInvoice(ctx context.Context, input CreateInvoiceInput) (finance.Invoice, error)
	ListInvoices(ctx context.Context) ([]finance.Invoice, error)
	CreateExpense(ctx context.Context, input CreateExpenseInput) (finance.Expense, error)
	ListExpenses(ctx context.Context) ([]finance.Expense, error)
	RecordPayment(ctx context.Context, invoiceID string, input CreatePaymentInput) (finance.Payment, error)
	ListPayments(ctx context.Context) ([]finance.Payment, error)
	ListInvoicePayments(ctx context.Context, invoiceID string) ([]finance.Payment, error)
}

// Handler serves the thin record CRUD endpoints.
type Handler struct {
	logger  *slog.Logger
	service RecordsService
}

// NewHandler constructs the records HTTP handler.
func NewHandler(logger *slog.Logger, service RecordsService) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers record endpoints on the router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/clients", func(r chi.Router) {
		r.Get("/", h.listClients)
		r.Post("/", h.createClient)
	})
	r.Route("/invoices", func(r chi.Router) {
		r.Get("/", h.listInvoices)
		r.Post("/", h.createInvoice)
		r.Post("/{invoiceID}/payments", h.recordPayment)
		r.Get("/{invoiceID}/payments", h.listInvoicePayments)
	})
	r.Route("/expenses", func(r chi.Router) {
		r.Get("/", h.listExpenses)
		r.Post("/", h.createExpense)
	})
	r.Get("/payments", h.listPayments)
}

func (h *Handler) respondError(w http.ResponseWriter, op string, err error) {
	var invalid validator.ValidationErrors
	switch {
	case errors.As(err, &invalid):
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", invalid.Error())
	case errors.Is(err, ErrNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, ErrDuplicate):
		httpx.Problem(w, http.StatusConflict, "Duplicate", err.Error())
	default:
		h.logger.Error(op, slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}

func (h *Handler) listClients(w http.ResponseWriter, r *http.Request) {
	clients, err := h.service.ListClients(r.Context())
	if err != nil {
		h.respondError(w, "list clients", err)
		return
	}
	if clients == nil {
		clients = []finance.Client{}
	}
	httpx.JSON(w, http.StatusOK, clients)
}

func (h *Handler) createClient(w http.ResponseWriter, r *http.Request) {
	var input CreateClientInput
	if err := httpx.DecodeJSON(r, &input); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	client, err := h.service.CreateClient(r.Context(), input)
	if err != nil {
		h.respondError(w, "create client", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, client)
}

func (h *Handler) listInvoices(w http.ResponseWriter, r *http.Request) {
	invoices, err := h.service.ListInvoices(r.Context())
	if err != nil {
		h.respondError(w, "list invoices", err)
		return
	}
	if invoices == nil {
		invoices = []finance.Invoice{}
	}
	httpx.JSON(w, http.StatusOK, invoices)
}

func (h *Handler) createInvoice(w http.ResponseWriter, r *http.Request) {
	var input CreateInvoiceInput
	if err := httpx.DecodeJSON(r, &input); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	inv, err := h.service.CreateInvoice(r.Context(), input)
	if err != nil {
		h.respondError(w, "create invoice", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, inv)
}

func (h *Handler) listExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := h.service.ListExpenses(r.Context())
	if err != nil {
		h.respondError(w, "list expenses", err)
		return
	}
	if expenses == nil {
		expenses = []finance.Expense{}
	}
	httpx.JSON(w, http.StatusOK, expenses)
}

func (h *Handler) createExpense(w http.ResponseWriter, r *http.Request) {
	var input CreateExpenseInput
	if err := httpx.DecodeJSON(r, &input); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	exp, err := h.service.CreateExpense(r.Context(), input)
	if err != nil {
		h.respondError(w, "create expense", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, exp)
}

func (h *Handler) recordPayment(w http.ResponseWriter, r *http.Request) {
	invoiceID := chi.URLParam(r, "invoiceID")
	var input CreatePaymentInput
	if err := httpx.DecodeJSON(r, &input); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	if input.PaidAt.IsZero() {
		input.PaidAt = time.Now()
	}
	payment, err := h.service.RecordPayment(r.Context(), invoiceID, input)
	if err != nil {
		h.respondError(w, "record payment", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, payment)
}

func (h *Handler) listInvoicePayments(w http.ResponseWriter, r *http.Request) {
	invoiceID := chi.URLParam(r, "invoiceID")
	payments, err := h.service.ListInvoicePayments(r.Context(), invoiceID)
	if err != nil {
		h.respondError(w, "list invoice payments", err)
		return
	}
	if payments == nil {
		payments = []finance.Payment{}
	}
	httpx.JSON(w, http.StatusOK, payments)
}

func (h *Handler) listPayments(w http.ResponseWriter, r *http.Request) {
	payments, err := h.service.ListPayments(r.Context())
	if err != nil {
		h.respondError(w, "list payments", err)
		return
	}
	if payments == nil {
		payments = []finance.Payment{}
	}
	httpx.JSON(w, http.StatusOK, payments)
}
