// Package financehttp serves the derived finance reports over JSON.
package financehttp

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/praxisledger/praxisledger/internal/finance"
	"github.com/praxisledger/praxisledger/internal/platform/httpx"
)

// FinanceService exposes the report operations the HTTP layer needs.
type FinanceService interface {
	Overview(ctx context.Context, filter finance.OverviewFilter) (finance.Overview, error)
	Receivables(ctx context.Context) (finance.Receivables, error)
}

// Handler serves finance report endpoints.
type Handler struct {
	logger  *slog.Logger
	service FinanceService
}

// NewHandler constructs the finance HTTP handler.
func NewHandler(logger *slog.Logger, service FinanceService) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers finance endpoints on the router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/overview", h.overview)
	r.Get("/receivables", h.receivables)
}

func (h *Handler) overview(w http.ResponseWriter, r *http.Request) {
	var filter finance.OverviewFilter
	if raw := r.URL.Query().Get("year"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil || year < 1900 || year > 9999 {
			httpx.Problem(w, http.StatusBadRequest, "Invalid Year", "year must be a four digit number")
			return
		}
		filter.Year = &year
	}

	overview, err := h.service.Overview(r.Context(), filter)
	if err != nil {
		h.logger.Error("finance overview", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusOK, overview)
}

func (h *Handler) receivables(w http.ResponseWriter, r *http.Request) {
	receivables, err := h.service.Receivables(r.Context())
	if err != nil {
		h.logger.Error("finance receivables", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusOK, receivables)
}
