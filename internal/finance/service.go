package finance

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

// Repository lists the record snapshots the engine consumes. The service
// never writes through this port; records are owned elsewhere.
type Repository interface {
	ListInvoices(ctx context.Context) ([]Invoice, error)
	ListExpenses(ctx context.Context) ([]Expense, error)
	ListPayments(ctx context.Context) ([]Payment, error)
	ListClients(ctx context.Context) ([]Client, error)
}

// ServiceConfig carries the engine configuration scalars.
type ServiceConfig struct {
	VATRate         float64
	AlertWindowDays int
}

// Service loads record snapshots and runs the derivation engine over
// them, with optional caching on top.
type Service struct {
	repo   Repository
	cache  *Cache
	config ServiceConfig
	now    func() time.Time
}

// NewService builds a Service. Zero config fields fall back to defaults.
func NewService(repo Repository, cache *Cache, config ServiceConfig) *Service {
	if config.VATRate <= 0 {
		config.VATRate = DefaultVATRate
	}
	if config.AlertWindowDays <= 0 {
		config.AlertWindowDays = DefaultAlertWindowDays
	}
	return &Service{repo: repo, cache: cache, config: config, now: time.Now}
}

// WithNow overrides the service clock for testing.
func (s *Service) WithNow(fn func() time.Time) {
	if fn != nil {
		s.now = fn
	}
}

// OverviewFilter scopes the overview report to one fiscal year.
type OverviewFilter struct {
	Year *int
}

// Overview bundles every per-ledger report derived from one snapshot.
type Overview struct {
	KPIs       KPIData            `json:"kpis"`
	CashFlow   []CashFlowMonth    `json:"cashFlow"`
	ProfitLoss ProfitLossData     `json:"profitLoss"`
	Breakdown  []MonthlyBreakdown `json:"monthlyBreakdown"`
}

// Receivables bundles the cross-client debt view and the alert feed.
type Receivables struct {
	Debts  []ClientDebt   `json:"debts"`
	Totals DebtTotals     `json:"totals"`
	Alerts []PaymentAlert `json:"alerts"`
}

type snapshot struct {
	invoices []Invoice
	expenses []Expense
	payments []Payment
	clients  []Client
}

func (s *Service) loadSnapshot(ctx context.Context) (snapshot, error) {
	var snap snapshot
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		snap.invoices, err = s.repo.ListInvoices(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		snap.expenses, err = s.repo.ListExpenses(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		snap.payments, err = s.repo.ListPayments(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		snap.clients, err = s.repo.ListClients(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return snapshot{}, err
	}
	return snap, nil
}

// Overview computes KPIs, cash-flow forecast, P&L and monthly breakdown
// from one snapshot-consistent load. The year filter scopes KPIs, P&L
// and the breakdown; the forecast always looks at the full ledger since
// it projects forward from today.
func (s *Service) Overview(ctx context.Context, filter OverviewFilter) (Overview, error) {
	loader := func(ctx context.Context) (interface{}, error) {
		snap, err := s.loadSnapshot(ctx)
		if err != nil {
			return nil, err
		}
		return s.buildOverview(snap, filter), nil
	}

	if s.cache == nil {
		value, err := loader(ctx)
		if err != nil {
			return Overview{}, err
		}
		return value.(Overview), nil
	}

	key, err := s.cache.BuildKey(ctx, keyOverview(filter.Year)...)
	if err != nil {
		return Overview{}, err
	}
	var overview Overview
	if err := s.cache.FetchJSON(ctx, key, &overview, loader); err != nil {
		return Overview{}, err
	}
	return overview, nil
}

func (s *Service) buildOverview(snap snapshot, filter OverviewFilter) Overview {
	now := s.now()
	invoices := snap.invoices
	expenses := snap.expenses
	if filter.Year != nil {
		invoices = FilterInvoicesByYear(invoices, *filter.Year)
		expenses = FilterExpensesByYear(expenses, *filter.Year)
	}
	return Overview{
		KPIs:       ComputeKPIs(invoices, expenses, snap.clients, s.config.VATRate, now),
		CashFlow:   ForecastCashFlow(snap.invoices, snap.expenses, now),
		ProfitLoss: BuildProfitLoss(invoices, expenses, snap.clients, s.config.VATRate),
		Breakdown:  BreakdownByMonth(invoices, expenses),
	}
}

// Receivables computes the cross-client debt table and the alert feed.
func (s *Service) Receivables(ctx context.Context) (Receivables, error) {
	loader := func(ctx context.Context) (interface{}, error) {
		snap, err := s.loadSnapshot(ctx)
		if err != nil {
			return nil, err
		}
		now := s.now()
		debts, totals := AggregateDebts(snap.invoices, snap.payments, snap.clients, now)
		alerts := BuildAlerts(snap.invoices, snap.payments, snap.clients, now, s.config.AlertWindowDays)
		return Receivables{Debts: debts, Totals: totals, Alerts: alerts}, nil
	}

	if s.cache == nil {
		value, err := loader(ctx)
		if err != nil {
			return Receivables{}, err
		}
		return value.(Receivables), nil
	}

	key, err := s.cache.BuildKey(ctx, keyReceivables()...)
	if err != nil {
		return Receivables{}, err
	}
	var recv Receivables
	if err := s.cache.FetchJSON(ctx, key, &recv, loader); err != nil {
		return Receivables{}, err
	}
	return recv, nil
}
