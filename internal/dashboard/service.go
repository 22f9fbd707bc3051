// Package dashboard computes read-side metrics over the repositories. Every
// call rescans current state; nothing is cached, so cost is linear in record
// count.
package dashboard

import (
	"context"
	"fmt"

	"github.com/agenciaiam/crm/internal/client"
	"github.com/agenciaiam/crm/internal/invoice"
	"github.com/agenciaiam/crm/internal/project"
	"github.com/agenciaiam/crm/internal/quote"
)

type Service struct {
	clients  *client.Service
	quotes   *quote.Service
	projects *project.Service
	invoices *invoice.Service
}

func NewService(clients *client.Service, quotes *quote.Service, projects *project.Service, invoices *invoice.Service) *Service {
	return &Service{
		clients:  clients,
		quotes:   quotes,
		projects: projects,
		invoices: invoices,
	}
}

// Metrics is one dashboard snapshot. Amounts are CLP.
type Metrics struct {
	ActiveClients     int            `json:"active_clients"`
	ClientsByStatus   map[string]int `json:"clients_by_status"`
	ClientsByIndustry map[string]int `json:"clients_by_industry"`

	// TotalRevenue = paid invoices + committed monthly retainers of active
	// clients.
	MonthlyRecurring   int64 `json:"monthly_recurring"`
	PaidInvoiceRevenue int64 `json:"paid_invoice_revenue"`
	TotalRevenue       int64 `json:"total_revenue"`

	OpenQuotes        int     `json:"open_quotes"`
	PipelineValue     int64   `json:"pipeline_value"`
	AverageQuoteValue int64   `json:"average_quote_value"`
	ConversionRate    float64 `json:"conversion_rate"` // approved / all closed

	ActiveProjects       int              `json:"active_projects"`
	ProjectValueByStatus map[string]int64 `json:"project_value_by_status"`
}

// Snapshot recomputes all metrics from current repository state.
func (s *Service) Snapshot(ctx context.Context) (*Metrics, error) {
	m := &Metrics{
		ClientsByStatus:      make(map[string]int),
		ClientsByIndustry:    make(map[string]int),
		ProjectValueByStatus: make(map[string]int64),
	}

	clients, err := s.clients.List(ctx, client.ListFilter{})
	if err != nil {
		return nil, fmt.Errorf("listing clients: %w", err)
	}

	for _, c := range clients {
		m.ClientsByStatus[string(c.Status)]++

		if c.Industry != "" {
			m.ClientsByIndustry[c.Industry]++
		}

		if c.Status == client.StatusActive {
			m.ActiveClients++
			m.MonthlyRecurring += c.MonthlyRetainer
		}
	}

	quotes, err := s.quotes.List(ctx, quote.ListFilter{})
	if err != nil {
		return nil, fmt.Errorf("listing quotes: %w", err)
	}

	var (
		totalQuoteValue int64
		approved        int
		closed          int
	)

	for _, q := range quotes {
		totalQuoteValue += q.Amount

		switch {
		case q.Status == quote.StatusApproved:
			approved++
			closed++
		case q.Status.Terminal():
			closed++
		case q.Status != quote.StatusDraft:
			m.OpenQuotes++
			m.PipelineValue += q.Amount
		}
	}

	if len(quotes) > 0 {
		m.AverageQuoteValue = totalQuoteValue / int64(len(quotes))
	}

	if closed > 0 {
		m.ConversionRate = float64(approved) / float64(closed)
	}

	projects, err := s.projects.List(ctx, project.ListFilter{})
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}

	for _, p := range projects {
		m.ProjectValueByStatus[string(p.Status)] += p.Budget

		if p.Status == project.StatusInProgress {
			m.ActiveProjects++
		}
	}

	invoices, err := s.invoices.List(ctx, invoice.ListFilter{})
	if err != nil {
		return nil, fmt.Errorf("listing invoices: %w", err)
	}

	for _, inv := range invoices {
		if inv.Status == invoice.StatusPaid {
			m.PaidInvoiceRevenue += inv.Amount
		}
	}

	m.TotalRevenue = m.PaidInvoiceRevenue + m.MonthlyRecurring

	return m, nil
}
