package dashboard_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenciaiam/crm/internal/activity"
	activityStore "github.com/agenciaiam/crm/internal/activity/store"
	"github.com/agenciaiam/crm/internal/client"
	clientStore "github.com/agenciaiam/crm/internal/client/store"
	"github.com/agenciaiam/crm/internal/dashboard"
	"github.com/agenciaiam/crm/internal/invoice"
	invoiceStore "github.com/agenciaiam/crm/internal/invoice/store"
	"github.com/agenciaiam/crm/internal/lifecycle"
	"github.com/agenciaiam/crm/internal/project"
	projectStore "github.com/agenciaiam/crm/internal/project/store"
	"github.com/agenciaiam/crm/internal/quote"
	quoteStore "github.com/agenciaiam/crm/internal/quote/store"
	"github.com/agenciaiam/crm/internal/storage"
)

type fixture struct {
	dashboard *dashboard.Service
	engine    *lifecycle.Engine
	clients   *client.Service
	quotes    *quote.Service
	projects  *project.Service
	invoices  *invoice.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	rs, err := storage.New(t.TempDir(), 10)
	require.NoError(t, err)

	quoteRepo := quoteStore.New(rs)
	projectRepo := projectStore.New(rs)
	invoiceRepo := invoiceStore.New(rs)

	clients := client.NewService(clientStore.New(rs))
	quotes := quote.NewService(quoteRepo, clients)
	projects := project.NewService(projectRepo, clients)
	invoices := invoice.NewService(invoiceRepo, clients, projects)
	activities := activity.NewService(activityStore.New(rs))

	return &fixture{
		dashboard: dashboard.NewService(clients, quotes, projects, invoices),
		engine:    lifecycle.NewEngine(quoteRepo, projectRepo, invoiceRepo, clients, activities),
		clients:   clients,
		quotes:    quotes,
		projects:  projects,
		invoices:  invoices,
	}
}

func TestService_Snapshot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	histocell, err := f.clients.Create(ctx, client.CreateParams{
		Name:            "Histocell",
		Industry:        "Salud",
		Status:          client.StatusActive,
		MonthlyRetainer: 600000,
	})
	require.NoError(t, err)

	cefes, err := f.clients.Create(ctx, client.CreateParams{
		Name:     "Cefes Garage",
		Industry: "Automotriz",
		Status:   client.StatusProspect,
	})
	require.NoError(t, err)

	// Quote one closes won: its approval spawns a planning project with the
	// quote amount as budget.
	won, err := f.quotes.Create(ctx, quote.CreateParams{
		ClientID:      histocell.ID,
		Items:         []string{"Marketing Integral"},
		Amount:        500000,
		InitialStatus: quote.StatusSent,
	})
	require.NoError(t, err)

	_, err = f.engine.TransitionQuote(ctx, won.ID, quote.StatusApproved)
	require.NoError(t, err)

	// Quote two stays open in the pipeline.
	_, err = f.quotes.Create(ctx, quote.CreateParams{
		ClientID:      cefes.ID,
		Items:         []string{"Sitio Web"},
		Amount:        300000,
		InitialStatus: quote.StatusSent,
	})
	require.NoError(t, err)

	// Quote three closes lost.
	lost, err := f.quotes.Create(ctx, quote.CreateParams{
		ClientID:      cefes.ID,
		Items:         []string{"Campaña Redes"},
		Amount:        200000,
		InitialStatus: quote.StatusSent,
	})
	require.NoError(t, err)

	_, err = f.engine.TransitionQuote(ctx, lost.ID, quote.StatusRejected)
	require.NoError(t, err)

	// Quote four is a draft: neither open pipeline nor closed.
	_, err = f.quotes.Create(ctx, quote.CreateParams{
		ClientID: histocell.ID,
		Items:    []string{"Branding"},
		Amount:   100000,
	})
	require.NoError(t, err)

	web, err := f.projects.Create(ctx, project.CreateParams{
		ClientID: cefes.ID,
		Name:     "Sitio Web Cefes",
		Budget:   800000,
	})
	require.NoError(t, err)

	_, err = f.engine.TransitionProject(ctx, web.ID, project.StatusInProgress)
	require.NoError(t, err)

	paid, err := f.invoices.Create(ctx, invoice.CreateParams{
		ClientID: histocell.ID,
		Amount:   450000,
		DueAt:    time.Now().UTC().Add(30 * 24 * time.Hour),
	})
	require.NoError(t, err)

	_, err = f.engine.MarkInvoicePaid(ctx, paid.ID)
	require.NoError(t, err)

	_, err = f.invoices.Create(ctx, invoice.CreateParams{
		ClientID: cefes.ID,
		Amount:   120000,
		DueAt:    time.Now().UTC().Add(30 * 24 * time.Hour),
	})
	require.NoError(t, err)

	m, err := f.dashboard.Snapshot(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, m.ActiveClients)
	assert.Equal(t, map[string]int{"active": 1, "prospect": 1}, m.ClientsByStatus)
	assert.Equal(t, map[string]int{"Salud": 1, "Automotriz": 1}, m.ClientsByIndustry)

	assert.Equal(t, int64(600000), m.MonthlyRecurring)
	assert.Equal(t, int64(450000), m.PaidInvoiceRevenue)
	assert.Equal(t, int64(1050000), m.TotalRevenue)

	assert.Equal(t, 1, m.OpenQuotes, "only the sent quote is open pipeline")
	assert.Equal(t, int64(300000), m.PipelineValue)
	assert.Equal(t, int64(275000), m.AverageQuoteValue)
	assert.InDelta(t, 0.5, m.ConversionRate, 1e-9, "one approved out of two closed")

	assert.Equal(t, 1, m.ActiveProjects)
	assert.Equal(t, map[string]int64{
		"planning":    500000,
		"in_progress": 800000,
	}, m.ProjectValueByStatus)
}

func TestService_SnapshotEmpty(t *testing.T) {
	f := newFixture(t)

	m, err := f.dashboard.Snapshot(context.Background())
	require.NoError(t, err)

	assert.Zero(t, m.TotalRevenue)
	assert.Zero(t, m.AverageQuoteValue, "no quotes means no averaging")
	assert.Zero(t, m.ConversionRate, "no closed quotes means no rate")
	assert.Empty(t, m.ClientsByStatus)
}
