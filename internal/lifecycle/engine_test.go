package lifecycle_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenciaiam/crm/internal/activity"
	activityStore "github.com/agenciaiam/crm/internal/activity/store"
	"github.com/agenciaiam/crm/internal/apperr"
	"github.com/agenciaiam/crm/internal/client"
	clientStore "github.com/agenciaiam/crm/internal/client/store"
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
	engine   *lifecycle.Engine
	clients  *client.Service
	quotes   *quote.Service
	projects *project.Service
	invoices *invoice.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	rs, err := storage.New(t.TempDir(), 10)
	require.NoError(t, err)

	var (
		clientRepo   = clientStore.New(rs)
		quoteRepo    = quoteStore.New(rs)
		projectRepo  = projectStore.New(rs)
		invoiceRepo  = invoiceStore.New(rs)
		activityRepo = activityStore.New(rs)
	)

	var (
		clients    = client.NewService(clientRepo)
		quotes     = quote.NewService(quoteRepo, clients)
		projects   = project.NewService(projectRepo, clients)
		invoices   = invoice.NewService(invoiceRepo, clients, projects)
		activities = activity.NewService(activityRepo)
	)

	return &fixture{
		engine:   lifecycle.NewEngine(quoteRepo, projectRepo, invoiceRepo, clients, activities),
		clients:  clients,
		quotes:   quotes,
		projects: projects,
		invoices: invoices,
	}
}

func (f *fixture) createClient(t *testing.T, name string) *client.Client {
	t.Helper()

	c, err := f.clients.Create(context.Background(), client.CreateParams{
		Name:   name,
		Status: client.StatusActive,
	})
	require.NoError(t, err)

	return c
}

func (f *fixture) createQuote(t *testing.T, clientID string, amount int64, status quote.Status) *quote.Quote {
	t.Helper()

	q, err := f.quotes.Create(context.Background(), quote.CreateParams{
		ClientID:      clientID,
		Items:         []string{"Marketing Digital Integral"},
		Amount:        amount,
		Probability:   70,
		InitialStatus: status,
	})
	require.NoError(t, err)

	return q
}

func TestEngine_QuoteApprovalCreatesProject(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	acme := f.createClient(t, "Acme")
	q := f.createQuote(t, acme.ID, 500000, quote.StatusSent)

	approved, err := f.engine.TransitionQuote(ctx, q.ID, quote.StatusApproved)
	require.NoError(t, err)

	assert.Equal(t, quote.StatusApproved, approved.Status)
	require.NotEmpty(t, approved.ProjectID)

	p, err := f.projects.Get(ctx, approved.ProjectID)
	require.NoError(t, err)

	assert.Equal(t, acme.ID, p.ClientID)
	assert.Equal(t, project.StatusPlanning, p.Status)
	assert.Equal(t, int64(500000), p.Budget)
	assert.Equal(t, q.ID, p.QuoteID)

	// Retrying the approval hits the terminal-state rule and must not
	// produce a second project.
	_, err = f.engine.TransitionQuote(ctx, q.ID, quote.StatusApproved)
	assert.True(t, apperr.IsInvalidTransition(err))

	projects, err := f.projects.List(ctx, project.ListFilter{})
	require.NoError(t, err)
	assert.Len(t, projects, 1)
}

func TestEngine_ApprovalRecreatesDeletedClient(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	acme := f.createClient(t, "Acme")
	q := f.createQuote(t, acme.ID, 300000, quote.StatusSent)

	require.NoError(t, f.clients.RequestDelete(ctx, acme.ID))
	require.NoError(t, f.clients.ConfirmDelete(ctx, acme.ID))

	approved, err := f.engine.TransitionQuote(ctx, q.ID, quote.StatusApproved)
	require.NoError(t, err)

	// The client was re-created from the quote's snapshot under a fresh ID.
	assert.NotEqual(t, acme.ID, approved.ClientID)

	recreated, err := f.clients.Get(ctx, approved.ClientID)
	require.NoError(t, err)
	assert.Equal(t, "Acme", recreated.Name)

	p, err := f.projects.Get(ctx, approved.ProjectID)
	require.NoError(t, err)
	assert.Equal(t, recreated.ID, p.ClientID)
}

func TestEngine_ApprovalMatchesExistingClientByName(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first := f.createClient(t, "Acme")
	q := f.createQuote(t, first.ID, 300000, quote.StatusSent)

	require.NoError(t, f.clients.RequestDelete(ctx, first.ID))
	require.NoError(t, f.clients.ConfirmDelete(ctx, first.ID))

	// A client with the exact same name already exists again: the engine
	// must reuse it instead of creating a duplicate.
	second := f.createClient(t, "Acme")

	approved, err := f.engine.TransitionQuote(ctx, q.ID, quote.StatusApproved)
	require.NoError(t, err)
	assert.Equal(t, second.ID, approved.ClientID)

	all, err := f.clients.List(ctx, client.ListFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestEngine_TransitionQuoteRejectsInvalidMoves(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	acme := f.createClient(t, "Acme")

	t.Run("DraftCannotGoPending", func(t *testing.T) {
		q := f.createQuote(t, acme.ID, 100000, quote.StatusDraft)

		_, err := f.engine.TransitionQuote(ctx, q.ID, quote.StatusPending)
		assert.True(t, apperr.IsInvalidTransition(err))

		// The stored record is untouched.
		got, getErr := f.quotes.Get(ctx, q.ID)
		require.NoError(t, getErr)
		assert.Equal(t, quote.StatusDraft, got.Status)
	})

	t.Run("TerminalStatesAreFinal", func(t *testing.T) {
		q := f.createQuote(t, acme.ID, 100000, quote.StatusSent)

		_, err := f.engine.TransitionQuote(ctx, q.ID, quote.StatusRejected)
		require.NoError(t, err)

		for _, to := range []quote.Status{quote.StatusSent, quote.StatusApproved, quote.StatusPending} {
			_, err := f.engine.TransitionQuote(ctx, q.ID, to)
			assert.True(t, apperr.IsInvalidTransition(err), "rejected -> %s", to)
		}
	})

	t.Run("UnknownStatus", func(t *testing.T) {
		q := f.createQuote(t, acme.ID, 100000, quote.StatusSent)

		_, err := f.engine.TransitionQuote(ctx, q.ID, quote.Status("aprobada"))
		assert.True(t, apperr.IsValidation(err))
	})

	t.Run("UnknownQuote", func(t *testing.T) {
		_, err := f.engine.TransitionQuote(ctx, "COT999", quote.StatusApproved)
		assert.True(t, apperr.IsNotFound(err))
	})
}

func TestEngine_DraftToSentStampsSentAt(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	acme := f.createClient(t, "Acme")
	q := f.createQuote(t, acme.ID, 100000, quote.StatusDraft)
	require.Nil(t, q.SentAt)

	sent, err := f.engine.TransitionQuote(ctx, q.ID, quote.StatusSent)
	require.NoError(t, err)
	assert.NotNil(t, sent.SentAt)
}

func TestEngine_TransitionProject(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	acme := f.createClient(t, "Acme")

	p, err := f.projects.Create(ctx, project.CreateParams{
		ClientID: acme.ID,
		Name:     "Portal Pacientes",
		Budget:   850000,
	})
	require.NoError(t, err)
	require.Equal(t, project.StatusPlanning, p.Status)

	// Planning can only start work.
	_, err = f.engine.TransitionProject(ctx, p.ID, project.StatusCompleted)
	assert.True(t, apperr.IsInvalidTransition(err))

	_, err = f.engine.TransitionProject(ctx, p.ID, project.StatusInProgress)
	require.NoError(t, err)

	_, err = f.engine.TransitionProject(ctx, p.ID, project.StatusPaused)
	require.NoError(t, err)

	_, err = f.engine.TransitionProject(ctx, p.ID, project.StatusCompleted)
	assert.True(t, apperr.IsInvalidTransition(err), "paused can only resume")

	_, err = f.engine.TransitionProject(ctx, p.ID, project.StatusInProgress)
	require.NoError(t, err)

	done, err := f.engine.TransitionProject(ctx, p.ID, project.StatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, project.StatusCompleted, done.Status)

	_, err = f.engine.TransitionProject(ctx, p.ID, project.StatusInProgress)
	assert.True(t, apperr.IsInvalidTransition(err), "completed is terminal")
}

func TestEngine_MarkInvoicePaid(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	acme := f.createClient(t, "Acme")

	t.Run("OverdueInvoiceCanBePaid", func(t *testing.T) {
		inv, err := f.invoices.Create(ctx, invoice.CreateParams{
			ClientID: acme.ID,
			Amount:   200000,
			DueAt:    time.Now().UTC().Add(-48 * time.Hour),
		})
		require.NoError(t, err)

		got, err := f.invoices.Get(ctx, inv.ID)
		require.NoError(t, err)
		require.Equal(t, invoice.StatusOverdue, got.Status)

		paid, err := f.engine.MarkInvoicePaid(ctx, inv.ID)
		require.NoError(t, err)
		assert.Equal(t, invoice.StatusPaid, paid.Status)
		assert.NotNil(t, paid.PaidAt)

		// Paid sticks on later reads even though the due date is past.
		got, err = f.invoices.Get(ctx, inv.ID)
		require.NoError(t, err)
		assert.Equal(t, invoice.StatusPaid, got.Status)
	})

	t.Run("PaidIsTerminal", func(t *testing.T) {
		inv, err := f.invoices.Create(ctx, invoice.CreateParams{
			ClientID: acme.ID,
			Amount:   100000,
			DueAt:    time.Now().UTC().Add(30 * 24 * time.Hour),
		})
		require.NoError(t, err)

		_, err = f.engine.MarkInvoicePaid(ctx, inv.ID)
		require.NoError(t, err)

		_, err = f.engine.MarkInvoicePaid(ctx, inv.ID)
		assert.True(t, apperr.IsInvalidTransition(err))
	})
}
