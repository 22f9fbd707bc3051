// Package lifecycle enforces status transitions for quotes, projects and
// invoices, and runs the cross-entity automation hanging off quote approval.
package lifecycle

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/agenciaiam/crm/internal/activity"
	"github.com/agenciaiam/crm/internal/apperr"
	"github.com/agenciaiam/crm/internal/client"
	"github.com/agenciaiam/crm/internal/invoice"
	"github.com/agenciaiam/crm/internal/project"
	"github.com/agenciaiam/crm/internal/quote"
)

type Engine struct {
	quotes     quote.Repository
	projects   project.Repository
	invoices   invoice.Repository
	clients    *client.Service
	activities *activity.Service
}

func NewEngine(
	quotes quote.Repository,
	projects project.Repository,
	invoices invoice.Repository,
	clients *client.Service,
	activities *activity.Service,
) *Engine {
	return &Engine{
		quotes:     quotes,
		projects:   projects,
		invoices:   invoices,
		clients:    clients,
		activities: activities,
	}
}

// TransitionQuote moves a quote to the requested status. Entering Approved
// triggers the automation: the client is resolved (re-created from quote
// metadata if it was deleted in the meantime) and a project is seeded from
// the quote. The quote's AutomationDone flag guarantees this runs at most
// once, even if the approval call is retried.
//
// Validation happens before any mutation; an invalid transition leaves
// everything untouched.
func (e *Engine) TransitionQuote(ctx context.Context, id string, to quote.Status) (*quote.Quote, error) {
	if !to.Valid() {
		return nil, &apperr.ValidationError{Field: "status", Reason: fmt.Sprintf("unknown status %q", to)}
	}

	q, err := e.quotes.GetQuote(ctx, id)
	if err != nil {
		return nil, err
	}

	if !quote.CanTransition(q.Status, to) {
		return nil, &apperr.InvalidTransitionError{Entity: "quote", From: string(q.Status), To: string(to)}
	}

	from := q.Status
	q.Status = to

	if to == quote.StatusSent && q.SentAt == nil {
		now := time.Now().UTC()
		q.SentAt = &now
	}

	if to == quote.StatusApproved && !q.AutomationDone {
		if err := e.approve(ctx, q); err != nil {
			return nil, fmt.Errorf("approving quote %s: %w", q.ID, err)
		}
	}

	if err := e.quotes.UpdateQuote(ctx, q); err != nil {
		return nil, err
	}

	e.record(ctx, q.ClientID, activity.TypeProposal,
		fmt.Sprintf("Quote %s: %s -> %s", q.ID, from, to))

	return q, nil
}

// approve runs the approval automation on q, mutating its automation fields.
// The caller persists the quote.
func (e *Engine) approve(ctx context.Context, q *quote.Quote) error {
	cli, err := e.ensureClient(ctx, q)
	if err != nil {
		return err
	}

	q.ClientID = cli.ID

	p := &project.Project{
		ClientID: cli.ID,
		Name:     strings.Join(q.Items, " + "),
		Status:   project.StatusPlanning,
		Budget:   q.Amount,
		Owner:    q.Owner,
		QuoteID:  q.ID,
	}
	if err := e.projects.CreateProject(ctx, p); err != nil {
		return fmt.Errorf("creating project: %w", err)
	}

	q.AutomationDone = true
	q.ProjectID = p.ID

	e.record(ctx, cli.ID, activity.TypeNote,
		fmt.Sprintf("Project %s created from approved quote %s", p.ID, q.ID))

	return nil
}

// ensureClient resolves the quote's client reference. Quotes are validated
// against an existing client at creation, so a dangling reference here means
// the client was deleted afterwards: match by exact name, otherwise re-create
// from the quote's snapshot.
func (e *Engine) ensureClient(ctx context.Context, q *quote.Quote) (*client.Client, error) {
	cli, err := e.clients.Get(ctx, q.ClientID)
	if err == nil {
		return cli, nil
	}

	if !apperr.IsNotFound(err) {
		return nil, err
	}

	cli, err = e.clients.FindByName(ctx, q.ClientName)
	if err == nil {
		return cli, nil
	}

	if !apperr.IsNotFound(err) {
		return nil, err
	}

	return e.clients.Create(ctx, client.CreateParams{
		Name:   q.ClientName,
		Status: client.StatusActive,
		Notes:  fmt.Sprintf("Re-created on approval of quote %s", q.ID),
	})
}

// TransitionProject moves a project to the requested status.
func (e *Engine) TransitionProject(ctx context.Context, id string, to project.Status) (*project.Project, error) {
	if !to.Valid() {
		return nil, &apperr.ValidationError{Field: "status", Reason: fmt.Sprintf("unknown status %q", to)}
	}

	p, err := e.projects.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}

	if !project.CanTransition(p.Status, to) {
		return nil, &apperr.InvalidTransitionError{Entity: "project", From: string(p.Status), To: string(to)}
	}

	p.Status = to

	if err := e.projects.UpdateProject(ctx, p); err != nil {
		return nil, err
	}

	return p, nil
}

// MarkInvoicePaid records a payment. Paid is terminal; paying an invoice
// twice is an invalid transition. Both Pending and (derived) Overdue
// invoices can be paid.
func (e *Engine) MarkInvoicePaid(ctx context.Context, id string) (*invoice.Invoice, error) {
	inv, err := e.invoices.GetInvoice(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	if eff := inv.EffectiveStatus(now); eff == invoice.StatusPaid {
		return nil, &apperr.InvalidTransitionError{Entity: "invoice", From: string(eff), To: string(invoice.StatusPaid)}
	}

	inv.Status = invoice.StatusPaid
	inv.PaidAt = &now

	if err := e.invoices.UpdateInvoice(ctx, inv); err != nil {
		return nil, err
	}

	return inv, nil
}

// record appends to the activity log. Logging failures are reported but do
// not fail the transition that triggered them.
func (e *Engine) record(ctx context.Context, clientID string, typ activity.Type, description string) {
	_, err := e.activities.Create(ctx, activity.CreateParams{
		ClientID:    clientID,
		Type:        typ,
		Description: description,
	})
	if err != nil {
		slog.Warn("failed to record activity", "client_id", clientID, "error", err)
	}
}
