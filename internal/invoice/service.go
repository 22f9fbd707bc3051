package invoice

import (
	"context"
	"fmt"
	"time"

	"github.com/agenciaiam/crm/internal/apperr"
	"github.com/agenciaiam/crm/internal/client"
	"github.com/agenciaiam/crm/internal/confirm"
	"github.com/agenciaiam/crm/internal/project"
)

type Repository interface {
	CreateInvoice(ctx context.Context, inv *Invoice) error
	GetInvoice(ctx context.Context, id string) (*Invoice, error)
	UpdateInvoice(ctx context.Context, inv *Invoice) error
	DeleteInvoice(ctx context.Context, id string) error
	ListInvoices(ctx context.Context, filter ListFilter) ([]*Invoice, error)
}

// ClientDirectory resolves client references at creation time.
type ClientDirectory interface {
	Get(ctx context.Context, id string) (*client.Client, error)
}

// ProjectDirectory resolves the optional project reference at creation time.
type ProjectDirectory interface {
	Get(ctx context.Context, id string) (*project.Project, error)
}

type Service struct {
	repo     Repository
	clients  ClientDirectory
	projects ProjectDirectory
	deletes  *confirm.Guard
}

func NewService(repo Repository, clients ClientDirectory, projects ProjectDirectory) *Service {
	return &Service{
		repo:     repo,
		clients:  clients,
		projects: projects,
		deletes:  confirm.NewGuard(),
	}
}

type CreateParams struct {
	ClientID  string
	ProjectID string // optional
	Amount    int64
	IssuedAt  time.Time
	DueAt     time.Time
}

// Patch enumerates the mutable fields of an invoice. Payment state changes
// only through the lifecycle engine.
type Patch struct {
	Amount *int64
	DueAt  *time.Time
}

type ListFilter struct {
	Status   *Status // matched against the derived status
	ClientID *string
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Invoice, error) {
	if params.ClientID == "" {
		return nil, &apperr.ValidationError{Field: "client_id", Reason: "required"}
	}

	if params.Amount < 0 {
		return nil, &apperr.ValidationError{Field: "amount", Reason: "must not be negative"}
	}

	if params.DueAt.IsZero() {
		return nil, &apperr.ValidationError{Field: "due_at", Reason: "required"}
	}

	if _, err := s.clients.Get(ctx, params.ClientID); err != nil {
		if apperr.IsNotFound(err) {
			return nil, &apperr.ValidationError{Field: "client_id", Reason: fmt.Sprintf("client %s does not exist", params.ClientID)}
		}

		return nil, fmt.Errorf("resolving client: %w", err)
	}

	if params.ProjectID != "" {
		if _, err := s.projects.Get(ctx, params.ProjectID); err != nil {
			if apperr.IsNotFound(err) {
				return nil, &apperr.ValidationError{Field: "project_id", Reason: fmt.Sprintf("project %s does not exist", params.ProjectID)}
			}

			return nil, fmt.Errorf("resolving project: %w", err)
		}
	}

	issued := params.IssuedAt
	if issued.IsZero() {
		issued = time.Now().UTC()
	}

	inv := &Invoice{
		ClientID:  params.ClientID,
		ProjectID: params.ProjectID,
		Amount:    params.Amount,
		Status:    StatusPending,
		IssuedAt:  issued,
		DueAt:     params.DueAt,
	}
	if err := s.repo.CreateInvoice(ctx, inv); err != nil {
		return nil, err
	}

	return inv, nil
}

// Get returns the invoice with its derived status applied.
func (s *Service) Get(ctx context.Context, id string) (*Invoice, error) {
	inv, err := s.repo.GetInvoice(ctx, id)
	if err != nil {
		return nil, err
	}

	inv.Status = inv.EffectiveStatus(time.Now().UTC())

	return inv, nil
}

// List returns invoices with derived statuses applied; the status filter
// matches the derived value, so filtering by overdue works as expected.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Invoice, error) {
	repoFilter := ListFilter{ClientID: filter.ClientID}

	invoices, err := s.repo.ListInvoices(ctx, repoFilter)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	out := invoices[:0]

	for _, inv := range invoices {
		inv.Status = inv.EffectiveStatus(now)

		if filter.Status != nil && inv.Status != *filter.Status {
			continue
		}

		out = append(out, inv)
	}

	return out, nil
}

func (s *Service) Update(ctx context.Context, id string, patch Patch) (*Invoice, error) {
	inv, err := s.repo.GetInvoice(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Amount != nil {
		inv.Amount = *patch.Amount
	}

	if patch.DueAt != nil {
		inv.DueAt = *patch.DueAt
	}

	if inv.Amount < 0 {
		return nil, &apperr.ValidationError{Field: "amount", Reason: "must not be negative"}
	}

	if err := s.repo.UpdateInvoice(ctx, inv); err != nil {
		return nil, err
	}

	inv.Status = inv.EffectiveStatus(time.Now().UTC())

	return inv, nil
}

func (s *Service) RequestDelete(ctx context.Context, id string) error {
	if _, err := s.repo.GetInvoice(ctx, id); err != nil {
		return err
	}

	s.deletes.Request(id)

	return nil
}

func (s *Service) ConfirmDelete(ctx context.Context, id string) error {
	if err := s.deletes.Confirm(id); err != nil {
		return err
	}

	return s.repo.DeleteInvoice(ctx, id)
}
