package quote

import (
	"context"
	"fmt"
	"time"

	"github.com/agenciaiam/crm/internal/apperr"
	"github.com/agenciaiam/crm/internal/client"
	"github.com/agenciaiam/crm/internal/confirm"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=quote
type Repository interface {
	CreateQuote(ctx context.Context, q *Quote) error
	GetQuote(ctx context.Context, id string) (*Quote, error)
	UpdateQuote(ctx context.Context, q *Quote) error
	DeleteQuote(ctx context.Context, id string) error
	ListQuotes(ctx context.Context, filter ListFilter) ([]*Quote, error)
}

// ClientDirectory resolves client references at creation time. Satisfied by
// the client service.
type ClientDirectory interface {
	Get(ctx context.Context, id string) (*client.Client, error)
}

type Service struct {
	repo    Repository
	clients ClientDirectory
	deletes *confirm.Guard
}

func NewService(repo Repository, clients ClientDirectory) *Service {
	return &Service{
		repo:    repo,
		clients: clients,
		deletes: confirm.NewGuard(),
	}
}

type CreateParams struct {
	ClientID    string
	Items       []string
	Amount      int64
	Probability int
	Owner       string
	Notes       string
	ExpiresAt   *time.Time

	// InitialStatus may be Draft or Sent (the quoting helper submits
	// directly as Sent). Empty defaults to Draft.
	InitialStatus Status
}

// Patch enumerates the mutable fields of a quote. Status is deliberately
// absent: status only changes through the lifecycle engine.
type Patch struct {
	Items       []string
	Amount      *int64
	Probability *int
	Owner       *string
	Notes       *string
	ExpiresAt   *time.Time
}

type ListFilter struct {
	Status   *Status
	ClientID *string
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Quote, error) {
	status := params.InitialStatus
	if status == "" {
		status = StatusDraft
	}

	if status != StatusDraft && status != StatusSent {
		return nil, &apperr.ValidationError{Field: "status", Reason: fmt.Sprintf("initial status must be draft or sent, got %q", status)}
	}

	if params.ClientID == "" {
		return nil, &apperr.ValidationError{Field: "client_id", Reason: "required"}
	}

	if len(params.Items) == 0 {
		return nil, &apperr.ValidationError{Field: "items", Reason: "at least one service item required"}
	}

	if params.Amount < 0 {
		return nil, &apperr.ValidationError{Field: "amount", Reason: "must not be negative"}
	}

	if params.Probability < 0 || params.Probability > 100 {
		return nil, &apperr.ValidationError{Field: "probability", Reason: "must be between 0 and 100"}
	}

	cli, err := s.clients.Get(ctx, params.ClientID)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, &apperr.ValidationError{Field: "client_id", Reason: fmt.Sprintf("client %s does not exist", params.ClientID)}
		}

		return nil, fmt.Errorf("resolving client: %w", err)
	}

	q := &Quote{
		ClientID:    cli.ID,
		ClientName:  cli.Name,
		Items:       params.Items,
		Amount:      params.Amount,
		Status:      status,
		Probability: params.Probability,
		Owner:       params.Owner,
		Notes:       params.Notes,
		ExpiresAt:   params.ExpiresAt,
	}

	if status == StatusSent {
		now := time.Now().UTC()
		q.SentAt = &now
	}

	if err := s.repo.CreateQuote(ctx, q); err != nil {
		return nil, err
	}

	return q, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Quote, error) {
	return s.repo.GetQuote(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Quote, error) {
	return s.repo.ListQuotes(ctx, filter)
}

func (s *Service) Update(ctx context.Context, id string, patch Patch) (*Quote, error) {
	q, err := s.repo.GetQuote(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Items != nil {
		q.Items = patch.Items
	}

	if patch.Amount != nil {
		q.Amount = *patch.Amount
	}

	if patch.Probability != nil {
		q.Probability = *patch.Probability
	}

	if patch.Owner != nil {
		q.Owner = *patch.Owner
	}

	if patch.Notes != nil {
		q.Notes = *patch.Notes
	}

	if patch.ExpiresAt != nil {
		q.ExpiresAt = patch.ExpiresAt
	}

	if len(q.Items) == 0 {
		return nil, &apperr.ValidationError{Field: "items", Reason: "at least one service item required"}
	}

	if q.Amount < 0 {
		return nil, &apperr.ValidationError{Field: "amount", Reason: "must not be negative"}
	}

	if q.Probability < 0 || q.Probability > 100 {
		return nil, &apperr.ValidationError{Field: "probability", Reason: "must be between 0 and 100"}
	}

	if err := s.repo.UpdateQuote(ctx, q); err != nil {
		return nil, err
	}

	return q, nil
}

func (s *Service) RequestDelete(ctx context.Context, id string) error {
	if _, err := s.repo.GetQuote(ctx, id); err != nil {
		return err
	}

	s.deletes.Request(id)

	return nil
}

func (s *Service) ConfirmDelete(ctx context.Context, id string) error {
	if err := s.deletes.Confirm(id); err != nil {
		return err
	}

	return s.repo.DeleteQuote(ctx, id)
}
