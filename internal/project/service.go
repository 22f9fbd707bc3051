package project

import (
	"context"
	"fmt"
	"time"

	"github.com/agenciaiam/crm/internal/apperr"
	"github.com/agenciaiam/crm/internal/client"
	"github.com/agenciaiam/crm/internal/confirm"
)

type Repository interface {
	CreateProject(ctx context.Context, p *Project) error
	GetProject(ctx context.Context, id string) (*Project, error)
	UpdateProject(ctx context.Context, p *Project) error
	DeleteProject(ctx context.Context, id string) error
	ListProjects(ctx context.Context, filter ListFilter) ([]*Project, error)
}

// ClientDirectory resolves client references at creation time.
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
	ClientID       string
	Name           string
	Budget         int64
	Owner          string
	EstimatedHours int
	QuoteID        string
	StartDate      *time.Time
	DueDate        *time.Time
}

// Patch enumerates the mutable fields of a project. Status only changes
// through the lifecycle engine. Progress is not forced to be monotonic; it is
// only range-checked.
type Patch struct {
	Name           *string
	Progress       *int
	Budget         *int64
	Owner          *string
	EstimatedHours *int
	WorkedHours    *int
	StartDate      *time.Time
	DueDate        *time.Time
}

type ListFilter struct {
	Status   *Status
	ClientID *string
}

// Create validates and stores a new project with status Planning.
func (s *Service) Create(ctx context.Context, params CreateParams) (*Project, error) {
	if params.Name == "" {
		return nil, &apperr.ValidationError{Field: "name", Reason: "required"}
	}

	if params.ClientID == "" {
		return nil, &apperr.ValidationError{Field: "client_id", Reason: "required"}
	}

	if params.Budget < 0 {
		return nil, &apperr.ValidationError{Field: "budget", Reason: "must not be negative"}
	}

	if _, err := s.clients.Get(ctx, params.ClientID); err != nil {
		if apperr.IsNotFound(err) {
			return nil, &apperr.ValidationError{Field: "client_id", Reason: fmt.Sprintf("client %s does not exist", params.ClientID)}
		}

		return nil, fmt.Errorf("resolving client: %w", err)
	}

	p := &Project{
		ClientID:       params.ClientID,
		Name:           params.Name,
		Status:         StatusPlanning,
		Budget:         params.Budget,
		Owner:          params.Owner,
		EstimatedHours: params.EstimatedHours,
		QuoteID:        params.QuoteID,
		StartDate:      params.StartDate,
		DueDate:        params.DueDate,
	}
	if err := s.repo.CreateProject(ctx, p); err != nil {
		return nil, err
	}

	return p, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Project, error) {
	return s.repo.GetProject(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Project, error) {
	return s.repo.ListProjects(ctx, filter)
}

func (s *Service) Update(ctx context.Context, id string, patch Patch) (*Project, error) {
	p, err := s.repo.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		p.Name = *patch.Name
	}

	if patch.Progress != nil {
		p.Progress = *patch.Progress
	}

	if patch.Budget != nil {
		p.Budget = *patch.Budget
	}

	if patch.Owner != nil {
		p.Owner = *patch.Owner
	}

	if patch.EstimatedHours != nil {
		p.EstimatedHours = *patch.EstimatedHours
	}

	if patch.WorkedHours != nil {
		p.WorkedHours = *patch.WorkedHours
	}

	if patch.StartDate != nil {
		p.StartDate = patch.StartDate
	}

	if patch.DueDate != nil {
		p.DueDate = patch.DueDate
	}

	if p.Name == "" {
		return nil, &apperr.ValidationError{Field: "name", Reason: "required"}
	}

	if p.Progress < 0 || p.Progress > 100 {
		return nil, &apperr.ValidationError{Field: "progress", Reason: "must be between 0 and 100"}
	}

	if p.Budget < 0 {
		return nil, &apperr.ValidationError{Field: "budget", Reason: "must not be negative"}
	}

	if err := s.repo.UpdateProject(ctx, p); err != nil {
		return nil, err
	}

	return p, nil
}

func (s *Service) RequestDelete(ctx context.Context, id string) error {
	if _, err := s.repo.GetProject(ctx, id); err != nil {
		return err
	}

	s.deletes.Request(id)

	return nil
}

// ConfirmDelete removes the project. Tasks referencing it are left in place;
// orphaned references are accepted.
func (s *Service) ConfirmDelete(ctx context.Context, id string) error {
	if err := s.deletes.Confirm(id); err != nil {
		return err
	}

	return s.repo.DeleteProject(ctx, id)
}
