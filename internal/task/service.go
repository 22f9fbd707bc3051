package task

import (
	"context"
	"fmt"
	"time"

	"github.com/agenciaiam/crm/internal/apperr"
	"github.com/agenciaiam/crm/internal/confirm"
	"github.com/agenciaiam/crm/internal/project"
)

type Repository interface {
	CreateTask(ctx context.Context, t *Task) error
	GetTask(ctx context.Context, id string) (*Task, error)
	UpdateTask(ctx context.Context, t *Task) error
	DeleteTask(ctx context.Context, id string) error
	ListTasks(ctx context.Context, filter ListFilter) ([]*Task, error)
}

// ProjectDirectory resolves the parent project at creation time.
type ProjectDirectory interface {
	Get(ctx context.Context, id string) (*project.Project, error)
}

type Service struct {
	repo     Repository
	projects ProjectDirectory
	deletes  *confirm.Guard
}

func NewService(repo Repository, projects ProjectDirectory) *Service {
	return &Service{
		repo:     repo,
		projects: projects,
		deletes:  confirm.NewGuard(),
	}
}

type CreateParams struct {
	ProjectID   string
	Description string
	DueAt       *time.Time
}

// Patch enumerates the mutable fields of a task.
type Patch struct {
	Description *string
	Done        *bool
	DueAt       *time.Time
}

type ListFilter struct {
	ProjectID *string
	Done      *bool
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Task, error) {
	if params.Description == "" {
		return nil, &apperr.ValidationError{Field: "description", Reason: "required"}
	}

	if params.ProjectID == "" {
		return nil, &apperr.ValidationError{Field: "project_id", Reason: "required"}
	}

	if _, err := s.projects.Get(ctx, params.ProjectID); err != nil {
		if apperr.IsNotFound(err) {
			return nil, &apperr.ValidationError{Field: "project_id", Reason: fmt.Sprintf("project %s does not exist", params.ProjectID)}
		}

		return nil, fmt.Errorf("resolving project: %w", err)
	}

	t := &Task{
		ProjectID:   params.ProjectID,
		Description: params.Description,
		DueAt:       params.DueAt,
	}
	if err := s.repo.CreateTask(ctx, t); err != nil {
		return nil, err
	}

	return t, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Task, error) {
	return s.repo.GetTask(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Task, error) {
	return s.repo.ListTasks(ctx, filter)
}

func (s *Service) Update(ctx context.Context, id string, patch Patch) (*Task, error) {
	t, err := s.repo.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Description != nil {
		t.Description = *patch.Description
	}

	if patch.Done != nil {
		t.Done = *patch.Done
	}

	if patch.DueAt != nil {
		t.DueAt = patch.DueAt
	}

	if t.Description == "" {
		return nil, &apperr.ValidationError{Field: "description", Reason: "required"}
	}

	if err := s.repo.UpdateTask(ctx, t); err != nil {
		return nil, err
	}

	return t, nil
}

func (s *Service) RequestDelete(ctx context.Context, id string) error {
	if _, err := s.repo.GetTask(ctx, id); err != nil {
		return err
	}

	s.deletes.Request(id)

	return nil
}

func (s *Service) ConfirmDelete(ctx context.Context, id string) error {
	if err := s.deletes.Confirm(id); err != nil {
		return err
	}

	return s.repo.DeleteTask(ctx, id)
}
