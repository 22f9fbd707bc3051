package activity

import (
	"context"
	"fmt"
	"time"

	"github.com/agenciaiam/crm/internal/apperr"
)

type Repository interface {
	CreateActivity(ctx context.Context, a *Activity) error
	ListActivities(ctx context.Context, filter ListFilter) ([]*Activity, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	ClientID    string
	Type        Type
	Description string
	NextAction  string
	Status      Status
	OccurredAt  time.Time
}

type ListFilter struct {
	ClientID *string
	Type     *Type
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Activity, error) {
	if params.Description == "" {
		return nil, &apperr.ValidationError{Field: "description", Reason: "required"}
	}

	if !params.Type.Valid() {
		return nil, &apperr.ValidationError{Field: "type", Reason: fmt.Sprintf("unknown type %q", params.Type)}
	}

	status := params.Status
	if status == "" {
		status = StatusCompleted
	}

	if !status.Valid() {
		return nil, &apperr.ValidationError{Field: "status", Reason: fmt.Sprintf("unknown status %q", status)}
	}

	occurred := params.OccurredAt
	if occurred.IsZero() {
		occurred = time.Now().UTC()
	}

	a := &Activity{
		ClientID:    params.ClientID,
		Type:        params.Type,
		Description: params.Description,
		NextAction:  params.NextAction,
		Status:      status,
		OccurredAt:  occurred,
	}
	if err := s.repo.CreateActivity(ctx, a); err != nil {
		return nil, err
	}

	return a, nil
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Activity, error) {
	return s.repo.ListActivities(ctx, filter)
}
