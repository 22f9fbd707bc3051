package client

import (
	"context"
	"fmt"

	"github.com/agenciaiam/crm/internal/apperr"
	"github.com/agenciaiam/crm/internal/confirm"
)

type Repository interface {
	CreateClient(ctx context.Context, c *Client) error
	GetClient(ctx context.Context, id string) (*Client, error)
	UpdateClient(ctx context.Context, c *Client) error
	DeleteClient(ctx context.Context, id string) error
	ListClients(ctx context.Context, filter ListFilter) ([]*Client, error)
	FindClientByName(ctx context.Context, name string) (*Client, error)
}

type Service struct {
	repo    Repository
	deletes *confirm.Guard
}

func NewService(repo Repository) *Service {
	return &Service{
		repo:    repo,
		deletes: confirm.NewGuard(),
	}
}

type CreateParams struct {
	Name            string
	Industry        string
	City            string
	ContactName     string
	ContactEmail    string
	ContactPhone    string
	Status          Status
	MonthlyRetainer int64
	Notes           string
}

// Patch enumerates the mutable fields of a client. Nil fields are left
// untouched.
type Patch struct {
	Name            *string
	Industry        *string
	City            *string
	ContactName     *string
	ContactEmail    *string
	ContactPhone    *string
	Status          *Status
	MonthlyRetainer *int64
	Notes           *string
}

type ListFilter struct {
	Status   *Status
	Industry *string
}

func (p CreateParams) validate() error {
	if p.Name == "" {
		return &apperr.ValidationError{Field: "name", Reason: "required"}
	}

	if !p.Status.Valid() {
		return &apperr.ValidationError{Field: "status", Reason: fmt.Sprintf("unknown status %q", p.Status)}
	}

	if p.MonthlyRetainer < 0 {
		return &apperr.ValidationError{Field: "monthly_retainer", Reason: "must not be negative"}
	}

	return nil
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Client, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}

	c := &Client{
		Name:            params.Name,
		Industry:        params.Industry,
		City:            params.City,
		ContactName:     params.ContactName,
		ContactEmail:    params.ContactEmail,
		ContactPhone:    params.ContactPhone,
		Status:          params.Status,
		MonthlyRetainer: params.MonthlyRetainer,
		Notes:           params.Notes,
	}
	if err := s.repo.CreateClient(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Client, error) {
	return s.repo.GetClient(ctx, id)
}

// FindByName looks a client up by exact name match.
func (s *Service) FindByName(ctx context.Context, name string) (*Client, error) {
	return s.repo.FindClientByName(ctx, name)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Client, error) {
	return s.repo.ListClients(ctx, filter)
}

func (s *Service) Update(ctx context.Context, id string, patch Patch) (*Client, error) {
	c, err := s.repo.GetClient(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		c.Name = *patch.Name
	}

	if patch.Industry != nil {
		c.Industry = *patch.Industry
	}

	if patch.City != nil {
		c.City = *patch.City
	}

	if patch.ContactName != nil {
		c.ContactName = *patch.ContactName
	}

	if patch.ContactEmail != nil {
		c.ContactEmail = *patch.ContactEmail
	}

	if patch.ContactPhone != nil {
		c.ContactPhone = *patch.ContactPhone
	}

	if patch.Status != nil {
		c.Status = *patch.Status
	}

	if patch.MonthlyRetainer != nil {
		c.MonthlyRetainer = *patch.MonthlyRetainer
	}

	if patch.Notes != nil {
		c.Notes = *patch.Notes
	}

	if c.Name == "" {
		return nil, &apperr.ValidationError{Field: "name", Reason: "required"}
	}

	if !c.Status.Valid() {
		return nil, &apperr.ValidationError{Field: "status", Reason: fmt.Sprintf("unknown status %q", c.Status)}
	}

	if c.MonthlyRetainer < 0 {
		return nil, &apperr.ValidationError{Field: "monthly_retainer", Reason: "must not be negative"}
	}

	if err := s.repo.UpdateClient(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}

// RequestDelete records the intent to delete the client. The delete only
// happens once ConfirmDelete is called for the same ID.
func (s *Service) RequestDelete(ctx context.Context, id string) error {
	if _, err := s.repo.GetClient(ctx, id); err != nil {
		return err
	}

	s.deletes.Request(id)

	return nil
}

// ConfirmDelete removes the client. Dependent quotes, projects and invoices
// keep their references; orphaned references are accepted.
func (s *Service) ConfirmDelete(ctx context.Context, id string) error {
	if err := s.deletes.Confirm(id); err != nil {
		return err
	}

	return s.repo.DeleteClient(ctx, id)
}
