// Package store persists projects through the record store.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/agenciaiam/crm/internal/apperr"
	"github.com/agenciaiam/crm/internal/project"
	"github.com/agenciaiam/crm/internal/storage"
)

type Store struct {
	rs *storage.Store

	mu      sync.Mutex
	seq     uint64
	records []project.Project
}

// New loads the project collection. Unreadable state degrades to an empty
// collection with a logged warning rather than failing startup.
func New(rs *storage.Store) *Store {
	s := &Store{rs: rs}

	seq, err := rs.Load(storage.KindProjects, &s.records)
	if err != nil {
		slog.Warn("project collection unreadable, starting empty", "error", err)

		s.records = nil
	}

	s.seq = seq

	return s
}

func (s *Store) persist() error {
	return s.rs.Save(storage.KindProjects, s.seq, s.records)
}

func (s *Store) CreateProject(ctx context.Context, p *project.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	p.ID = fmt.Sprintf("PRY%03d", s.seq)
	p.CreatedAt = time.Now().UTC()

	s.records = append(s.records, *p)

	if err := s.persist(); err != nil {
		s.records = s.records[:len(s.records)-1]
		s.seq--

		return err
	}

	return nil
}

func (s *Store) GetProject(ctx context.Context, id string) (*project.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.records {
		if s.records[i].ID == id {
			cp := s.records[i]
			return &cp, nil
		}
	}

	return nil, &apperr.NotFoundError{Kind: "project", ID: id}
}

func (s *Store) UpdateProject(ctx context.Context, p *project.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.records {
		if s.records[i].ID == p.ID {
			now := time.Now().UTC()
			p.UpdatedAt = &now
			p.CreatedAt = s.records[i].CreatedAt

			prev := s.records[i]
			s.records[i] = *p

			if err := s.persist(); err != nil {
				s.records[i] = prev
				return err
			}

			return nil
		}
	}

	return &apperr.NotFoundError{Kind: "project", ID: p.ID}
}

func (s *Store) DeleteProject(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.records {
		if s.records[i].ID == id {
			prev := s.records
			s.records = append(s.records[:i:i], s.records[i+1:]...)

			if err := s.persist(); err != nil {
				s.records = prev
				return err
			}

			return nil
		}
	}

	return &apperr.NotFoundError{Kind: "project", ID: id}
}

func (s *Store) ListProjects(ctx context.Context, filter project.ListFilter) ([]*project.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*project.Project, 0, len(s.records))

	for i := range s.records {
		if filter.Status != nil && s.records[i].Status != *filter.Status {
			continue
		}

		if filter.ClientID != nil && s.records[i].ClientID != *filter.ClientID {
			continue
		}

		cp := s.records[i]
		out = append(out, &cp)
	}

	return out, nil
}
