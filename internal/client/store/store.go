// Package store persists clients through the record store.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/agenciaiam/crm/internal/apperr"
	"github.com/agenciaiam/crm/internal/client"
	"github.com/agenciaiam/crm/internal/storage"
)

type Store struct {
	rs *storage.Store

	mu      sync.Mutex
	seq     uint64
	records []client.Client
}

// New loads the client collection. Unreadable state degrades to an empty
// collection with a logged warning rather than failing startup.
func New(rs *storage.Store) *Store {
	s := &Store{rs: rs}

	seq, err := rs.Load(storage.KindClients, &s.records)
	if err != nil {
		slog.Warn("client collection unreadable, starting empty", "error", err)

		s.records = nil
	}

	s.seq = seq

	return s
}

func (s *Store) persist() error {
	return s.rs.Save(storage.KindClients, s.seq, s.records)
}

func (s *Store) CreateClient(ctx context.Context, c *client.Client) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	c.ID = fmt.Sprintf("CLI%03d", s.seq)
	c.CreatedAt = time.Now().UTC()

	s.records = append(s.records, *c)

	if err := s.persist(); err != nil {
		s.records = s.records[:len(s.records)-1]
		s.seq--

		return err
	}

	return nil
}

func (s *Store) GetClient(ctx context.Context, id string) (*client.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.records {
		if s.records[i].ID == id {
			cp := s.records[i]
			return &cp, nil
		}
	}

	return nil, &apperr.NotFoundError{Kind: "client", ID: id}
}

func (s *Store) FindClientByName(ctx context.Context, name string) (*client.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.records {
		if s.records[i].Name == name {
			cp := s.records[i]
			return &cp, nil
		}
	}

	return nil, &apperr.NotFoundError{Kind: "client", ID: name}
}

func (s *Store) UpdateClient(ctx context.Context, c *client.Client) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.records {
		if s.records[i].ID == c.ID {
			now := time.Now().UTC()
			c.UpdatedAt = &now
			c.CreatedAt = s.records[i].CreatedAt

			prev := s.records[i]
			s.records[i] = *c

			if err := s.persist(); err != nil {
				s.records[i] = prev
				return err
			}

			return nil
		}
	}

	return &apperr.NotFoundError{Kind: "client", ID: c.ID}
}

func (s *Store) DeleteClient(ctx context.Context, id string) error {
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

	return &apperr.NotFoundError{Kind: "client", ID: id}
}

func (s *Store) ListClients(ctx context.Context, filter client.ListFilter) ([]*client.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*client.Client, 0, len(s.records))

	for i := range s.records {
		if filter.Status != nil && s.records[i].Status != *filter.Status {
			continue
		}

		if filter.Industry != nil && s.records[i].Industry != *filter.Industry {
			continue
		}

		cp := s.records[i]
		out = append(out, &cp)
	}

	return out, nil
}
