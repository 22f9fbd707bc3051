// Package store persists quotes through the record store.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/agenciaiam/crm/internal/apperr"
	"github.com/agenciaiam/crm/internal/quote"
	"github.com/agenciaiam/crm/internal/storage"
)

type Store struct {
	rs *storage.Store

	mu      sync.Mutex
	seq     uint64
	records []quote.Quote
}

// New loads the quote collection. Unreadable state degrades to an empty
// collection with a logged warning rather than failing startup.
func New(rs *storage.Store) *Store {
	s := &Store{rs: rs}

	seq, err := rs.Load(storage.KindQuotes, &s.records)
	if err != nil {
		slog.Warn("quote collection unreadable, starting empty", "error", err)

		s.records = nil
	}

	s.seq = seq

	return s
}

func (s *Store) persist() error {
	return s.rs.Save(storage.KindQuotes, s.seq, s.records)
}

func (s *Store) CreateQuote(ctx context.Context, q *quote.Quote) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	q.ID = fmt.Sprintf("COT%03d", s.seq)
	q.CreatedAt = time.Now().UTC()

	s.records = append(s.records, *q)

	if err := s.persist(); err != nil {
		s.records = s.records[:len(s.records)-1]
		s.seq--

		return err
	}

	return nil
}

func (s *Store) GetQuote(ctx context.Context, id string) (*quote.Quote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.records {
		if s.records[i].ID == id {
			cp := s.records[i]
			return &cp, nil
		}
	}

	return nil, &apperr.NotFoundError{Kind: "quote", ID: id}
}

func (s *Store) UpdateQuote(ctx context.Context, q *quote.Quote) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.records {
		if s.records[i].ID == q.ID {
			now := time.Now().UTC()
			q.UpdatedAt = &now
			q.CreatedAt = s.records[i].CreatedAt

			prev := s.records[i]
			s.records[i] = *q

			if err := s.persist(); err != nil {
				s.records[i] = prev
				return err
			}

			return nil
		}
	}

	return &apperr.NotFoundError{Kind: "quote", ID: q.ID}
}

func (s *Store) DeleteQuote(ctx context.Context, id string) error {
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

	return &apperr.NotFoundError{Kind: "quote", ID: id}
}

func (s *Store) ListQuotes(ctx context.Context, filter quote.ListFilter) ([]*quote.Quote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*quote.Quote, 0, len(s.records))

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
