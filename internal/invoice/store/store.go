// Package store persists invoices through the record store.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/agenciaiam/crm/internal/apperr"
	"github.com/agenciaiam/crm/internal/invoice"
	"github.com/agenciaiam/crm/internal/storage"
)

type Store struct {
	rs *storage.Store

	mu      sync.Mutex
	seq     uint64
	records []invoice.Invoice
}

// New loads the invoice collection. Unreadable state degrades to an empty
// collection with a logged warning rather than failing startup.
func New(rs *storage.Store) *Store {
	s := &Store{rs: rs}

	seq, err := rs.Load(storage.KindInvoices, &s.records)
	if err != nil {
		slog.Warn("invoice collection unreadable, starting empty", "error", err)

		s.records = nil
	}

	s.seq = seq

	return s
}

func (s *Store) persist() error {
	return s.rs.Save(storage.KindInvoices, s.seq, s.records)
}

func (s *Store) CreateInvoice(ctx context.Context, inv *invoice.Invoice) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	inv.ID = fmt.Sprintf("FAC%03d", s.seq)
	inv.CreatedAt = time.Now().UTC()

	s.records = append(s.records, *inv)

	if err := s.persist(); err != nil {
		s.records = s.records[:len(s.records)-1]
		s.seq--

		return err
	}

	return nil
}

func (s *Store) GetInvoice(ctx context.Context, id string) (*invoice.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.records {
		if s.records[i].ID == id {
			cp := s.records[i]
			return &cp, nil
		}
	}

	return nil, &apperr.NotFoundError{Kind: "invoice", ID: id}
}

func (s *Store) UpdateInvoice(ctx context.Context, inv *invoice.Invoice) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.records {
		if s.records[i].ID == inv.ID {
			now := time.Now().UTC()
			inv.UpdatedAt = &now
			inv.CreatedAt = s.records[i].CreatedAt

			prev := s.records[i]
			s.records[i] = *inv

			if err := s.persist(); err != nil {
				s.records[i] = prev
				return err
			}

			return nil
		}
	}

	return &apperr.NotFoundError{Kind: "invoice", ID: inv.ID}
}

func (s *Store) DeleteInvoice(ctx context.Context, id string) error {
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

	return &apperr.NotFoundError{Kind: "invoice", ID: id}
}

// ListInvoices returns invoices with the persisted status; overdue derivation
// happens in the service layer. The filter's Status field is ignored here for
// that reason.
func (s *Store) ListInvoices(ctx context.Context, filter invoice.ListFilter) ([]*invoice.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*invoice.Invoice, 0, len(s.records))

	for i := range s.records {
		if filter.ClientID != nil && s.records[i].ClientID != *filter.ClientID {
			continue
		}

		cp := s.records[i]
		out = append(out, &cp)
	}

	return out, nil
}
