// Package store persists tasks through the record store.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/agenciaiam/crm/internal/apperr"
	"github.com/agenciaiam/crm/internal/storage"
	"github.com/agenciaiam/crm/internal/task"
)

type Store struct {
	rs *storage.Store

	mu      sync.Mutex
	seq     uint64
	records []task.Task
}

// New loads the task collection. Unreadable state degrades to an empty
// collection with a logged warning rather than failing startup.
func New(rs *storage.Store) *Store {
	s := &Store{rs: rs}

	seq, err := rs.Load(storage.KindTasks, &s.records)
	if err != nil {
		slog.Warn("task collection unreadable, starting empty", "error", err)

		s.records = nil
	}

	s.seq = seq

	return s
}

func (s *Store) persist() error {
	return s.rs.Save(storage.KindTasks, s.seq, s.records)
}

func (s *Store) CreateTask(ctx context.Context, t *task.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	t.ID = fmt.Sprintf("TAR%03d", s.seq)
	t.CreatedAt = time.Now().UTC()

	s.records = append(s.records, *t)

	if err := s.persist(); err != nil {
		s.records = s.records[:len(s.records)-1]
		s.seq--

		return err
	}

	return nil
}

func (s *Store) GetTask(ctx context.Context, id string) (*task.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.records {
		if s.records[i].ID == id {
			cp := s.records[i]
			return &cp, nil
		}
	}

	return nil, &apperr.NotFoundError{Kind: "task", ID: id}
}

func (s *Store) UpdateTask(ctx context.Context, t *task.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.records {
		if s.records[i].ID == t.ID {
			now := time.Now().UTC()
			t.UpdatedAt = &now
			t.CreatedAt = s.records[i].CreatedAt

			prev := s.records[i]
			s.records[i] = *t

			if err := s.persist(); err != nil {
				s.records[i] = prev
				return err
			}

			return nil
		}
	}

	return &apperr.NotFoundError{Kind: "task", ID: t.ID}
}

func (s *Store) DeleteTask(ctx context.Context, id string) error {
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

	return &apperr.NotFoundError{Kind: "task", ID: id}
}

func (s *Store) ListTasks(ctx context.Context, filter task.ListFilter) ([]*task.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*task.Task, 0, len(s.records))

	for i := range s.records {
		if filter.ProjectID != nil && s.records[i].ProjectID != *filter.ProjectID {
			continue
		}

		if filter.Done != nil && s.records[i].Done != *filter.Done {
			continue
		}

		cp := s.records[i]
		out = append(out, &cp)
	}

	return out, nil
}
