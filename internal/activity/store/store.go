// Package store persists the activity log through the record store.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/agenciaiam/crm/internal/activity"
	"github.com/agenciaiam/crm/internal/storage"
)

type Store struct {
	rs *storage.Store

	mu      sync.Mutex
	seq     uint64
	records []activity.Activity
}

// New loads the activity collection. Unreadable state degrades to an empty
// collection with a logged warning rather than failing startup.
func New(rs *storage.Store) *Store {
	s := &Store{rs: rs}

	seq, err := rs.Load(storage.KindActivities, &s.records)
	if err != nil {
		slog.Warn("activity collection unreadable, starting empty", "error", err)

		s.records = nil
	}

	s.seq = seq

	return s
}

func (s *Store) CreateActivity(ctx context.Context, a *activity.Activity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	a.ID = fmt.Sprintf("ACT%03d", s.seq)
	a.CreatedAt = time.Now().UTC()

	s.records = append(s.records, *a)

	if err := s.rs.Save(storage.KindActivities, s.seq, s.records); err != nil {
		s.records = s.records[:len(s.records)-1]
		s.seq--

		return err
	}

	return nil
}

func (s *Store) ListActivities(ctx context.Context, filter activity.ListFilter) ([]*activity.Activity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*activity.Activity, 0, len(s.records))

	for i := range s.records {
		if filter.ClientID != nil && s.records[i].ClientID != *filter.ClientID {
			continue
		}

		if filter.Type != nil && s.records[i].Type != *filter.Type {
			continue
		}

		cp := s.records[i]
		out = append(out, &cp)
	}

	return out, nil
}
