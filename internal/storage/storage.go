// Package storage implements the record store: one JSON document per entity
// kind, loaded wholesale at startup and rewritten wholesale on each mutating
// operation.
//
// The store assumes a single writer process. Handlers within that process are
// serialized by the domain stores; nothing protects against a second process
// writing the same data directory.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/agenciaiam/crm/internal/apperr"
)

// Entity kinds persisted by the store. Each maps to <kind>.json in the data
// directory.
const (
	KindClients    = "clients"
	KindQuotes     = "quotes"
	KindProjects   = "projects"
	KindInvoices   = "invoices"
	KindTasks      = "tasks"
	KindActivities = "activities"
)

const backupDir = "backups"

// envelope wraps a collection on disk. Seq is the last sequence number ever
// issued for the kind, so IDs are never reused after a delete.
type envelope struct {
	Seq     uint64          `json:"seq"`
	Records json.RawMessage `json:"records"`
}

type Store struct {
	dir         string
	backupEvery int

	mu    sync.Mutex // guards saves across kinds
	saves map[string]int
}

// New creates the data and backup directories if needed. backupEvery controls
// how often a timestamped snapshot is retained; values below 1 fall back to
// the default of 10.
func New(dir string, backupEvery int) (*Store, error) {
	if backupEvery < 1 {
		backupEvery = 10
	}

	if err := os.MkdirAll(filepath.Join(dir, backupDir), 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	return &Store{
		dir:         dir,
		backupEvery: backupEvery,
		saves:       make(map[string]int),
	}, nil
}

// Load reads the collection for kind into records, which must be a pointer to
// a slice. A missing file is a normal first run: records is left empty and
// the returned sequence is 0. Malformed content yields a *apperr.StorageError.
func (s *Store) Load(kind string, records any) (uint64, error) {
	data, err := os.ReadFile(s.path(kind))
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}

	if err != nil {
		return 0, &apperr.StorageError{Kind: kind, Err: err}
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return 0, &apperr.StorageError{Kind: kind, Err: err}
	}

	if len(env.Records) > 0 {
		if err := json.Unmarshal(env.Records, records); err != nil {
			return 0, &apperr.StorageError{Kind: kind, Err: err}
		}
	}

	return env.Seq, nil
}

// Save atomically replaces the persisted collection for kind: the document is
// written to a temp file in the same directory and renamed over the previous
// one, so no partial-write state is ever left on disk. Every backupEvery-th
// successful save also retains a timestamped copy under backups/.
func (s *Store) Save(kind string, seq uint64, records any) error {
	raw, err := json.Marshal(records)
	if err != nil {
		return &apperr.StorageError{Kind: kind, Err: err}
	}

	data, err := json.MarshalIndent(envelope{Seq: seq, Records: raw}, "", "  ")
	if err != nil {
		return &apperr.StorageError{Kind: kind, Err: err}
	}

	tmp, err := os.CreateTemp(s.dir, kind+"-*.tmp")
	if err != nil {
		return &apperr.StorageError{Kind: kind, Err: err}
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())

		return &apperr.StorageError{Kind: kind, Err: err}
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return &apperr.StorageError{Kind: kind, Err: err}
	}

	if err := os.Rename(tmp.Name(), s.path(kind)); err != nil {
		os.Remove(tmp.Name())
		return &apperr.StorageError{Kind: kind, Err: err}
	}

	s.mu.Lock()
	s.saves[kind]++
	due := s.saves[kind]%s.backupEvery == 0
	s.mu.Unlock()

	if due {
		if err := s.backup(kind, data); err != nil {
			return err
		}
	}

	return nil
}

func (s *Store) backup(kind string, data []byte) error {
	name := fmt.Sprintf("%s-%s.json", kind, time.Now().UTC().Format("20060102T150405"))

	if err := os.WriteFile(filepath.Join(s.dir, backupDir, name), data, 0o644); err != nil {
		return &apperr.StorageError{Kind: kind, Err: err}
	}

	return nil
}

func (s *Store) path(kind string) string {
	return filepath.Join(s.dir, kind+".json")
}
