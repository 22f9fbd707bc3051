// Package confirm tracks delete intents. Destructive operations are a
// two-step affair: the caller first requests the delete, then confirms it.
package confirm

import (
	"errors"
	"sync"
)

// ErrNotRequested is returned when a delete is confirmed without a prior
// request for the same ID.
var ErrNotRequested = errors.New("delete not requested")

type Guard struct {
	mu      sync.Mutex
	pending map[string]struct{}
}

func NewGuard() *Guard {
	return &Guard{pending: make(map[string]struct{})}
}

// Request records the intent to delete id.
func (g *Guard) Request(id string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.pending[id] = struct{}{}
}

// Confirm consumes a pending intent for id. It returns ErrNotRequested if
// the delete was never requested.
func (g *Guard) Confirm(id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.pending[id]; !ok {
		return ErrNotRequested
	}

	delete(g.pending, id)

	return nil
}
