// apps/go-server/internal/store/memory.go
//
// In-memory registry of game tables.
// Sessions live only in process memory for the game's duration, so this is
// the only Store implementation.
//
// Characteristics:
//   - Stores *match.Table objects keyed by ID in a map.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - Delete closes the table so a pending computer turn is abandoned.
//   - State is lost when the process restarts.

package store

import (
	"context"
	"errors"
	"sync"

	"github.com/robalobadob/mathdominoes/apps/go-server/internal/match"
)

// ErrNotFound is returned by Get for unknown ids.
var ErrNotFound = errors.New("game not found")

// Store keeps tables addressable by id.
type Store interface {
	// Save adds or replaces a table.
	Save(ctx context.Context, t *match.Table) error

	// Get retrieves a table by ID, or ErrNotFound.
	Get(ctx context.Context, id string) (*match.Table, error)

	// Delete removes and closes a table. Unknown ids are ignored.
	Delete(ctx context.Context, id string) error

	// Len reports how many tables are held.
	Len() int
}

type memory struct {
	mu     sync.RWMutex
	tables map[string]*match.Table
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{tables: make(map[string]*match.Table)}
}

// Save stores the table under its ID, replacing any existing one.
func (m *memory) Save(ctx context.Context, t *match.Table) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tables[t.ID()] = t
	return nil
}

// Get returns the table for id or ErrNotFound.
func (m *memory) Get(ctx context.Context, id string) (*match.Table, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if t, ok := m.tables[id]; ok {
		return t, nil
	}
	return nil, ErrNotFound
}

// Delete removes the table for id and abandons its computer turn.
func (m *memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	t, ok := m.tables[id]
	delete(m.tables, id)
	m.mu.Unlock()
	if ok {
		t.Close()
	}
	return nil
}

// Len reports how many tables are stored.
func (m *memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.tables)
}
