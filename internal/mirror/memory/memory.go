// Package memory is an in-process transaction mirror used by tests and by
// the memory backend in development.
package memory

import (
	"context"
	"fmt"
	"sync"

	"spendwise/internal/core"
)

type Mirror struct {
	mu    sync.Mutex
	items []core.Transaction
}

func New() *Mirror {
	return &Mirror{}
}

// Upsert overwrites the row holding the transaction's id, appending a new
// row when the id is absent. Returns a synthetic row reference.
func (m *Mirror) Upsert(_ context.Context, t core.Transaction) (string, error) {
	if err := t.Validate(); err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, existing := range m.items {
		if existing.ID == t.ID {
			m.items[i] = t
			return fmt.Sprintf("mem:%d", i+1), nil
		}
	}
	m.items = append(m.items, t)
	return fmt.Sprintf("mem:%d", len(m.items)), nil
}

// Delete removes the mirrored transaction with the given id. Missing ids are
// not an error; a delete can race a mirror that never saw the row.
func (m *Mirror) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, t := range m.items {
		if t.ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return nil
}

// Items returns a copy of everything mirrored so far.
func (m *Mirror) Items() []core.Transaction {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]core.Transaction(nil), m.items...)
}
