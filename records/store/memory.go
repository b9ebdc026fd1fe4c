// Package store provides records.Store implementations.
package store

import (
	"context"
	"sync"
	"time"

	"github.com/warp/staff-registry/records"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu    sync.RWMutex
	byID  map[string]records.Employee
	order []string
}

func NewMemory() *Memory {
	return &Memory{
		byID: make(map[string]records.Employee),
	}
}

func (m *Memory) Create(_ context.Context, e records.Employee) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byID[e.UserID]; ok {
		return records.ErrDuplicateUserID
	}

	now := time.Now().UTC()
	e.CreatedAt, e.UpdatedAt = now, now
	m.byID[e.UserID] = e
	m.order = append(m.order, e.UserID)
	return nil
}

func (m *Memory) Get(_ context.Context, userID string) (*records.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.byID[userID]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

func (m *Memory) List(_ context.Context, role records.Role) ([]records.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []records.Employee
	for _, id := range m.order {
		e := m.byID[id]
		if role != "" && e.Role != role {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (m *Memory) Update(_ context.Context, e records.Employee) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	prev, ok := m.byID[e.UserID]
	if !ok {
		return records.ErrNotFound
	}

	e.ID, e.CreatedAt = prev.ID, prev.CreatedAt
	e.UpdatedAt = time.Now().UTC()
	m.byID[e.UserID] = e
	return nil
}

func (m *Memory) Delete(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byID[userID]; !ok {
		return records.ErrNotFound
	}
	delete(m.byID, userID)
	for i, id := range m.order {
		if id == userID {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

// Compile-time check
var _ records.Store = (*Memory)(nil)
