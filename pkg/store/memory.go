package store

import (
	"context"
	"slices"
	"sync"

	"github.com/recwise/recrules/pkg/rule"
)

// Memory is an in-memory [Store], primarily for tests.
type Memory struct {
	rules []rule.Rule
	ok    bool
	mu    sync.RWMutex
}

var _ Store = (*Memory)(nil)

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Get(_ context.Context) ([]rule.Rule, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if !m.ok {
		return nil, false, nil
	}

	return slices.Clone(m.rules), true, nil
}

func (m *Memory) Set(_ context.Context, rules []rule.Rule) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.rules = slices.Clone(rules)
	m.ok = true

	return nil
}

func (m *Memory) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.rules = nil
	m.ok = false

	return nil
}
