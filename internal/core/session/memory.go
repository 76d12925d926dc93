package session

import (
	"context"
	"sync"
)

type Memory struct {
	mu   sync.RWMutex
	data map[string]map[string]string
}

func NewMemory() *Memory { return &Memory{data: make(map[string]map[string]string)} }

func (m *Memory) Get(_ context.Context, sid, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[sid][key]
	return v, ok, nil
}

func (m *Memory) Set(_ context.Context, sid, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.data[sid]
	if !ok {
		s = make(map[string]string, 2)
		m.data[sid] = s
	}
	s[key] = value
	return nil
}

func (m *Memory) Clear(_ context.Context, sid string) error {
	m.mu.Lock()
	delete(m.data, sid)
	m.mu.Unlock()
	return nil
}
