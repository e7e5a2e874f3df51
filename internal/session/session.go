// Package session keeps per-conversation chat contexts in memory, keyed
// by session id. Contexts are copied on the way in and out so callers
// never share mutable state with the store.
package session

import (
	"sync"

	"github.com/ccraze049/ai/internal/chat"
)

type Manager struct {
	mu       sync.RWMutex
	sessions map[string]chat.Context
}

func NewManager() *Manager {
	return &Manager{sessions: make(map[string]chat.Context)}
}

// Get returns the stored context for id, or a fresh one carrying the id.
func (m *Manager) Get(id string) chat.Context {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if cctx, ok := m.sessions[id]; ok {
		return cctx.Clone()
	}
	return chat.Context{SessionID: id}
}

func (m *Manager) Put(cctx chat.Context) {
	if cctx.SessionID == "" {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[cctx.SessionID] = cctx.Clone()
}

func (m *Manager) Reset(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
