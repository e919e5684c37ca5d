// Package memory disponibiliza o storage de janela fixa em memória do processo.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/Ball1992/project-management-with-nextjs-sub002/internal/core/domain"
	"github.com/Ball1992/project-management-with-nextjs-sub002/internal/core/ports"
)

// Storage mantém os contadores em um map local. Cada instância do processo
// tem o seu próprio map; para várias instâncias use o storage Redis.
type Storage struct {
	mu      sync.Mutex
	entries map[string]*domain.Counter
}

var _ ports.Storage = (*Storage)(nil)

func New() *Storage {
	return &Storage{entries: make(map[string]*domain.Counter)}
}

func (s *Storage) Increment(_ context.Context, key string, window time.Duration, now time.Time) (domain.Counter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok || now.After(entry.ResetAt) {
		entry = &domain.Counter{Count: 1, ResetAt: now.Add(window)}
		s.entries[key] = entry
		return *entry, nil
	}

	entry.Count++
	return *entry, nil
}

func (s *Storage) Sweep(_ context.Context, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, entry := range s.entries {
		if now.After(entry.ResetAt) {
			delete(s.entries, key)
			removed++
		}
	}
	return removed, nil
}

// Len retorna o número de entradas rastreadas.
func (s *Storage) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
