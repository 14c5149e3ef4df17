package repo

import (
	"context"
	"slices"
	"sync"

	"github.com/adtracksaver/adtrack/internal"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

// MemoryStore keeps links for the lifetime of the process only.
type MemoryStore struct {
	mu    sync.RWMutex
	links []*internal.MonitoredLink
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) List(_ context.Context) ([]*internal.MonitoredLink, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return lo.Map(s.links, func(l *internal.MonitoredLink, _ int) *internal.MonitoredLink {
		return l.Clone()
	}), nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*internal.MonitoredLink, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil, internal.ErrLinkNotFound
	}
	return s.links[i].Clone(), nil
}

func (s *MemoryStore) Insert(_ context.Context, link *internal.MonitoredLink) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.links = append(s.links, link.Clone())
	log.Debug().Str("id", link.ID).Int("total", len(s.links)).Msg("link stored in memory")
	return nil
}

func (s *MemoryStore) Replace(_ context.Context, link *internal.MonitoredLink) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(link.ID)
	if i < 0 {
		return internal.ErrLinkNotFound
	}
	s.links[i] = link.Clone()
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return internal.ErrLinkNotFound
	}
	s.links = slices.Delete(s.links, i, i+1)
	return nil
}

func (s *MemoryStore) indexOf(id string) int {
	return slices.IndexFunc(s.links, func(l *internal.MonitoredLink) bool { return l.ID == id })
}
