// Package draftstore keeps sale drafts in redis, or in process memory when
// no redis is configured.
package draftstore

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/sangkips/atelier-api/internal/domain/composer"
	domainRepo "github.com/sangkips/atelier-api/internal/domain/repository"
)

type memoryEntry struct {
	payload   []byte
	expiresAt time.Time
}

// MemoryStore is a DraftRepository for single-instance deployments and tests.
// Drafts are stored serialized so callers never share a pointer.
type MemoryStore struct {
	ttl time.Duration
	now func() time.Time

	mu         sync.Mutex
	drafts     map[string]memoryEntry
	submitting map[string]struct{}
}

// NewMemoryStore creates an in-memory draft store. A zero ttl keeps drafts
// until deleted.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:        ttl,
		now:        time.Now,
		drafts:     make(map[string]memoryEntry),
		submitting: make(map[string]struct{}),
	}
}

var _ domainRepo.DraftRepository = (*MemoryStore)(nil)

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// lookup returns a live entry. Callers hold s.mu.
func (s *MemoryStore) lookup(id string) (memoryEntry, bool) {
	entry, ok := s.drafts[id]
	if ok && entry.expired(s.now()) {
		delete(s.drafts, id)
		return memoryEntry{}, false
	}
	return entry, ok
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*composer.Draft, error) {
	s.mu.Lock()
	entry, ok := s.lookup(id)
	s.mu.Unlock()

	if !ok {
		return nil, nil
	}
	var d composer.Draft
	if err := json.Unmarshal(entry.payload, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *MemoryStore) entry(draft *composer.Draft) (memoryEntry, error) {
	payload, err := json.Marshal(draft)
	if err != nil {
		return memoryEntry{}, err
	}
	entry := memoryEntry{payload: payload}
	if s.ttl > 0 {
		entry.expiresAt = s.now().Add(s.ttl)
	}
	return entry, nil
}

func (s *MemoryStore) Save(ctx context.Context, draft *composer.Draft) error {
	entry, err := s.entry(draft)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.drafts[draft.ID] = entry
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Update(ctx context.Context, draft *composer.Draft) error {
	entry, err := s.entry(draft)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.submitting[draft.ID]; busy {
		return domainRepo.ErrDraftSubmitting
	}
	if _, ok := s.lookup(draft.ID); !ok {
		return domainRepo.ErrDraftNotFound
	}
	s.drafts[draft.ID] = entry
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	delete(s.drafts, id)
	delete(s.submitting, id)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) AcquireSubmit(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, busy := s.submitting[id]; busy {
		return false, nil
	}
	s.submitting[id] = struct{}{}
	return true, nil
}

func (s *MemoryStore) ReleaseSubmit(ctx context.Context, id string) error {
	s.mu.Lock()
	delete(s.submitting, id)
	s.mu.Unlock()
	return nil
}

// Sweep drops every expired draft and reports how many were removed.
func (s *MemoryStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	n := 0
	for id, entry := range s.drafts {
		if entry.expired(now) {
			delete(s.drafts, id)
			n++
		}
	}
	return n
}

// StartSweeper runs Sweep every interval until ctx is done.
func (s *MemoryStore) StartSweeper(ctx context.Context, interval time.Duration) {
	if s.ttl <= 0 || interval <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.Sweep()
			}
		}
	}()
}
