package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"
)

var (
	ErrModalNotFound = errors.New("checkout modal not found")
	ErrModalExpired  = errors.New("checkout modal expired")
)

const defaultModalTTL = 30 * time.Minute

// ModalStore keeps open checkout modals in memory.
type ModalStore struct {
	modals map[string]*Modal
	mu     sync.RWMutex
	ttl    time.Duration
}

// NewModalStore creates an empty store. A zero ttl falls back to 30 minutes.
func NewModalStore(ttl time.Duration) *ModalStore {
	if ttl == 0 {
		ttl = defaultModalTTL
	}
	return &ModalStore{
		modals: make(map[string]*Modal),
		ttl:    ttl,
	}
}

// Open creates and stores a modal for the given order items.
func (s *ModalStore) Open(items json.RawMessage) *Modal {
	m := NewModal(items, s.ttl)

	s.mu.Lock()
	s.modals[m.ID] = m
	s.mu.Unlock()

	return m
}

// Get returns an open modal and extends its expiry.
func (s *ModalStore) Get(id string) (*Modal, error) {
	s.mu.RLock()
	m, exists := s.modals[id]
	s.mu.RUnlock()

	if !exists {
		return nil, ErrModalNotFound
	}

	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	if now.After(m.ExpiresAt) {
		delete(s.modals, id)
		return nil, ErrModalExpired
	}
	m.ExpiresAt = now.Add(s.ttl)

	return m, nil
}

// Close discards a modal.
func (s *ModalStore) Close(id string) {
	s.mu.Lock()
	delete(s.modals, id)
	s.mu.Unlock()
}

// CleanupExpired removes every expired modal and returns how many were dropped.
func (s *ModalStore) CleanupExpired() int {
	now := time.Now()
	count := 0

	s.mu.Lock()
	for id, m := range s.modals {
		if now.After(m.ExpiresAt) {
			delete(s.modals, id)
			count++
		}
	}
	s.mu.Unlock()

	return count
}

// Count returns the number of open modals.
func (s *ModalStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.modals)
}

// StartCleanup periodically drops expired modals until ctx is done.
func (s *ModalStore) StartCleanup(ctx context.Context, interval time.Duration, onCleanup func(int)) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if count := s.CleanupExpired(); count > 0 && onCleanup != nil {
					onCleanup(count)
				}
			}
		}
	}()
}
