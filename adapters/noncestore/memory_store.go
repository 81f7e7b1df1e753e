package noncestore

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/feedgate/feedgate/core"
	"github.com/feedgate/feedgate/ports"
)

// sweepInterval bounds memory growth from abandoned challenges.
const sweepInterval = 5 * time.Minute

// MemoryStore is an in-process implementation of the NonceStore interface.
// Correct under single-instance deployment; multi-instance deployments need
// the Redis backend.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]core.NonceRecord

	stop     chan struct{}
	stopOnce sync.Once
}

// NewMemoryStore creates a new in-process store and starts its sweep timer.
// One timer per store instance, shared across all wallets.
func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{
		records: make(map[string]core.NonceRecord),
		stop:    make(chan struct{}),
	}
	go s.sweep()
	return s
}

// Issue stores a challenge for the address, replacing any prior one.
func (s *MemoryStore) Issue(_ context.Context, walletAddress, nonce string, ttl time.Duration) error {
	key := strings.ToLower(walletAddress)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[key] = core.NonceRecord{
		WalletAddress: key,
		Nonce:         nonce,
		ExpiresAt:     time.Now().Add(ttl),
	}
	return nil
}

// Fetch returns the live challenge for the address. A stale record is
// deleted as a side effect and reported as absent.
func (s *MemoryStore) Fetch(_ context.Context, walletAddress string) (*core.NonceRecord, error) {
	key := strings.ToLower(walletAddress)

	s.mu.Lock()
	defer s.mu.Unlock()

	record, exists := s.records[key]
	if !exists {
		return nil, nil
	}

	if time.Now().After(record.ExpiresAt) {
		delete(s.records, key)
		return nil, nil
	}

	return &record, nil
}

// Revoke deletes the challenge for the address. Idempotent.
func (s *MemoryStore) Revoke(_ context.Context, walletAddress string) error {
	key := strings.ToLower(walletAddress)

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.records, key)
	return nil
}

// Shutdown stops the sweep timer. Safe to call more than once.
func (s *MemoryStore) Shutdown() {
	s.stopOnce.Do(func() {
		close(s.stop)
	})
}

func (s *MemoryStore) sweep() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case now := <-ticker.C:
			s.mu.Lock()
			for key, record := range s.records {
				if now.After(record.ExpiresAt) {
					delete(s.records, key)
				}
			}
			s.mu.Unlock()
		}
	}
}

var _ ports.NonceStore = (*MemoryStore)(nil)
