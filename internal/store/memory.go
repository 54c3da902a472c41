package store

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/adpulse/adpulse-go/internal/models"
)

// MemoryStore keeps upload state per tenant in-process. Backs tests and the
// no-DB configuration. Payloads round-trip through JSON so load/save behave
// exactly like the SQLite adapter, malformed-value tolerance included.
type MemoryStore struct {
	mu       sync.RWMutex
	payloads map[string][]byte
	active   map[string]bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		payloads: make(map[string][]byte),
		active:   make(map[string]bool),
	}
}

func (s *MemoryStore) LoadUploadState(_ context.Context, tenantID string) (UploadState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	payload, ok := s.payloads[tenantID]
	if !ok {
		return UploadState{}, nil
	}
	var ds models.UploadedDataset
	if err := json.Unmarshal(payload, &ds); err != nil {
		// malformed state is treated as absent
		return UploadState{}, nil
	}
	return UploadState{Dataset: &ds, Active: s.active[tenantID]}, nil
}

func (s *MemoryStore) SaveUploadState(_ context.Context, tenantID string, ds *models.UploadedDataset, active bool) error {
	payload, err := json.Marshal(ds)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payloads[tenantID] = payload
	s.active[tenantID] = active
	return nil
}

func (s *MemoryStore) ClearUploadState(_ context.Context, tenantID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.payloads, tenantID)
	delete(s.active, tenantID)
	return nil
}

// Corrupt overwrites a tenant's payload with arbitrary bytes. Test hook for
// the malformed-state contract.
func (s *MemoryStore) Corrupt(tenantID string, payload []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payloads[tenantID] = payload
	s.active[tenantID] = true
}
