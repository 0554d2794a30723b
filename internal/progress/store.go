package progress

import (
	"context"
	"sync"
)

// Store persists ItemProgress records per study-set scope.
type Store interface {
	// Get returns the record for itemID, or Default() if none is stored.
	Get(ctx context.Context, scope string, itemID int) (ItemProgress, error)

	// Set overwrites the record for itemID.
	Set(ctx context.Context, scope string, itemID int, p ItemProgress) error
}

// MemoryStore is an in-process Store. Records are kept encoded so reads go
// through the same field-level validation as durable stores.
type MemoryStore struct {
	mu      sync.Mutex
	records map[memoryKey][]byte
}

type memoryKey struct {
	scope  string
	itemID int
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[memoryKey][]byte)}
}

func (m *MemoryStore) Get(_ context.Context, scope string, itemID int) (ItemProgress, error) {
	m.mu.Lock()
	data, ok := m.records[memoryKey{scope, itemID}]
	m.mu.Unlock()
	if !ok {
		return Default(), nil
	}
	p, _ := Decode(data)
	return p, nil
}

func (m *MemoryStore) Set(_ context.Context, scope string, itemID int, p ItemProgress) error {
	data, err := Encode(p)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.records[memoryKey{scope, itemID}] = data
	m.mu.Unlock()
	return nil
}

// PutRaw stores an encoded payload as-is. Used to simulate records written
// by older clients or damaged on disk.
func (m *MemoryStore) PutRaw(scope string, itemID int, data []byte) {
	m.mu.Lock()
	m.records[memoryKey{scope, itemID}] = data
	m.mu.Unlock()
}
