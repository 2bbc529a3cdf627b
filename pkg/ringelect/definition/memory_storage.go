package definition

import (
	"sync"

	"github.com/jabolina/go-ringelect/pkg/ringelect/types"
)

// MemoryStorage is the default in-memory Storage, matching the
// teacher's own unexported in-memory default for types.Storage.
type MemoryStorage struct {
	mutex   sync.Mutex
	entries []types.StorageEntry
}

var _ types.Storage = (*MemoryStorage)(nil)

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

func (m *MemoryStorage) Set(entry types.StorageEntry) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.entries = append(m.entries, entry)
	return nil
}

func (m *MemoryStorage) Get() ([]types.StorageEntry, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	out := make([]types.StorageEntry, len(m.entries))
	copy(out, m.entries)
	return out, nil
}
