package definition

import (
	"encoding/binary"
	"fmt"

	bolt "go.etcd.io/bbolt"

	"github.com/jabolina/go-ringelect/pkg/ringelect/types"
)

var snapshotBucket = []byte("snapshots")

// BoltStorage is a Storage backed by go.etcd.io/bbolt, for runs whose
// per-tick snapshots need to survive process restart -- the multi-seed
// `batch` subcommand (cmd/ringelectsim) persists every seed's snapshots
// to one bolt file for later inspection. Entries are keyed by
// tick||key, so one key written at many ticks keeps one value per tick;
// a second write of the same key within one tick replaces the first.
type BoltStorage struct {
	db *bolt.DB
}

var _ types.Storage = (*BoltStorage)(nil)

func NewBoltStorage(path string) (*BoltStorage, error) {
	db, err := bolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("ringelect: opening bolt storage %s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(snapshotBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &BoltStorage{db: db}, nil
}

func (b *BoltStorage) Close() error {
	return b.db.Close()
}

func boltKey(entry types.StorageEntry) []byte {
	key := make([]byte, 8+len(entry.Key))
	binary.BigEndian.PutUint64(key[:8], uint64(entry.Tick))
	copy(key[8:], entry.Key)
	return key
}

func (b *BoltStorage) Set(entry types.StorageEntry) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(snapshotBucket)
		return bucket.Put(boltKey(entry), entry.Value)
	})
}

func (b *BoltStorage) Get() ([]types.StorageEntry, error) {
	var out []types.StorageEntry
	err := b.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(snapshotBucket)
		return bucket.ForEach(func(k, v []byte) error {
			if len(k) < 8 {
				return nil
			}
			tick := int(binary.BigEndian.Uint64(k[:8]))
			value := make([]byte, len(v))
			copy(value, v)
			out = append(out, types.StorageEntry{
				Tick:  tick,
				Key:   string(k[8:]),
				Value: value,
			})
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
