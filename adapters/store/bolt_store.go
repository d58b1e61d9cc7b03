package store

import (
	"context"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/NicholasPaulCarl/zarbitrage-adminauth/core"
	"github.com/NicholasPaulCarl/zarbitrage-adminauth/ports"
)

var (
	boltBucket        = []byte("adminauth")
	boltCredentialKey = []byte("credential")
)

// BoltStore is a file-backed implementation of the Store interface. It is
// the default for the CLI: one local db file per operator context, durable
// across restarts.
type BoltStore struct {
	db *bbolt.DB
}

// NewBoltStore returns a store backed by the given BBolt database.
func NewBoltStore(db *bbolt.DB) *BoltStore {
	return &BoltStore{db: db}
}

// NewBoltStoreFromFile opens a BBolt database at the given path and returns
// a store backed by it.
func NewBoltStoreFromFile(path string) (*BoltStore, error) {
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("opening bolt db: %w", err)
	}
	return NewBoltStore(db), nil
}

var _ ports.Store = (*BoltStore)(nil)

// Close closes the underlying database.
func (s *BoltStore) Close() error {
	return s.db.Close()
}

// Load returns the stored raw token, or core.ErrNoCredential if the slot
// is empty.
func (s *BoltStore) Load(ctx context.Context) (string, error) {
	var raw string
	found := false

	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(boltBucket)
		if b == nil {
			return nil
		}
		if data := b.Get(boltCredentialKey); data != nil {
			raw = string(data)
			found = true
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to load credential: %w", err)
	}
	if !found {
		return "", core.ErrNoCredential
	}
	return raw, nil
}

// Save stores the raw token.
func (s *BoltStore) Save(ctx context.Context, raw string) error {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(boltBucket)
		if err != nil {
			return err
		}
		return b.Put(boltCredentialKey, []byte(raw))
	})
	if err != nil {
		return fmt.Errorf("failed to save credential: %w", err)
	}
	return nil
}

// Clear removes the slot. Clearing an empty slot is not an error.
func (s *BoltStore) Clear(ctx context.Context) error {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(boltBucket)
		if b == nil {
			return nil
		}
		return b.Delete(boltCredentialKey)
	})
	if err != nil {
		return fmt.Errorf("failed to clear credential: %w", err)
	}
	return nil
}
