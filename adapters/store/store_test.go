package store

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NicholasPaulCarl/zarbitrage-adminauth/core"
	"github.com/NicholasPaulCarl/zarbitrage-adminauth/ports"
)

func newBoltTestStore(t *testing.T) *BoltStore {
	t.Helper()

	f, err := os.CreateTemp(t.TempDir(), "adminauth-test-*.db")
	require.NoError(t, err)
	path := f.Name()
	require.NoError(t, f.Close())

	s, err := NewBoltStoreFromFile(path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	return s
}

// exerciseSlot runs the slot contract shared by every store adapter.
func exerciseSlot(t *testing.T, s ports.Store) {
	ctx := context.Background()

	_, err := s.Load(ctx)
	assert.True(t, errors.Is(err, core.ErrNoCredential), "empty slot must report ErrNoCredential, got %v", err)

	require.NoError(t, s.Save(ctx, "token-one"))
	raw, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "token-one", raw)

	// Last write wins.
	require.NoError(t, s.Save(ctx, "token-two"))
	raw, err = s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "token-two", raw)

	require.NoError(t, s.Clear(ctx))
	_, err = s.Load(ctx)
	assert.True(t, errors.Is(err, core.ErrNoCredential))

	// Clearing an empty slot is a no-op, not an error.
	require.NoError(t, s.Clear(ctx))
}

func TestMemoryStore(t *testing.T) {
	exerciseSlot(t, NewMemoryStore())
}

func TestBoltStore(t *testing.T) {
	exerciseSlot(t, newBoltTestStore(t))
}

func TestBoltStoreSurvivesReopen(t *testing.T) {
	ctx := context.Background()

	f, err := os.CreateTemp(t.TempDir(), "adminauth-test-*.db")
	require.NoError(t, err)
	path := f.Name()
	require.NoError(t, f.Close())

	s, err := NewBoltStoreFromFile(path)
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, "persisted"))
	require.NoError(t, s.Close())

	s2, err := NewBoltStoreFromFile(path)
	require.NoError(t, err)
	defer s2.Close()

	raw, err := s2.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "persisted", raw)
}
