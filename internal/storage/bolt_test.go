package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestBolt(t *testing.T, path string) *BoltStorage {
	t.Helper()

	store, err := OpenBolt(path)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

func TestOpenBoltSeedsDefaults(t *testing.T) {
	t.Parallel()

	store := openTestBolt(t, filepath.Join(t.TempDir(), "prices.db"))

	got, err := store.GetPrices()
	require.NoError(t, err)
	assert.Equal(t, DefaultPrices(), got)
}

func TestBoltStoragePersistsAcrossReopen(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "prices.db")

	store, err := OpenBolt(path)
	require.NoError(t, err)
	require.NoError(t, store.SetPrices([]float64{3, 5, 6, 7}))
	require.NoError(t, store.Close())

	reopened := openTestBolt(t, path)
	got, err := reopened.GetPrices()
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 5, 6, 7}, got)
}

func TestBoltStorageKeepsUpdateTimeAcrossReopen(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "prices.db")
	changedAt := time.Date(2024, 11, 1, 12, 30, 0, 0, time.UTC)

	store, err := OpenBolt(path)
	require.NoError(t, err)
	seededAt, err := store.PricesUpdatedAt()
	require.NoError(t, err)
	assert.False(t, seededAt.IsZero())

	store.now = func() time.Time { return changedAt }
	require.NoError(t, store.SetPrices([]float64{3, 5, 6, 7}))
	require.NoError(t, store.Close())

	reopened := openTestBolt(t, path)
	got, err := reopened.PricesUpdatedAt()
	require.NoError(t, err)
	assert.True(t, changedAt.Equal(got), "got %s", got)
}

func TestBoltStorageRejectsInvalidPrices(t *testing.T) {
	t.Parallel()

	store := openTestBolt(t, filepath.Join(t.TempDir(), "prices.db"))

	require.ErrorIs(t, store.SetPrices([]float64{}), ErrInvalidPrices)
	require.ErrorIs(t, store.SetPrices([]float64{1, -1}), ErrInvalidPrices)

	got, err := store.GetPrices()
	require.NoError(t, err)
	assert.Equal(t, DefaultPrices(), got)
}

func TestOpenBoltFailsForMissingDirectory(t *testing.T) {
	t.Parallel()

	_, err := OpenBolt(filepath.Join(t.TempDir(), "missing", "prices.db"))
	require.Error(t, err)
}

func TestBoltStorageImplementsStorage(t *testing.T) {
	var _ Storage = (*BoltStorage)(nil)
	var _ UpdateTracker = (*BoltStorage)(nil)
	var _ Storage = (*MemoryStorage)(nil)
}
