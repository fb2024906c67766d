package localstore_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aurora-is-near/aurora-engine-go/internal/localstore"
)

func TestOpenMissingFileStartsEmpty(t *testing.T) {
	store, err := localstore.Open(filepath.Join(t.TempDir(), "does-not-exist.json"))
	require.NoError(t, err)

	_, found := store.Get([]byte("anything"))
	require.False(t, found)
}

func TestFlushThenOpenRoundTripsValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")

	store, err := localstore.Open(path)
	require.NoError(t, err)

	store.Set([]byte("\x01\x00key-a"), []byte{0xde, 0xad})
	store.Set([]byte("\x01\x00key-b"), []byte{0xbe, 0xef})
	require.NoError(t, store.Flush())

	reopened, err := localstore.Open(path)
	require.NoError(t, err)

	v, found := reopened.Get([]byte("\x01\x00key-a"))
	require.True(t, found)
	require.Equal(t, []byte{0xde, 0xad}, v)

	v, found = reopened.Get([]byte("\x01\x00key-b"))
	require.True(t, found)
	require.Equal(t, []byte{0xbe, 0xef}, v)
}

func TestDeleteRemovesKey(t *testing.T) {
	store, err := localstore.Open(filepath.Join(t.TempDir(), "state.json"))
	require.NoError(t, err)

	store.Set([]byte("k"), []byte("v"))
	store.Delete([]byte("k"))

	_, found := store.Get([]byte("k"))
	require.False(t, found)
}

func TestIterateVisitsKeysInAscendingOrderWithinPrefix(t *testing.T) {
	store, err := localstore.Open(filepath.Join(t.TempDir(), "state.json"))
	require.NoError(t, err)

	store.Set([]byte("prefix-b"), []byte("2"))
	store.Set([]byte("prefix-a"), []byte("1"))
	store.Set([]byte("other-c"), []byte("3"))

	var seen []string
	store.Iterate([]byte("prefix-"), func(key, value []byte) bool {
		seen = append(seen, string(key))
		return true
	})

	require.Equal(t, []string{"prefix-a", "prefix-b"}, seen)
}

func TestIterateStopsWhenCallbackReturnsFalse(t *testing.T) {
	store, err := localstore.Open(filepath.Join(t.TempDir(), "state.json"))
	require.NoError(t, err)

	store.Set([]byte("a"), []byte("1"))
	store.Set([]byte("b"), []byte("2"))
	store.Set([]byte("c"), []byte("3"))

	count := 0
	store.Iterate(nil, func(key, value []byte) bool {
		count++
		return false
	})

	require.Equal(t, 1, count)
}
