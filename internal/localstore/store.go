// Package localstore provides a flat-file hostio.KVStore for the
// standalone CLI's replay mode (spec §4.7 "TransactionKind ... for
// standalone replay"). Production wiring plugs the host runtime's own
// register-based store in directly; this package exists purely so
// enginecli can load and persist state between invocations without a
// live host. cosmossdk.io/store's IAVL-backed tree expects a full
// cosmos-db handle and a multi-store commit model neither of which a
// single-binary replay tool needs, so a JSON snapshot on disk is the
// simplest honest fit.
package localstore

import (
	"encoding/base64"
	"encoding/json"
	"os"
	"sort"
	"sync"
)

// Store is an in-memory key-value map that can be loaded from and
// flushed back to a JSON file on disk.
type Store struct {
	mu   sync.RWMutex
	path string
	data map[string][]byte
}

// Open loads path if it exists, or starts empty if it does not.
func Open(path string) (*Store, error) {
	s := &Store{path: path, data: make(map[string][]byte)}

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, err
	}
	if len(raw) == 0 {
		return s, nil
	}

	var encoded map[string]string
	if err := json.Unmarshal(raw, &encoded); err != nil {
		return nil, err
	}
	for k, v := range encoded {
		decoded, err := base64.StdEncoding.DecodeString(v)
		if err != nil {
			return nil, err
		}
		s.data[k] = decoded
	}
	return s, nil
}

// Flush persists the store's current contents to its backing path.
func (s *Store) Flush() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	encoded := make(map[string]string, len(s.data))
	for k, v := range s.data {
		encoded[k] = base64.StdEncoding.EncodeToString(v)
	}
	raw, err := json.MarshalIndent(encoded, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, raw, 0o600)
}

// Get implements hostio.KVStore.
func (s *Store) Get(key []byte) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[string(key)]
	return v, ok
}

// Set implements hostio.KVStore.
func (s *Store) Set(key, value []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[string(key)] = append([]byte{}, value...)
}

// Delete implements hostio.KVStore.
func (s *Store) Delete(key []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, string(key))
}

// Iterate implements hostio.KVStore, visiting keys in ascending order
// so replay output is deterministic across runs.
func (s *Store) Iterate(prefix []byte, fn func(key, value []byte) bool) {
	s.mu.RLock()
	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		if len(k) >= len(prefix) && k[:len(prefix)] == string(prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	values := make([][]byte, len(keys))
	for i, k := range keys {
		values[i] = s.data[k]
	}
	s.mu.RUnlock()

	for i, k := range keys {
		if !fn([]byte(k), values[i]) {
			return
		}
	}
}
