package evmadapter_test

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/aurora-is-near/aurora-engine-go/internal/evmadapter"
)

type memKV struct {
	data map[string][]byte
}

func newMemKV() *memKV { return &memKV{data: make(map[string][]byte)} }

func (m *memKV) Get(key []byte) ([]byte, bool) {
	v, ok := m.data[string(key)]
	return v, ok
}
func (m *memKV) Set(key, value []byte) { m.data[string(key)] = append([]byte{}, value...) }
func (m *memKV) Delete(key []byte)     { delete(m.data, string(key)) }
func (m *memKV) Iterate(prefix []byte, fn func(key, value []byte) bool) {
	for k, v := range m.data {
		if len(k) >= len(prefix) && k[:len(prefix)] == string(prefix) {
			if !fn([]byte(k), v) {
				return
			}
		}
	}
}

func TestGenerationOrphansStorage(t *testing.T) {
	kv := newMemKV()
	a := evmadapter.New(kv, big.NewInt(1313161555), "relay.near")
	addr := common.HexToAddress("0x1111111111111111111111111111111111111111"[:42])

	key := common.HexToHash("0x01")
	val := common.HexToHash("0x02")

	err := a.Apply([]evmadapter.ApplyEntry{{
		Kind:    evmadapter.ApplyModify,
		Address: addr,
		Balance: uint256.NewInt(1),
		Storage: map[common.Hash]common.Hash{key: val},
	}}, false)
	require.NoError(t, err)
	require.Equal(t, val, a.StorageAt(addr, key))

	// SELFDESTRUCT-equivalent: bump generation via a Modify with
	// ResetStorage set.
	err = a.Apply([]evmadapter.ApplyEntry{{
		Kind:         evmadapter.ApplyModify,
		Address:      addr,
		Balance:      uint256.NewInt(1),
		ResetStorage: true,
	}}, false)
	require.NoError(t, err)

	require.Equal(t, common.Hash{}, a.StorageAt(addr, key), "old slot must read as zero after generation bump")
}

func TestEmptyAccountCollapse(t *testing.T) {
	kv := newMemKV()
	a := evmadapter.New(kv, big.NewInt(1), "relay.near")
	addr := common.HexToAddress("0x2222222222222222222222222222222222222222"[:42])

	err := a.Apply([]evmadapter.ApplyEntry{{
		Kind:    evmadapter.ApplyModify,
		Address: addr,
		Balance: uint256.NewInt(5),
	}}, true)
	require.NoError(t, err)
	require.False(t, a.Account(addr).IsEmpty())

	err = a.Apply([]evmadapter.ApplyEntry{{
		Kind:    evmadapter.ApplyModify,
		Address: addr,
		Balance: uint256.NewInt(0),
	}}, true)
	require.NoError(t, err)
	require.True(t, a.Account(addr).IsEmpty())
}
