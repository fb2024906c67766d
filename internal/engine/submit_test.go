package engine_test

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/aurora-is-near/aurora-engine-go/internal/engine"
	"github.com/aurora-is-near/aurora-engine-go/internal/evmadapter"
	"github.com/aurora-is-near/aurora-engine-go/internal/txncodec"
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

type neverCalledInterpreter struct{ t *testing.T }

func (n neverCalledInterpreter) Run(common.Address, common.Address, bool, []byte, *big.Int, uint64) (engine.ExecutionResult, error) {
	n.t.Fatal("interpreter must not run when the sender cannot cover gas_price*gas_limit")
	return engine.ExecutionResult{}, nil
}

// TestSubmitOutOfFund implements the spec's "Submit out-of-fund"
// scenario: sender balance 1 wei, gas_price*gas_limit = 1e9, result
// status OutOfFund, gas_used 0, nonce incremented, no other state
// change.
func TestSubmitOutOfFund(t *testing.T) {
	kv := newMemKV()
	adapter := evmadapter.New(kv, big.NewInt(1313161555), "aurora")
	sender := common.HexToAddress("0x7777777777777777777777777777777777777777"[:42])

	adapter.Apply([]evmadapter.ApplyEntry{{
		Kind:    evmadapter.ApplyModify,
		Address: sender,
		Balance: uint256.NewInt(1),
		Nonce:   5,
	}}, false)

	e := engine.New(adapter, neverCalledInterpreter{t: t}, big.NewInt(1_000_000_000))
	result, err := e.Submit(txncodec.NormalizedEthTransaction{
		Address:  sender,
		Nonce:    5,
		GasLimit: 1,
		Value:    big.NewInt(0),
	})
	require.NoError(t, err)
	require.Equal(t, engine.StatusOutOfFund, result.Status)
	require.Zero(t, result.GasUsed)

	require.Equal(t, uint64(6), adapter.Nonce(sender))
	require.Equal(t, uint64(1), adapter.Balance(sender).Uint64())
}

type fakeInterpreter struct {
	result engine.ExecutionResult
}

func (f fakeInterpreter) Run(common.Address, common.Address, bool, []byte, *big.Int, uint64) (engine.ExecutionResult, error) {
	return f.result, nil
}

func TestSubmitSucceedsAndRefundsUnusedGas(t *testing.T) {
	kv := newMemKV()
	adapter := evmadapter.New(kv, big.NewInt(1313161555), "aurora")
	sender := common.HexToAddress("0x8888888888888888888888888888888888888888"[:42])

	adapter.Apply([]evmadapter.ApplyEntry{{
		Kind:    evmadapter.ApplyModify,
		Address: sender,
		Balance: uint256.NewInt(1_000_000),
		Nonce:   0,
	}}, false)

	interp := fakeInterpreter{result: engine.ExecutionResult{GasUsed: 21000}}
	e := engine.New(adapter, interp, big.NewInt(1))

	result, err := e.Submit(txncodec.NormalizedEthTransaction{
		Address:  sender,
		Nonce:    0,
		GasLimit: 30000,
		Value:    big.NewInt(0),
	})
	require.NoError(t, err)
	require.Equal(t, engine.StatusSucceed, result.Status)
	require.Equal(t, uint64(1), adapter.Nonce(sender))
	require.Equal(t, uint64(1_000_000-21000), adapter.Balance(sender).Uint64())
}
