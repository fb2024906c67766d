package ethconnector_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aurora-is-near/aurora-engine-go/internal/ethconnector"
)

// TestProofKeyDeterminism implements the spec's "Proof key
// determinism" scenario: log_index=1, receipt_index=1, empty
// header_data must hash to the documented fixture string.
func TestProofKeyDeterminism(t *testing.T) {
	p := ethconnector.Proof{
		LogIndex:     1,
		ReceiptIndex: 1,
		HeaderData:   nil,
	}
	require.Equal(t,
		"1297721518512077871939115641114233180253108247225100248224214775219368216419218177247",
		p.Key(),
	)
}

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

func TestVerifierRejectsReplayedProof(t *testing.T) {
	kv := newMemKV()
	v := ethconnector.NewVerifier(kv)
	p := ethconnector.Proof{LogIndex: 7, ReceiptIndex: 2}

	require.False(t, v.IsUsed(p))
	v.MarkUsed(p)
	require.True(t, v.IsUsed(p))
}
