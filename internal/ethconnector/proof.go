// Package ethconnector implements deposit-proof verification
// orchestration, the finish-deposit callback, and withdraw-to-Ethereum
// record keeping for the eth-connector subsystem (spec §2 "eth-connector").
package ethconnector

import (
	"crypto/sha256"
	"encoding/binary"
	"strconv"

	"github.com/aurora-is-near/aurora-engine-go/internal/hostio"
)

// Proof is a light-client proof that a Deposited event was emitted by
// the custodian contract on the Ethereum side (spec §8 scenario 2).
type Proof struct {
	LogIndex     uint64
	LogEntryData []byte
	ReceiptIndex uint64
	ReceiptData  []byte
	HeaderData   []byte
	ProofPath    [][]byte
}

// Key derives the proof's dedup key: sha256(LE64(log_index) ‖
// LE64(receipt_index) ‖ header_data), rendered as the concatenation of
// each hash byte's decimal digits (not a single big-endian integer) —
// this exact, unusual scheme is what the host-side duplicate-proof
// table keys on.
func (p Proof) Key() string {
	buf := make([]byte, 0, 16+len(p.HeaderData))
	buf = binary.LittleEndian.AppendUint64(buf, p.LogIndex)
	buf = binary.LittleEndian.AppendUint64(buf, p.ReceiptIndex)
	buf = append(buf, p.HeaderData...)

	sum := sha256.Sum256(buf)
	out := make([]byte, 0, len(sum)*3)
	for _, b := range sum {
		out = strconv.AppendUint(out, uint64(b), 10)
	}
	return string(out)
}

// usedEventTag is the EthConnector sub-key prefix for recorded proof keys.
const usedEventTag = byte(0x02)

func usedEventKey(proofKey string) []byte {
	return append([]byte{usedEventTag}, []byte(proofKey)...)
}

// Verifier tracks which proof keys have already been consumed,
// enforcing the "ProofAlreadyUsed" invariant (spec §7 "Proof:
// proof-already-used").
type Verifier struct {
	kv hostio.KVStore
}

// NewVerifier constructs a Verifier bound to the given host key-value
// store.
func NewVerifier(kv hostio.KVStore) *Verifier { return &Verifier{kv: kv} }

// IsUsed reports whether a proof's key has already been recorded.
func (v *Verifier) IsUsed(p Proof) bool {
	_, found := v.kv.Get(usedEventKey(p.Key()))
	return found
}

// MarkUsed records a proof key so it cannot be replayed. Callers must
// check IsUsed first; MarkUsed itself does not re-check.
func (v *Verifier) MarkUsed(p Proof) {
	v.kv.Set(usedEventKey(p.Key()), []byte{1})
}
