package ethconnector

import (
	"encoding/binary"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/aurora-is-near/aurora-engine-go/internal/hostio"
)

// WithdrawRecord is what the engine persists for every withdraw-to-
// Ethereum call, so a later `finish_deposit`-style relayer proof (or a
// support query) can reconstruct what a given nonce paid out.
type WithdrawRecord struct {
	Recipient common.Address
	Amount    *big.Int
	EthCustodianAddress common.Address
}

const withdrawSerializationTag = byte(0x07) // EthConnector sub-key WithdrawSerializationType

func withdrawRecordKey(nonce uint64) []byte {
	buf := make([]byte, 9)
	buf[0] = withdrawSerializationTag
	binary.BigEndian.PutUint64(buf[1:], nonce)
	return buf
}

// WithdrawLedger persists WithdrawRecords keyed by the engine nonce
// that produced them.
type WithdrawLedger struct {
	kv hostio.KVStore
}

// NewWithdrawLedger constructs a WithdrawLedger bound to the host
// key-value store.
func NewWithdrawLedger(kv hostio.KVStore) *WithdrawLedger { return &WithdrawLedger{kv: kv} }

// Record stores a withdrawal, JSON-encoded to match the rest of the
// eth-connector's NEP-141-facing wire formats (spec §6 "NEP-141-facing
// args ... are JSON").
func (l *WithdrawLedger) Record(nonce uint64, r WithdrawRecord) {
	amt := "0"
	if r.Amount != nil {
		amt = r.Amount.String()
	}
	blob := fmt.Sprintf(`{"recipient_address":%q,"amount":%q,"eth_custodian_address":%q}`,
		r.Recipient.Hex(), amt, r.EthCustodianAddress.Hex())
	l.kv.Set(withdrawRecordKey(nonce), []byte(blob))
}

// Lookup reports whether a withdraw record exists for nonce, returning
// its raw JSON encoding.
func (l *WithdrawLedger) Lookup(nonce uint64) ([]byte, bool) {
	return l.kv.Get(withdrawRecordKey(nonce))
}
