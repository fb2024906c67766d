// Package evmadapter bridges the EVM interpreter's Backend/state-apply
// contract onto the host key-value store, including the per-address
// "generation" trick that replaces an O(n) SELFDESTRUCT storage wipe
// with an O(1) counter bump (spec §4.3 "EVM state adapter", §9
// "'Generation' trick").
package evmadapter

import (
	"encoding/binary"
	"math/big"

	storetypes "cosmossdk.io/store/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"

	"github.com/aurora-is-near/aurora-engine-go/internal/hostio"
	"github.com/aurora-is-near/aurora-engine-go/internal/storagekey"
)

// Account is the per-address record the adapter persists (spec §3
// "AccountRecord").
type Account struct {
	Nonce      uint64
	Balance    *uint256.Int
	Code       []byte
	Generation uint32
}

// IsEmpty reports whether the account is implicit: nonce == 0,
// balance == 0, code.len == 0 (spec §3 "AccountRecord").
func (a Account) IsEmpty() bool {
	return a.Nonce == 0 && (a.Balance == nil || a.Balance.IsZero()) && len(a.Code) == 0
}

// Adapter implements the EVM Backend contract over a host KVStore.
type Adapter struct {
	kv      hostio.KVStore
	chainID *big.Int
	// hostAccount names the receipt-level host account the engine is
	// currently executing on behalf of, used by BlockHash (spec §4.3
	// "Block hash oracle").
	hostAccount string

	gasConfig storetypes.GasConfig
	gasUsed   uint64
}

// New constructs an Adapter bound to kv, chainID, and the host account
// of the current receipt, charging every KV access against the
// default cosmos-sdk KVStore gas schedule.
func New(kv hostio.KVStore, chainID *big.Int, hostAccount string) *Adapter {
	return &Adapter{kv: kv, chainID: chainID, hostAccount: hostAccount, gasConfig: DefaultKVGasConfig()}
}

// Generation returns addr's current generation counter.
func (a *Adapter) Generation(addr common.Address) uint32 {
	raw, found := a.kv.Get(storagekey.Generation(addr))
	a.chargeRead(raw)
	if !found {
		return 0
	}
	return binary.LittleEndian.Uint32(raw)
}

func (a *Adapter) setGeneration(addr common.Address, gen uint32) {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], gen)
	a.kv.Set(storagekey.Generation(addr), buf[:])
	a.chargeWrite(buf[:])
}

// BumpGeneration increments addr's generation counter by one,
// instantly orphaning all prior storage slots for that address
// without touching them physically (spec §9 "'Generation' trick").
func (a *Adapter) BumpGeneration(addr common.Address) uint32 {
	next := a.Generation(addr) + 1
	a.setGeneration(addr, next)
	return next
}

// Nonce returns addr's nonce.
func (a *Adapter) Nonce(addr common.Address) uint64 {
	raw, found := a.kv.Get(storagekey.Nonce(addr))
	a.chargeRead(raw)
	if !found {
		return 0
	}
	return binary.BigEndian.Uint64(raw[24:32])
}

func (a *Adapter) setNonce(addr common.Address, nonce uint64) {
	var buf [32]byte
	binary.BigEndian.PutUint64(buf[24:32], nonce)
	a.kv.Set(storagekey.Nonce(addr), buf[:])
	a.chargeWrite(buf[:])
}

// BumpNonce increments addr's nonce by one, leaving every other field
// untouched. Used by engine-submit so a transaction's nonce always
// advances even when execution never reaches the interpreter (spec §8
// scenario 6: "nonce incremented, no other state change").
func (a *Adapter) BumpNonce(addr common.Address) {
	a.setNonce(addr, a.Nonce(addr)+1)
}

// Balance returns addr's wei balance.
func (a *Adapter) Balance(addr common.Address) *uint256.Int {
	raw, found := a.kv.Get(storagekey.Balance(addr))
	a.chargeRead(raw)
	if !found {
		return new(uint256.Int)
	}
	return new(uint256.Int).SetBytes(raw)
}

func (a *Adapter) setBalance(addr common.Address, bal *uint256.Int) {
	word := bal.Bytes32()
	a.kv.Set(storagekey.Balance(addr), word[:])
	a.chargeWrite(word[:])
}

// Code returns addr's contract code.
func (a *Adapter) Code(addr common.Address) []byte {
	raw, _ := a.kv.Get(storagekey.Code(addr))
	a.chargeRead(raw)
	return raw
}

func (a *Adapter) setCode(addr common.Address, code []byte) {
	if len(code) == 0 {
		a.kv.Delete(storagekey.Code(addr))
		return
	}
	a.kv.Set(storagekey.Code(addr), code)
	a.chargeWrite(code)
}

// Basic returns the basic {balance, nonce} pair (spec §4.3 "basic(addr)").
func (a *Adapter) Basic(addr common.Address) (balance *uint256.Int, nonce uint64) {
	return a.Balance(addr), a.Nonce(addr)
}

// Account loads the full persisted record for addr.
func (a *Adapter) Account(addr common.Address) Account {
	return Account{
		Nonce:      a.Nonce(addr),
		Balance:    a.Balance(addr),
		Code:       a.Code(addr),
		Generation: a.Generation(addr),
	}
}

// BlockHash derives the per-block entropy the interpreter is allowed
// to observe: keccak(chain_id ‖ n ‖ host_account) (spec §4.3 "Block
// hash oracle").
func (a *Adapter) BlockHash(n uint64) common.Hash {
	buf := make([]byte, 0, 32+8+len(a.hostAccount))
	chainIDWord := make([]byte, 32)
	b := a.chainID.Bytes()
	copy(chainIDWord[32-len(b):], b)
	buf = append(buf, chainIDWord...)

	var nb [8]byte
	binary.BigEndian.PutUint64(nb[:], n)
	buf = append(buf, nb[:]...)
	buf = append(buf, []byte(a.hostAccount)...)

	return crypto.Keccak256Hash(buf)
}
