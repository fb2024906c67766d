package evmadapter

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/aurora-is-near/aurora-engine-go/internal/storagekey"
)

// ApplyKind distinguishes the two effect shapes the interpreter can
// produce for an address touched during a call frame (spec §4.3
// "Apply set").
type ApplyKind int

const (
	ApplyModify ApplyKind = iota
	ApplyDelete
)

// ApplyEntry is one interpreter-produced effect for a single address.
type ApplyEntry struct {
	Kind    ApplyKind
	Address common.Address

	// Modify fields.
	Balance      *uint256.Int
	Nonce        uint64
	Code         []byte // nil means "leave code unchanged"
	HasCode      bool   // true iff Code should be written (even if empty)
	ResetStorage bool
	Storage      map[common.Hash]common.Hash // zero value for a key means delete that slot
}

// Apply iterates the interpreter's {Modify | Delete} entries in order
// and commits them to the host KV store (spec §4.3 "Apply set").
//
// Modify writes nonce & balance unconditionally; writes code iff new
// code is provided; if ResetStorage is set, generation is bumped by
// one *before* writing this frame's slots, so any leftover slots from
// before the reset are immediately orphaned. Delete removes nonce,
// balance and code and bumps generation.
//
// When deleteEmpty is set, any address left with nonce == 0, balance
// == 0 and empty code after its entry is applied has its record
// removed entirely (spec §4.3 "Empty-account collapse").
func (a *Adapter) Apply(entries []ApplyEntry, deleteEmpty bool) error {
	for _, e := range entries {
		switch e.Kind {
		case ApplyModify:
			a.applyModify(e)
		case ApplyDelete:
			a.applyDelete(e)
		}

		if deleteEmpty && a.Account(e.Address).IsEmpty() {
			a.removeAccount(e.Address)
		}
	}
	return nil
}

func (a *Adapter) applyModify(e ApplyEntry) {
	a.setNonce(e.Address, e.Nonce)
	bal := e.Balance
	if bal == nil {
		bal = new(uint256.Int)
	}
	a.setBalance(e.Address, bal)

	if e.HasCode {
		a.setCode(e.Address, e.Code)
	}

	if e.ResetStorage {
		a.BumpGeneration(e.Address)
	}

	for k, v := range e.Storage {
		a.setStorageAt(e.Address, k, v)
	}
}

func (a *Adapter) applyDelete(e ApplyEntry) {
	a.removeAccount(e.Address)
	a.BumpGeneration(e.Address)
}

// removeAccount deletes an address's nonce, balance and code records.
// Storage is left physically in place and removeAccount does not touch
// the generation. On the ApplyDelete path the caller bumps the
// generation afterwards, so the old slots become unreachable; on the
// empty-account collapse path in Apply no bump happens and the slots
// stay readable under the unchanged generation (spec §9 "Empty-account
// collapse: fold into the apply step; do not scan state afterwards").
func (a *Adapter) removeAccount(addr common.Address) {
	a.kv.Delete(storagekey.Nonce(addr))
	a.kv.Delete(storagekey.Balance(addr))
	a.kv.Delete(storagekey.Code(addr))
}
