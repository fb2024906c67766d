package evmadapter

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/aurora-is-near/aurora-engine-go/internal/storagekey"
)

// StorageAt reads a single storage slot at addr's *current*
// generation. original_storage always returns "not found" so that
// every read is taken as fresh — conservative for revert semantics
// (spec §4.3: "original_storage returns None so every read is taken as
// fresh").
func (a *Adapter) StorageAt(addr common.Address, key common.Hash) common.Hash {
	gen := a.Generation(addr)
	raw, found := a.kv.Get(storagekey.Storage(addr, key, gen))
	a.chargeRead(raw)
	if !found {
		return common.Hash{}
	}
	return common.BytesToHash(raw)
}

func (a *Adapter) setStorageAt(addr common.Address, key, value common.Hash) {
	gen := a.Generation(addr)
	if value == (common.Hash{}) {
		a.kv.Delete(storagekey.Storage(addr, key, gen))
		return
	}
	a.kv.Set(storagekey.Storage(addr, key, gen), value.Bytes())
	a.chargeWrite(value.Bytes())
}

// OriginalStorageAt always reports "not present", per spec §4.3.
func (a *Adapter) OriginalStorageAt(common.Address, common.Hash) (common.Hash, bool) {
	return common.Hash{}, false
}
