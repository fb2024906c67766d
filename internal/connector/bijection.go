// Package connector implements the ERC-20 ↔ NEP-141 bridge: token-pair
// deployment and bijection bookkeeping, the ft_on_transfer mint path,
// and the exitToNear/exitToEthereum precompiles (spec §4.5).
package connector

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/aurora-is-near/aurora-engine-go/internal/hostio"
	"github.com/aurora-is-near/aurora-engine-go/internal/storagekey"
)

// Bridge owns the bijection tables between NEP-141 account ids and
// ERC-20 addresses (spec §3 "Nep141↔Erc20 Map").
type Bridge struct {
	kv hostio.KVStore
}

// New constructs a Bridge bound to the given host key-value store.
func New(kv hostio.KVStore) *Bridge {
	return &Bridge{kv: kv}
}

// ErrAlreadyDeployed is returned by RecordBijection if the NEP-141
// account already has a paired ERC-20 address.
var ErrAlreadyDeployed = fmt.Errorf("connector: nep141 account already has a deployed erc20 pair")

// RecordBijection creates both halves of the bijection in a single
// call, so they are always paired (spec §3 "every entry created by a
// single deploy_erc20_token receipt").
func (b *Bridge) RecordBijection(nep141 string, erc20 common.Address) error {
	if _, ok := b.Erc20FromNep141(nep141); ok {
		return ErrAlreadyDeployed
	}
	b.kv.Set(storagekey.Nep141ToErc20(nep141), erc20.Bytes())
	b.kv.Set(storagekey.Erc20ToNep141(erc20), []byte(nep141))
	return nil
}

// Erc20FromNep141 looks up the ERC-20 address paired with a NEP-141
// account id.
func (b *Bridge) Erc20FromNep141(nep141 string) (common.Address, bool) {
	raw, found := b.kv.Get(storagekey.Nep141ToErc20(nep141))
	if !found {
		return common.Address{}, false
	}
	return common.BytesToAddress(raw), true
}

// Nep141FromErc20 looks up the NEP-141 account id paired with an
// ERC-20 address — the inverse of Erc20FromNep141, satisfying
// lookup_right(lookup_left(x)) == x (spec §8 "Invariants").
func (b *Bridge) Nep141FromErc20(erc20 common.Address) (string, bool) {
	raw, found := b.kv.Get(storagekey.Erc20ToNep141(erc20))
	if !found {
		return "", false
	}
	return string(raw), true
}
