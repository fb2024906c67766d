// Package storagekey derives the prefix-versioned keys the engine uses
// against the host key-value store (spec §6 "Persisted key layout").
package storagekey

import (
	"encoding/binary"

	"github.com/ethereum/go-ethereum/common"
)

// Version is the single leading byte every engine key starts with.
const Version byte = 0x07

// Prefix identifies the second key byte, selecting which sub-domain of
// engine state a key belongs to.
type Prefix byte

const (
	PrefixConfig        Prefix = 0x00
	PrefixNonce         Prefix = 0x01
	PrefixBalance       Prefix = 0x02
	PrefixCode          Prefix = 0x03
	PrefixStorage       Prefix = 0x04
	PrefixRelayerMap    Prefix = 0x05
	PrefixEthConnector  Prefix = 0x06
	PrefixGeneration    Prefix = 0x07
	PrefixNep141ToErc20 Prefix = 0x08
	PrefixErc20ToNep141 Prefix = 0x09
)

// EthConnectorSubKey further partitions PrefixEthConnector.
type EthConnectorSubKey byte

const (
	SubKeyContract                EthConnectorSubKey = 0x00
	SubKeyFungibleToken            EthConnectorSubKey = 0x01
	SubKeyUsedEvent                 EthConnectorSubKey = 0x02
	SubKeyPausedMask                EthConnectorSubKey = 0x03
	SubKeyStatCounter                EthConnectorSubKey = 0x04
	SubKeyFungibleTokenMetadata       EthConnectorSubKey = 0x05
	SubKeyEthConnectorAccount          EthConnectorSubKey = 0x06
	SubKeyWithdrawSerializationType     EthConnectorSubKey = 0x07
)

func base(p Prefix) []byte {
	return []byte{Version, byte(p)}
}

// Config returns the fixed key EngineState is persisted under.
func Config() []byte {
	return base(PrefixConfig)
}

// Nonce returns the key for an address's nonce.
func Nonce(addr common.Address) []byte {
	return append(base(PrefixNonce), addr.Bytes()...)
}

// Balance returns the key for an address's wei balance.
func Balance(addr common.Address) []byte {
	return append(base(PrefixBalance), addr.Bytes()...)
}

// Code returns the key for an address's contract code.
func Code(addr common.Address) []byte {
	return append(base(PrefixCode), addr.Bytes()...)
}

// Generation returns the key for an address's generation counter.
func Generation(addr common.Address) []byte {
	return append(base(PrefixGeneration), addr.Bytes()...)
}

// Storage returns the key for a single storage slot. The generation
// segment is omitted entirely when generation is zero, matching the
// physical layout in spec §6: "addr ‖ [generation(4 LE) if ≠0] ‖
// slot_key".
func Storage(addr common.Address, slot common.Hash, generation uint32) []byte {
	k := append(base(PrefixStorage), addr.Bytes()...)
	if generation != 0 {
		var g [4]byte
		binary.LittleEndian.PutUint32(g[:], generation)
		k = append(k, g[:]...)
	}
	return append(k, slot.Bytes()...)
}

// RelayerMap returns the key mapping a host account id to its
// registered relayer address.
func RelayerMap(hostAccount string) []byte {
	return append(base(PrefixRelayerMap), []byte(hostAccount)...)
}

// EthConnector returns the key for one of the eth-connector's
// sub-keyed records.
func EthConnector(sub EthConnectorSubKey) []byte {
	return append(base(PrefixEthConnector), byte(sub))
}

// Nep141ToErc20 returns the forward bijection key for a NEP-141
// account id.
func Nep141ToErc20(nep141 string) []byte {
	return append(base(PrefixNep141ToErc20), []byte(nep141)...)
}

// Erc20ToNep141 returns the reverse bijection key for an ERC-20
// address.
func Erc20ToNep141(erc20 common.Address) []byte {
	return append(base(PrefixErc20ToNep141), erc20.Bytes()...)
}
