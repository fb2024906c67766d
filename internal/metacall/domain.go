// Package metacall implements the EIP-712 meta-transaction pipeline:
// domain-separator derivation, recursive structured-argument hashing,
// and sender recovery (spec §4.2 "Meta-call pipeline").
package metacall

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// domainTypeHash is keccak("EIP712Domain(string name,string version,uint256 chainId)"),
// fixed by spec §4.2.
var domainTypeHash = crypto.Keccak256([]byte("EIP712Domain(string name,string version,uint256 chainId)"))

// DomainSeparator computes the EIP-712 domain separator for the fixed
// name "NEAR", version "1", and the given chain id (spec §4.2, §8
// scenario 1).
func DomainSeparator(chainID *big.Int) common.Hash {
	nameHash := crypto.Keccak256([]byte("NEAR"))
	versionHash := crypto.Keccak256([]byte("1"))
	chainIDWord := leftPadBigInt(chainID)

	buf := make([]byte, 0, 32*4)
	buf = append(buf, domainTypeHash...)
	buf = append(buf, nameHash...)
	buf = append(buf, versionHash...)
	buf = append(buf, chainIDWord...)

	return crypto.Keccak256Hash(buf)
}

func leftPadBigInt(v *big.Int) []byte {
	word := make([]byte, 32)
	b := v.Bytes()
	copy(word[32-len(b):], b)
	return word
}
