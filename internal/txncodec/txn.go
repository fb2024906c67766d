// Package txncodec decodes and canonicalizes external Ethereum
// transactions: legacy RLP, EIP-2930 and EIP-1559 typed envelopes,
// with ECDSA recovery, chain-id validation, and intrinsic-gas checks
// (spec §4.1 "Transaction codec").
package txncodec

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"

	"github.com/aurora-is-near/aurora-engine-go/internal/engineerr"
)

// NormalizedEthTransaction is the canonical, envelope-agnostic
// projection of a decoded Ethereum transaction (spec §4.1).
type NormalizedEthTransaction struct {
	Address               common.Address
	ChainID               *big.Int // nil when the legacy tx carried no chain id (pre-EIP-155)
	Nonce                  uint64
	GasLimit                uint64
	MaxPriorityFeePerGas     *big.Int
	MaxFeePerGas              *big.Int
	To                         *common.Address
	Value                       *big.Int
	Data                         []byte
	AccessList                    ethtypes.AccessList
}

// IsCreate reports whether this transaction deploys a new contract
// (spec §4.1: "`to` is empty-bytes for contract creation").
func (n NormalizedEthTransaction) IsCreate() bool {
	return n.To == nil
}

// intrinsicGas computes 21000 + 68*nonzero_bytes + 4*zero_bytes +
// 32000*is_create (spec §4.1).
func intrinsicGas(data []byte, isCreate bool) uint64 {
	const (
		txGas            = 21000
		txGasContractCreation = 32000
		txDataNonZeroGas = 68
		txDataZeroGas    = 4
	)
	gas := uint64(txGas)
	if isCreate {
		gas += txGasContractCreation
	}
	var nonZero, zero uint64
	for _, b := range data {
		if b == 0 {
			zero++
		} else {
			nonZero++
		}
	}
	gas += nonZero * txDataNonZeroGas
	gas += zero * txDataZeroGas
	return gas
}

// Decode parses an RLP-or-typed-envelope transaction byte slice,
// recovers the sender, and validates it against engineChainID. The
// first byte selects the envelope: >= 0xc0 is a legacy RLP list;
// 0x01 is EIP-2930; 0x02 is EIP-1559; anything else is an unknown
// typed envelope.
func Decode(raw []byte, engineChainID *big.Int) (NormalizedEthTransaction, error) {
	if len(raw) == 0 {
		return NormalizedEthTransaction{}, fmt.Errorf("%w: empty transaction bytes", engineerr.ErrRlpDecode)
	}

	tx := new(ethtypes.Transaction)
	if err := tx.UnmarshalBinary(raw); err != nil {
		return NormalizedEthTransaction{}, fmt.Errorf("%w: %s", engineerr.ErrRlpDecode, err)
	}

	if err := validateMalleability(tx); err != nil {
		return NormalizedEthTransaction{}, err
	}

	signer := signerFor(tx, engineChainID)
	sender, err := ethtypes.Sender(signer, tx)
	if err != nil {
		return NormalizedEthTransaction{}, fmt.Errorf("%w: %s", engineerr.ErrInvalidEcRecoverSig, err)
	}

	if tx.Type() == ethtypes.LegacyTxType && tx.Protected() {
		if tx.ChainId().Cmp(engineChainID) != 0 {
			return NormalizedEthTransaction{}, fmt.Errorf("%w: tx chain id %s != engine chain id %s",
				engineerr.ErrInvalidChainID, tx.ChainId(), engineChainID)
		}
	} else if tx.Type() != ethtypes.LegacyTxType {
		if tx.ChainId().Cmp(engineChainID) != 0 {
			return NormalizedEthTransaction{}, fmt.Errorf("%w: tx chain id %s != engine chain id %s",
				engineerr.ErrInvalidChainID, tx.ChainId(), engineChainID)
		}
	}

	if tx.GasFeeCap() != nil && tx.GasTipCap() != nil && tx.GasTipCap().Cmp(tx.GasFeeCap()) > 0 {
		return NormalizedEthTransaction{}, fmt.Errorf("%w: priority fee %s > max fee %s",
			engineerr.ErrMaxPriorityFeeGreater, tx.GasTipCap(), tx.GasFeeCap())
	}

	isCreate := tx.To() == nil
	if need := intrinsicGas(tx.Data(), isCreate); tx.Gas() < need {
		return NormalizedEthTransaction{}, fmt.Errorf("%w: gas limit %d below intrinsic %d",
			engineerr.ErrIntrinsicGas, tx.Gas(), need)
	}

	var chainID *big.Int
	if tx.Type() != ethtypes.LegacyTxType || tx.Protected() {
		chainID = tx.ChainId()
	}

	return NormalizedEthTransaction{
		Address:              sender,
		ChainID:               chainID,
		Nonce:                  tx.Nonce(),
		GasLimit:                tx.Gas(),
		MaxPriorityFeePerGas:      tx.GasTipCap(),
		MaxFeePerGas:               tx.GasFeeCap(),
		To:                          tx.To(),
		Value:                        tx.Value(),
		Data:                          tx.Data(),
		AccessList:                     tx.AccessList(),
	}, nil
}

// signerFor selects the go-ethereum Signer implementation matching
// the transaction's envelope, bound to the engine's chain id so that
// EIP-155 recovery rejects mismatched ids early.
func signerFor(tx *ethtypes.Transaction, engineChainID *big.Int) ethtypes.Signer {
	switch tx.Type() {
	case ethtypes.AccessListTxType:
		return ethtypes.NewLondonSigner(engineChainID)
	case ethtypes.DynamicFeeTxType:
		return ethtypes.NewLondonSigner(engineChainID)
	default:
		if tx.Protected() {
			return ethtypes.NewEIP155Signer(engineChainID)
		}
		return ethtypes.HomesteadSigner{}
	}
}

// validateMalleability rejects signatures whose s value sits in the
// upper half of the curve order, per spec §4.1: "verify s is in the
// lower half (reject malleable signatures ⇒ InvalidEcRecoverSignature)".
func validateMalleability(tx *ethtypes.Transaction) error {
	_, _, s := tx.RawSignatureValues()
	if s == nil {
		return fmt.Errorf("%w: missing signature", engineerr.ErrInvalidEcRecoverSig)
	}
	if s.Cmp(secp256k1HalfOrder) > 0 {
		return fmt.Errorf("%w: s value in upper half of curve order", engineerr.ErrInvalidEcRecoverSig)
	}
	return nil
}

// secp256k1HalfOrder is secp256k1's group order divided by two,
// the malleability boundary used by go-ethereum's own signer and
// re-enforced here per spec §4.1.
var secp256k1HalfOrder = new(big.Int).Rsh(
	new(big.Int).SetBytes(common.Hex2Bytes("fffffffffffffffffffffffffffffffebaaedce6af48a03bbfd25e8cd0364141")),
	1,
)
