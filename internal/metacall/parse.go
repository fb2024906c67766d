package metacall

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/aurora-is-near/aurora-engine-go/internal/abi/encoder"
	"github.com/aurora-is-near/aurora-engine-go/internal/abi/typeparser"
	"github.com/aurora-is-near/aurora-engine-go/internal/rlpcodec"
)

// Result is the outcome of parsing and verifying a meta-call receipt:
// the recovered sender plus the EVM call payload ready to hand to the
// interpreter.
type Result struct {
	Sender      common.Address
	Contract    common.Address
	Value       *big.Int
	CallData    []byte
	MethodSig   string
	Digest      common.Hash
}

// ParseMetaCall is the §4.2 entry point: it parses the method
// definition, hashes the structured arguments per EIP-712, recovers
// the sender from the signature, and ABI-encodes the call payload for
// EVM entry.
func ParseMetaCall(chainID *big.Int, hostAccount string, raw []byte) (Result, error) {
	a, err := DecodeMetaCallArgs(raw)
	if err != nil {
		return Result{}, err
	}

	mt, err := typeparser.Parse(a.MethodDef)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %s", errInvalidFunctionArg, err)
	}

	argValues, err := rlpcodec.DecodeList(a.Args)
	if err != nil {
		return Result{}, fmt.Errorf("metacall: decode args: %w", err)
	}
	if len(argValues) != len(mt.Method.Args) {
		return Result{}, fmt.Errorf("%w: method %q expects %d args, got %d",
			errInvalidFunctionArg, mt.Method.Name, len(mt.Method.Args), len(argValues))
	}

	digest, err := Digest(chainID, hostAccount, mt, a, argValues)
	if err != nil {
		return Result{}, err
	}

	sender, err := recoverSender(digest, a.Signature, a.V)
	if err != nil {
		return Result{}, err
	}

	callData, err := encoder.EncodeCall(mt, argValues)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Sender:    sender,
		Contract:  common.BytesToAddress(a.ContractAddress[:]),
		Value:     a.Value,
		CallData:  callData,
		MethodSig: mt.Method.Signature(),
		Digest:    digest,
	}, nil
}

// Digest computes the final EIP-712 digest
// keccak(0x19 0x01 ‖ domain ‖ hashStruct) for a decoded meta-call
// envelope (spec §4.2 "Top-level hash").
func Digest(chainID *big.Int, hostAccount string, mt typeparser.MethodAndTypes, a MetaCallArgs, argValues []rlpcodec.Node) (common.Hash, error) {
	domain := DomainSeparator(chainID)

	typeHash := NearTxArgumentsTypeHash(mt)
	hostAccountHash := crypto.Keccak256([]byte(hostAccount))
	nonceWord := leftPad(a.Nonce.Bytes())
	feeAmountWord := leftPad(a.FeeAmount.Bytes())
	feeAddressWord := leftPad(a.FeeAddress[:])
	contractAddressWord := leftPad(a.ContractAddress[:])
	valueWord := leftPad(a.Value.Bytes())
	methodSigHash := crypto.Keccak256([]byte(mt.Method.Signature()))

	argumentsHash, err := HashArguments(mt, argValues)
	if err != nil {
		return common.Hash{}, err
	}

	buf := make([]byte, 0, 32*9)
	buf = append(buf, typeHash...)
	buf = append(buf, hostAccountHash...)
	buf = append(buf, nonceWord...)
	buf = append(buf, feeAmountWord...)
	buf = append(buf, feeAddressWord...)
	buf = append(buf, contractAddressWord...)
	buf = append(buf, valueWord...)
	buf = append(buf, methodSigHash...)
	buf = append(buf, crypto.Keccak256(argumentsHash)...)

	hashStruct := crypto.Keccak256(buf)

	final := make([]byte, 0, 2+32+32)
	final = append(final, 0x19, 0x01)
	final = append(final, domain.Bytes()...)
	final = append(final, hashStruct...)

	return crypto.Keccak256Hash(final), nil
}

// recoverSender ECDSA-recovers the signer from a 64-byte r‖s
// signature plus a recovery id, rejecting malleable (upper-half-s)
// signatures per spec §4.1's malleability rule, reused here since
// meta-call signatures follow the same recovery convention.
func recoverSender(digest common.Hash, sig [64]byte, v uint8) (common.Address, error) {
	s := new(big.Int).SetBytes(sig[32:64])
	if s.Cmp(secp256k1HalfOrderN) > 0 {
		return common.Address{}, fmt.Errorf("%w: s value in upper half of curve order", errInvalidFunctionArg)
	}

	full := make([]byte, 65)
	copy(full, sig[:])
	full[64] = v

	pub, err := crypto.SigToPub(digest.Bytes(), full)
	if err != nil {
		return common.Address{}, fmt.Errorf("metacall: recover sender: %w", err)
	}
	return crypto.PubkeyToAddress(*pub), nil
}

var secp256k1HalfOrderN = func() *big.Int {
	order, _ := new(big.Int).SetString("fffffffffffffffffffffffffffffffebaaedce6af48a03bbfd25e8cd0364141", 16)
	return new(big.Int).Rsh(order, 1)
}()
