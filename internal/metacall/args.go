package metacall

import (
	"encoding/binary"
	"fmt"
	"math/big"

	"github.com/aurora-is-near/aurora-engine-go/internal/engineerr"
)

var errInvalidFunctionArg = engineerr.ErrInvalidFunctionArg

// MetaCallArgs is the compact binary envelope a meta-call receipt
// carries (spec §4.2 "MetaCallArgs").
type MetaCallArgs struct {
	Signature       [64]byte
	V               uint8
	Nonce           *big.Int // u128
	FeeAmount       *big.Int // u128
	FeeAddress      [20]byte
	ContractAddress [20]byte
	Value           *big.Int // u128
	MethodDef       string
	Args            []byte // rlp-list bytes
}

// DecodeMetaCallArgs parses the fixed-then-length-prefixed binary
// envelope: signature(64) ‖ v(1) ‖ nonce(16 BE) ‖ fee_amount(16 BE) ‖
// fee_address(20) ‖ contract_address(20) ‖ value(16 BE) ‖
// method_def_len(4 BE)+utf8 ‖ args_len(4 BE)+bytes.
func DecodeMetaCallArgs(raw []byte) (MetaCallArgs, error) {
	const fixedLen = 64 + 1 + 16 + 16 + 20 + 20 + 16
	if len(raw) < fixedLen+4 {
		return MetaCallArgs{}, fmt.Errorf("metacall: envelope too short: %d bytes", len(raw))
	}

	var a MetaCallArgs
	pos := 0
	copy(a.Signature[:], raw[pos:pos+64])
	pos += 64
	a.V = raw[pos]
	pos++
	a.Nonce = new(big.Int).SetBytes(raw[pos : pos+16])
	pos += 16
	a.FeeAmount = new(big.Int).SetBytes(raw[pos : pos+16])
	pos += 16
	copy(a.FeeAddress[:], raw[pos:pos+20])
	pos += 20
	copy(a.ContractAddress[:], raw[pos:pos+20])
	pos += 20
	a.Value = new(big.Int).SetBytes(raw[pos : pos+16])
	pos += 16

	if pos+4 > len(raw) {
		return MetaCallArgs{}, fmt.Errorf("metacall: truncated method_def length")
	}
	methodDefLen := binary.BigEndian.Uint32(raw[pos : pos+4])
	pos += 4
	if pos+int(methodDefLen) > len(raw) {
		return MetaCallArgs{}, fmt.Errorf("metacall: truncated method_def body")
	}
	a.MethodDef = string(raw[pos : pos+int(methodDefLen)])
	pos += int(methodDefLen)

	if pos+4 > len(raw) {
		return MetaCallArgs{}, fmt.Errorf("metacall: truncated args length")
	}
	argsLen := binary.BigEndian.Uint32(raw[pos : pos+4])
	pos += 4
	if pos+int(argsLen) > len(raw) {
		return MetaCallArgs{}, fmt.Errorf("metacall: truncated args body")
	}
	a.Args = raw[pos : pos+int(argsLen)]
	pos += int(argsLen)

	return a, nil
}

// EncodeMetaCallArgs is the inverse of DecodeMetaCallArgs, used by
// tests and by relayer tooling constructing meta-call receipts.
func EncodeMetaCallArgs(a MetaCallArgs) []byte {
	out := make([]byte, 0, 64+1+16+16+20+20+16+4+len(a.MethodDef)+4+len(a.Args))
	out = append(out, a.Signature[:]...)
	out = append(out, a.V)
	out = append(out, leftPadN(a.Nonce, 16)...)
	out = append(out, leftPadN(a.FeeAmount, 16)...)
	out = append(out, a.FeeAddress[:]...)
	out = append(out, a.ContractAddress[:]...)
	out = append(out, leftPadN(a.Value, 16)...)

	var methodDefLen [4]byte
	binary.BigEndian.PutUint32(methodDefLen[:], uint32(len(a.MethodDef)))
	out = append(out, methodDefLen[:]...)
	out = append(out, []byte(a.MethodDef)...)

	var argsLen [4]byte
	binary.BigEndian.PutUint32(argsLen[:], uint32(len(a.Args)))
	out = append(out, argsLen[:]...)
	out = append(out, a.Args...)

	return out
}

func leftPadN(v *big.Int, n int) []byte {
	w := make([]byte, n)
	b := v.Bytes()
	copy(w[n-len(b):], b)
	return w
}
