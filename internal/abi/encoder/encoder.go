// Package encoder turns RLP-decoded meta-call arguments into ABI
// "tokens" and then into the packed bytes the EVM entry point expects
// (spec §2 "abi-enc", §4.2 "The ABI call-payload emitted to the EVM").
//
// Values are carried as rlpcodec.Node trees so that the exact same
// parsed type tree drives both EIP-712 hashing (internal/metacall) and
// ABI encoding, per spec §4.2: "abi_encode uses the *same* type parse
// tree."
package encoder

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/aurora-is-near/aurora-engine-go/internal/abi/typeparser"
	"github.com/aurora-is-near/aurora-engine-go/internal/rlpcodec"
)

const wordSize = 32

// Selector computes the first 4 bytes of keccak(signature), the
// standard Solidity function selector (spec §4.2, §8 scenario 3).
func Selector(signature string) [4]byte {
	hash := crypto.Keccak256([]byte(signature))
	var sel [4]byte
	copy(sel[:], hash[:4])
	return sel
}

// EncodeCall builds `selector(4B) ‖ abi_encode(args)` for a parsed
// method and its RLP argument values.
func EncodeCall(mt typeparser.MethodAndTypes, values []rlpcodec.Node) ([]byte, error) {
	sel := Selector(mt.Method.Signature())
	body, err := EncodeArgs(mt.Method.Args, values, mt.Types)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, 4+len(body))
	out = append(out, sel[:]...)
	out = append(out, body...)
	return out, nil
}

// EncodeArgs ABI-encodes a list of typed arguments using the standard
// Solidity head/tail layout: static-size heads inline, dynamic
// payloads appended in a tail region referenced by an offset word.
func EncodeArgs(args []typeparser.Arg, values []rlpcodec.Node, types map[string]typeparser.Method) ([]byte, error) {
	if len(args) != len(values) {
		return nil, fmt.Errorf("abi-enc: arg count mismatch: method has %d, got %d values", len(args), len(values))
	}
	heads := make([][]byte, len(args))
	tails := make([][]byte, len(args))
	dynamic := make([]bool, len(args))

	headSize := 0
	for i, a := range args {
		isDyn := IsDynamic(a.Type, types)
		dynamic[i] = isDyn
		if isDyn {
			headSize += wordSize
		} else {
			enc, err := encodeStatic(a.Type, values[i], types)
			if err != nil {
				return nil, fmt.Errorf("abi-enc: arg %d (%s): %w", i, a.Name, err)
			}
			heads[i] = enc
			headSize += len(enc)
		}
	}

	tailOffset := headSize
	for i, a := range args {
		if !dynamic[i] {
			continue
		}
		enc, err := encodeDynamic(a.Type, values[i], types)
		if err != nil {
			return nil, fmt.Errorf("abi-enc: arg %d (%s): %w", i, a.Name, err)
		}
		heads[i] = encodeUint(big.NewInt(int64(tailOffset)))
		tails[i] = enc
		tailOffset += len(enc)
	}

	out := make([]byte, 0, tailOffset)
	for _, h := range heads {
		out = append(out, h...)
	}
	for _, t := range tails {
		out = append(out, t...)
	}
	return out, nil
}

// IsDynamic reports whether t's encoding has variable length and so
// must live in the tail region (string, bytes, dynamic arrays, or any
// tuple/array containing one).
func IsDynamic(t typeparser.Type, types map[string]typeparser.Method) bool {
	switch t.Kind {
	case typeparser.KindString, typeparser.KindBytes:
		return true
	case typeparser.KindArray:
		if t.ArrayLen < 0 {
			return true
		}
		return IsDynamic(*t.Elem, types)
	case typeparser.KindTuple:
		def := types[t.TupleName]
		for _, a := range def.Args {
			if IsDynamic(a.Type, types) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

func encodeUint(v *big.Int) []byte {
	b := v.Bytes()
	word := make([]byte, wordSize)
	copy(word[wordSize-len(b):], b)
	return word
}

// encodeStatic encodes a single non-dynamic-tail value to exactly one
// head slot's worth of bytes (possibly multiple words for static
// tuples/arrays, which are inlined directly into the head).
func encodeStatic(t typeparser.Type, v rlpcodec.Node, types map[string]typeparser.Method) ([]byte, error) {
	switch t.Kind {
	case typeparser.KindAddress:
		if len(v.Bytes) != 20 {
			return nil, fmt.Errorf("address value must be 20 bytes, got %d", len(v.Bytes))
		}
		word := make([]byte, wordSize)
		copy(word[12:], v.Bytes)
		return word, nil
	case typeparser.KindBool:
		word := make([]byte, wordSize)
		if len(v.Bytes) > 0 && v.Bytes[len(v.Bytes)-1] != 0 {
			word[wordSize-1] = 1
		}
		return word, nil
	case typeparser.KindBytesN:
		if len(v.Bytes) > t.Size {
			return nil, fmt.Errorf("bytes%d value too long: %d bytes", t.Size, len(v.Bytes))
		}
		word := make([]byte, wordSize)
		copy(word, v.Bytes) // left-aligned, per spec §4.2
		return word, nil
	case typeparser.KindUint, typeparser.KindInt:
		return encodeUint(new(big.Int).SetBytes(v.Bytes)), nil
	case typeparser.KindArray:
		if t.ArrayLen < 0 {
			return nil, fmt.Errorf("internal: dynamic array reached encodeStatic")
		}
		if len(v.Elements) != t.ArrayLen {
			return nil, fmt.Errorf("fixed array length mismatch: type has %d, got %d", t.ArrayLen, len(v.Elements))
		}
		var out []byte
		for _, elem := range v.Elements {
			enc, err := encodeStatic(*t.Elem, elem, types)
			if err != nil {
				return nil, err
			}
			out = append(out, enc...)
		}
		return out, nil
	case typeparser.KindTuple:
		def, ok := types[t.TupleName]
		if !ok {
			return nil, fmt.Errorf("unknown struct type %q", t.TupleName)
		}
		if len(def.Args) != len(v.Elements) {
			return nil, fmt.Errorf("struct %s field count mismatch: expected %d, got %d", t.TupleName, len(def.Args), len(v.Elements))
		}
		var out []byte
		for i, field := range def.Args {
			enc, err := encodeStatic(field.Type, v.Elements[i], types)
			if err != nil {
				return nil, err
			}
			out = append(out, enc...)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported static type %s", t.String())
	}
}

// encodeDynamic encodes a dynamic-tail value's full payload,
// including its own internal head/tail layout when it is itself a
// tuple or array of dynamic elements.
func encodeDynamic(t typeparser.Type, v rlpcodec.Node, types map[string]typeparser.Method) ([]byte, error) {
	switch t.Kind {
	case typeparser.KindString, typeparser.KindBytes:
		length := encodeUint(big.NewInt(int64(len(v.Bytes))))
		padded := pad32(v.Bytes)
		return append(length, padded...), nil
	case typeparser.KindArray:
		if t.ArrayLen < 0 {
			length := encodeUint(big.NewInt(int64(len(v.Elements))))
			body, err := encodeArrayElements(*t.Elem, v.Elements, types)
			if err != nil {
				return nil, err
			}
			return append(length, body...), nil
		}
		if len(v.Elements) != t.ArrayLen {
			return nil, fmt.Errorf("fixed array length mismatch: type has %d, got %d", t.ArrayLen, len(v.Elements))
		}
		return encodeArrayElements(*t.Elem, v.Elements, types)
	case typeparser.KindTuple:
		def, ok := types[t.TupleName]
		if !ok {
			return nil, fmt.Errorf("unknown struct type %q", t.TupleName)
		}
		return EncodeArgs(def.Args, v.Elements, types)
	default:
		return nil, fmt.Errorf("unsupported dynamic type %s", t.String())
	}
}

func encodeArrayElements(elem typeparser.Type, values []rlpcodec.Node, types map[string]typeparser.Method) ([]byte, error) {
	isDyn := IsDynamic(elem, types)
	if !isDyn {
		var out []byte
		for _, v := range values {
			enc, err := encodeStatic(elem, v, types)
			if err != nil {
				return nil, err
			}
			out = append(out, enc...)
		}
		return out, nil
	}

	heads := make([][]byte, len(values))
	tails := make([][]byte, len(values))
	offset := len(values) * wordSize
	for i, v := range values {
		enc, err := encodeDynamic(elem, v, types)
		if err != nil {
			return nil, err
		}
		heads[i] = encodeUint(big.NewInt(int64(offset)))
		tails[i] = enc
		offset += len(enc)
	}
	var out []byte
	for _, h := range heads {
		out = append(out, h...)
	}
	for _, t := range tails {
		out = append(out, t...)
	}
	return out, nil
}

func pad32(b []byte) []byte {
	rem := len(b) % wordSize
	if rem == 0 {
		return append([]byte{}, b...)
	}
	padded := make([]byte, len(b)+wordSize-rem)
	copy(padded, b)
	return padded
}

// AddressFromWord decodes a left-padded 32-byte word as an address,
// the mirror operation used when ABI-decoding call results.
func AddressFromWord(word []byte) common.Address {
	return common.BytesToAddress(word[12:])
}
