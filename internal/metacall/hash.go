package metacall

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/aurora-is-near/aurora-engine-go/internal/abi/typeparser"
	"github.com/aurora-is-near/aurora-engine-go/internal/rlpcodec"
)

const word = 32

// signatureWithNames renders "Name(type1 name1,type2 name2,...)" —
// unlike typeparser.Method.Signature, argument names are kept, since
// EIP-712 struct type hashes are computed over the method definition
// *with* argument names (spec §4.2: "custom struct → keccak(typeHash ‖
// elem_hashes) where typeHash = keccak(struct_method_def_with_arg_names)").
func signatureWithNames(name string, args []typeparser.Arg) string {
	var sb strings.Builder
	sb.WriteString(name)
	sb.WriteByte('(')
	for i, a := range args {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(a.Type.String())
		sb.WriteByte(' ')
		sb.WriteString(a.Name)
	}
	sb.WriteByte(')')
	return sb.String()
}

// structTypeHash is keccak(struct_method_def_with_arg_names) for the
// named struct type def.
func structTypeHash(name string, args []typeparser.Arg) []byte {
	return crypto.Keccak256([]byte(signatureWithNames(name, args)))
}

// NearTxArgumentsTypeHash computes
// keccak("NearTx(…)Arguments(…)") for the given parsed method (spec
// §4.2 "Top-level hash").
func NearTxArgumentsTypeHash(mt typeparser.MethodAndTypes) []byte {
	const nearTxFields = "string hostAccount,uint256 nonce,uint256 feeAmount,address feeAddress,address contractAddress,uint256 value,string methodSig,Arguments arguments"
	def := fmt.Sprintf("NearTx(%s)%s", nearTxFields, signatureWithNames("Arguments", mt.Method.Args))
	return crypto.Keccak256([]byte(def))
}

func leftPad(b []byte) []byte {
	w := make([]byte, word)
	if len(b) > word {
		b = b[len(b)-word:]
	}
	copy(w[word-len(b):], b)
	return w
}

func leftAlign(b []byte) []byte {
	w := make([]byte, word)
	copy(w, b)
	return w
}

// encodeMember returns the 32-byte EIP-712 "encodeData" slot for a
// single member value of the given type, recursing into hashStruct for
// dynamic/struct members (spec §4.2 "EIP-712 hashStruct").
func encodeMember(t typeparser.Type, v rlpcodec.Node, types map[string]typeparser.Method) ([]byte, error) {
	switch t.Kind {
	case typeparser.KindString, typeparser.KindBytes:
		return crypto.Keccak256(v.Bytes), nil
	case typeparser.KindBytesN:
		return leftAlign(v.Bytes), nil
	case typeparser.KindBool:
		out := make([]byte, word)
		if len(v.Bytes) > 0 && v.Bytes[len(v.Bytes)-1] != 0 {
			out[word-1] = 1
		}
		return out, nil
	case typeparser.KindUint, typeparser.KindInt:
		return leftPad(v.Bytes), nil
	case typeparser.KindAddress:
		return leftPad(v.Bytes), nil
	case typeparser.KindArray:
		return hashArray(*t.Elem, v.Elements, types)
	case typeparser.KindTuple:
		h, err := hashStructValue(t.TupleName, types, v)
		if err != nil {
			return nil, err
		}
		return h, nil
	default:
		return nil, fmt.Errorf("metacall: unsupported member type %s", t.String())
	}
}

// hashArray implements "array → keccak(concat(element_hashes))",
// including the boundary case of a zero-length array hashing to
// keccak("") (spec §8 "bytes32 array of length 0 hashes to keccak('')").
func hashArray(elem typeparser.Type, values []rlpcodec.Node, types map[string]typeparser.Method) ([]byte, error) {
	var buf []byte
	for _, v := range values {
		enc, err := encodeMember(elem, v, types)
		if err != nil {
			return nil, err
		}
		buf = append(buf, enc...)
	}
	return crypto.Keccak256(buf), nil
}

// hashStructValue computes keccak(typeHash ‖ elem_hashes) for a named
// struct type and its RLP-list value.
func hashStructValue(name string, types map[string]typeparser.Method, v rlpcodec.Node) ([]byte, error) {
	def, ok := types[name]
	if !ok {
		return nil, fmt.Errorf("metacall: unknown struct type %q", name)
	}
	if len(def.Args) != len(v.Elements) {
		return nil, fmt.Errorf("metacall: struct %s field count mismatch: expected %d, got %d", name, len(def.Args), len(v.Elements))
	}
	buf := append([]byte{}, structTypeHash(name, def.Args)...)
	for i, field := range def.Args {
		enc, err := encodeMember(field.Type, v.Elements[i], types)
		if err != nil {
			return nil, err
		}
		buf = append(buf, enc...)
	}
	return crypto.Keccak256(buf), nil
}

// HashArguments computes the "Arguments_hash" struct hash over the
// method's own argument list treated as an anonymous "Arguments"
// struct (spec §4.2 "Top-level hash").
func HashArguments(mt typeparser.MethodAndTypes, argValues []rlpcodec.Node) ([]byte, error) {
	if len(mt.Method.Args) != len(argValues) {
		return nil, fmt.Errorf("metacall: %w: method has %d args, got %d values",
			errInvalidFunctionArg, len(mt.Method.Args), len(argValues))
	}
	buf := append([]byte{}, structTypeHash("Arguments", mt.Method.Args)...)
	for i, field := range mt.Method.Args {
		enc, err := encodeMember(field.Type, argValues[i], mt.Types)
		if err != nil {
			return nil, err
		}
		buf = append(buf, enc...)
	}
	return crypto.Keccak256(buf), nil
}
