package xcc

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/aurora-is-near/aurora-engine-go/internal/engineerr"
)

// SubPromiseInput is the user's EVM-encoded request for a cross-contract
// call (spec §4.6: "a single sub-promise {target, method, args,
// attached_balance, attached_gas}").
type SubPromiseInput struct {
	TargetAddressHex string // lowercase 40-hex-char address portion of target
	Method           string
	Args             []byte
	AttachedBalance  uint64 // must be zero: spec invariant, checked by caller
	AttachedGas      uint64
	RequiredNear     uint64 // > 0 triggers the wnear-unwrap branch
}

// DecodeSubPromise parses the precompile call input. Layout: a 4-byte
// BE target-length prefix, the ASCII target account id (whose first 40
// characters are required to be the lowercase hex EVM address, per
// spec "target MUST be of the form {40 lowercase hex addr}.{engine_account}"),
// then 4-byte BE method length + method bytes, 4-byte BE args length +
// args bytes, attached_balance(8B BE), attached_gas(8B BE),
// required_near(8B BE).
func DecodeSubPromise(raw []byte) (SubPromiseInput, error) {
	r := raw
	target, r, err := readLP(r)
	if err != nil {
		return SubPromiseInput{}, err
	}
	if len(target) < 40 {
		return SubPromiseInput{}, fmt.Errorf("xcc: %w: target too short", engineerr.ErrInvalidFunctionArg)
	}
	addrHex := string(target[:40])
	if _, err := hex.DecodeString(addrHex); err != nil || strings.ToLower(addrHex) != addrHex {
		return SubPromiseInput{}, fmt.Errorf("xcc: %w: target must start with a lowercase hex address", engineerr.ErrInvalidFunctionArg)
	}

	method, r, err := readLP(r)
	if err != nil {
		return SubPromiseInput{}, err
	}
	args, r, err := readLP(r)
	if err != nil {
		return SubPromiseInput{}, err
	}
	if len(r) != 24 {
		return SubPromiseInput{}, fmt.Errorf("xcc: %w: trailing fixed fields malformed", engineerr.ErrInvalidFunctionArg)
	}

	return SubPromiseInput{
		TargetAddressHex: addrHex,
		Method:           string(method),
		Args:             args,
		AttachedBalance:  binary.BigEndian.Uint64(r[0:8]),
		AttachedGas:      binary.BigEndian.Uint64(r[8:16]),
		RequiredNear:     binary.BigEndian.Uint64(r[16:24]),
	}, nil
}

func readLP(b []byte) (field, rest []byte, err error) {
	if len(b) < 4 {
		return nil, nil, fmt.Errorf("xcc: %w: truncated length prefix", engineerr.ErrInvalidFunctionArg)
	}
	n := binary.BigEndian.Uint32(b)
	b = b[4:]
	if uint32(len(b)) < n {
		return nil, nil, fmt.Errorf("xcc: %w: truncated field", engineerr.ErrInvalidFunctionArg)
	}
	return b[:n], b[n:], nil
}
