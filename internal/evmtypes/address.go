// Package evmtypes provides the engine's core newtype wrappers: a
// 20-byte EVM address, a checked 256-bit wei balance, and a validated
// host-runtime account identifier (spec §3 "Core entities").
package evmtypes

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Address is a 20-byte EVM identity. It is only ever constructed via
// DecodeAddress or ImplicitAddress, never by casting raw bytes, so
// that every Address in the system is known-valid.
type Address struct {
	inner common.Address
}

// DecodeAddress validates and wraps a 20-byte slice as an Address.
func DecodeAddress(b []byte) (Address, error) {
	if len(b) != common.AddressLength {
		return Address{}, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidAddress, common.AddressLength, len(b))
	}
	return Address{inner: common.BytesToAddress(b)}, nil
}

// ImplicitAddress derives the canonical EVM identity for a host
// account that has not deployed code: keccak(account_id)[12:].
func ImplicitAddress(hostAccount string) Address {
	hash := crypto.Keccak256([]byte(hostAccount))
	return Address{inner: common.BytesToAddress(hash[12:])}
}

// Bytes returns the 20 raw address bytes.
func (a Address) Bytes() []byte {
	return a.inner.Bytes()
}

// Common returns the go-ethereum common.Address view, for interop with
// the EVM interpreter and its codec libraries.
func (a Address) Common() common.Address {
	return a.inner
}

// String returns the checksummed hex representation.
func (a Address) String() string {
	return a.inner.Hex()
}

// IsZero reports whether this is the zero address.
func (a Address) IsZero() bool {
	return a.inner == common.Address{}
}

// ErrInvalidAddress is returned by DecodeAddress on malformed input.
var ErrInvalidAddress = errors.New("invalid address")

// accountIDPattern mirrors the host runtime's account-naming rules:
// lowercase alphanumeric segments separated by single '.', '-' or '_',
// 2-64 characters total.
var accountIDPattern = regexp.MustCompile(`^(([a-z\d]+[\-_])*[a-z\d]+\.)*([a-z\d]+[\-_])*[a-z\d]+$`)

// AccountID is a validated host-runtime account identifier.
type AccountID struct {
	raw string
}

// ErrInvalidAccountID is returned by ParseAccountID on a malformed id.
var ErrInvalidAccountID = errors.New("invalid account id")

// ParseAccountID validates a raw string against the host's naming
// rules (2-64 chars, '.'-separated lowercase alphanumeric segments).
func ParseAccountID(raw string) (AccountID, error) {
	if len(raw) < 2 || len(raw) > 64 {
		return AccountID{}, fmt.Errorf("%w: length %d out of [2,64]", ErrInvalidAccountID, len(raw))
	}
	if !accountIDPattern.MatchString(raw) {
		return AccountID{}, fmt.Errorf("%w: %q", ErrInvalidAccountID, raw)
	}
	return AccountID{raw: raw}, nil
}

// String returns the raw account id.
func (a AccountID) String() string {
	return a.raw
}

// ImplicitAddress is a convenience wrapper over the package-level
// ImplicitAddress for this account id.
func (a AccountID) ImplicitAddress() Address {
	return ImplicitAddress(a.raw)
}
