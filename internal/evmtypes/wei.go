package evmtypes

import (
	"fmt"

	"github.com/holiman/uint256"
)

// Wei is a checked 256-bit unsigned wrapper over the EVM balance
// domain (spec §3 "Wei"). The zero value is a valid zero balance,
// matching uint256.Int's zero value.
type Wei struct {
	inner uint256.Int
}

// ErrBalanceOverflow is returned when an Add would exceed 2^256-1.
// ErrInsufficientBalance is returned when a Sub would underflow.
var (
	ErrBalanceOverflow      = fmt.Errorf("balance overflow")
	ErrInsufficientBalance  = fmt.Errorf("insufficient balance")
)

// WeiFromUint64 constructs a Wei from a uint64 amount.
func WeiFromUint64(v uint64) Wei {
	return Wei{inner: *uint256.NewInt(v)}
}

// WeiFromUint256 constructs a Wei holding a copy of v. Every
// uint256.Int fits, so there is no error case.
func WeiFromUint256(v *uint256.Int) Wei {
	var w Wei
	w.inner.Set(v)
	return w
}

// Uint256 returns the underlying uint256.Int value (copy).
func (w Wei) Uint256() *uint256.Int {
	v := w.inner
	return &v
}

// IsZero reports whether the balance is zero.
func (w Wei) IsZero() bool {
	return w.inner.IsZero()
}

// Add returns w+other, or ErrBalanceOverflow if the result would wrap.
func (w Wei) Add(other Wei) (Wei, error) {
	var sum uint256.Int
	overflow := sum.AddOverflow(&w.inner, &other.inner)
	if overflow {
		return Wei{}, ErrBalanceOverflow
	}
	return Wei{inner: sum}, nil
}

// Sub returns w-other, or ErrInsufficientBalance if other > w.
func (w Wei) Sub(other Wei) (Wei, error) {
	if w.inner.Lt(&other.inner) {
		return Wei{}, ErrInsufficientBalance
	}
	var diff uint256.Int
	diff.Sub(&w.inner, &other.inner)
	return Wei{inner: diff}, nil
}

// Cmp compares w to other: -1, 0, or 1.
func (w Wei) Cmp(other Wei) int {
	return w.inner.Cmp(&other.inner)
}

// String renders the decimal value.
func (w Wei) String() string {
	return w.inner.Dec()
}

// NearToAuroraScale is the fixed conversion factor between the
// NEP-141 ledger domain and the EVM wei domain: one-to-one (spec §3:
// "conversions to/from the NEP-141 domain use a fixed scaling factor
// of 10^0").
const NearToAuroraScale = 1

// FromNearAmount converts a NEP-141-side amount, given as a
// *uint256.Int, into Wei at 1:1 scale.
func FromNearAmount(v *uint256.Int) Wei {
	return WeiFromUint256(v)
}
