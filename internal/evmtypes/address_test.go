package evmtypes_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aurora-is-near/aurora-engine-go/internal/evmtypes"
)

func TestDecodeAddressRejectsWrongLength(t *testing.T) {
	_, err := evmtypes.DecodeAddress([]byte{1, 2, 3})
	require.ErrorIs(t, err, evmtypes.ErrInvalidAddress)
}

func TestDecodeAddressAccepts20Bytes(t *testing.T) {
	raw := make([]byte, 20)
	raw[19] = 0xff
	addr, err := evmtypes.DecodeAddress(raw)
	require.NoError(t, err)
	require.Equal(t, raw, addr.Bytes())
}

func TestImplicitAddressIsDeterministic(t *testing.T) {
	a := evmtypes.ImplicitAddress("aurora")
	b := evmtypes.ImplicitAddress("aurora")
	require.Equal(t, a, b)

	c := evmtypes.ImplicitAddress("other.near")
	require.NotEqual(t, a, c)
}

func TestZeroAddressIsZero(t *testing.T) {
	addr, err := evmtypes.DecodeAddress(make([]byte, 20))
	require.NoError(t, err)
	require.True(t, addr.IsZero())
}

func TestParseAccountIDValidatesNearNamingRules(t *testing.T) {
	_, err := evmtypes.ParseAccountID("alice.near")
	require.NoError(t, err)

	_, err = evmtypes.ParseAccountID("a")
	require.Error(t, err)

	_, err = evmtypes.ParseAccountID("Invalid.Upper")
	require.Error(t, err)

	_, err = evmtypes.ParseAccountID(".leadingdot")
	require.Error(t, err)
}

func TestAccountIDImplicitAddressMatchesPackageLevelHelper(t *testing.T) {
	id, err := evmtypes.ParseAccountID("aurora")
	require.NoError(t, err)
	require.Equal(t, evmtypes.ImplicitAddress("aurora"), id.ImplicitAddress())
}
