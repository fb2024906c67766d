package metacall_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aurora-is-near/aurora-engine-go/internal/metacall"
)

func TestMetaCallArgsEncodeDecodeRoundTrip(t *testing.T) {
	var sig [64]byte
	for i := range sig {
		sig[i] = byte(i)
	}
	var feeAddr, contractAddr [20]byte
	for i := range feeAddr {
		feeAddr[i] = byte(i + 1)
		contractAddr[i] = byte(i + 2)
	}

	original := metacall.MetaCallArgs{
		Signature:       sig,
		V:               27,
		Nonce:           big.NewInt(5),
		FeeAmount:       big.NewInt(100),
		FeeAddress:      feeAddr,
		ContractAddress: contractAddr,
		Value:           big.NewInt(0),
		MethodDef:       "adopt(uint256 petId, PetObj pet)PetObj(string name, uint8 age)",
		Args:            []byte{0xc0},
	}

	raw := metacall.EncodeMetaCallArgs(original)
	decoded, err := metacall.DecodeMetaCallArgs(raw)
	require.NoError(t, err)

	require.Equal(t, original.Signature, decoded.Signature)
	require.Equal(t, original.V, decoded.V)
	require.Equal(t, 0, original.Nonce.Cmp(decoded.Nonce))
	require.Equal(t, 0, original.FeeAmount.Cmp(decoded.FeeAmount))
	require.Equal(t, original.FeeAddress, decoded.FeeAddress)
	require.Equal(t, original.ContractAddress, decoded.ContractAddress)
	require.Equal(t, 0, original.Value.Cmp(decoded.Value))
	require.Equal(t, original.MethodDef, decoded.MethodDef)
	require.Equal(t, original.Args, decoded.Args)
}

func TestDecodeMetaCallArgsRejectsTruncatedEnvelope(t *testing.T) {
	_, err := metacall.DecodeMetaCallArgs(make([]byte, 10))
	require.Error(t, err)
}
