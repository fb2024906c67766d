package metacall_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aurora-is-near/aurora-engine-go/internal/abi/typeparser"
	"github.com/aurora-is-near/aurora-engine-go/internal/metacall"
	"github.com/aurora-is-near/aurora-engine-go/internal/rlpcodec"
)

// TestHashArgumentsZeroLengthArrayFixture implements the spec's
// boundary case: a bytes32[] array argument of length 0 hashes via
// keccak("") for its element-concatenation, not a special-cased zero
// value.
func TestHashArgumentsZeroLengthArrayFixture(t *testing.T) {
	mt, err := typeparser.Parse("f(bytes32[] a)")
	require.NoError(t, err)

	got, err := metacall.HashArguments(mt, []rlpcodec.Node{{Elements: nil}})
	require.NoError(t, err)
	require.Equal(t, "ed05b99a68734c1ed057b13c9898ea76779ad129d88e28ea1c4502172c6b8e41", hexString(got))
}

func hexString(b []byte) string {
	const hextable = "0123456789abcdef"
	out := make([]byte, len(b)*2)
	for i, c := range b {
		out[i*2] = hextable[c>>4]
		out[i*2+1] = hextable[c&0x0f]
	}
	return string(out)
}

func TestHashArgumentsRejectsArgCountMismatch(t *testing.T) {
	mt, err := typeparser.Parse("f(uint256 a)")
	require.NoError(t, err)

	_, err = metacall.HashArguments(mt, nil)
	require.Error(t, err)
}
