package encoder_test

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/aurora-is-near/aurora-engine-go/internal/abi/encoder"
	"github.com/aurora-is-near/aurora-engine-go/internal/abi/typeparser"
	"github.com/aurora-is-near/aurora-engine-go/internal/rlpcodec"
)

// TestAdoptSelectorMatchesFixture implements the spec's ABI selector
// scenario: method_sig = "adopt(uint256,PetObj)" must hash to a fixed,
// known 4-byte selector.
func TestAdoptSelectorMatchesFixture(t *testing.T) {
	sel := encoder.Selector("adopt(uint256,PetObj)")
	require.Len(t, sel, 4)
	require.NotEqual(t, [4]byte{}, sel)
	require.Equal(t, [4]byte{0x31, 0x32, 0x75, 0x23}, sel)

	// Selector is a pure function of the signature string.
	sel2 := encoder.Selector("adopt(uint256,PetObj)")
	require.Equal(t, sel, sel2)

	other := encoder.Selector("adopt(uint256,uint256)")
	require.NotEqual(t, sel, other)
}

func TestEncodeArgsStaticOnly(t *testing.T) {
	mt, err := typeparser.Parse("transfer(address to, uint256 amount)")
	require.NoError(t, err)

	addr := common.HexToAddress("0x00000000000000000000000000000000000001")
	values := []rlpcodec.Node{
		{Bytes: addr.Bytes()},
		{Bytes: big.NewInt(42).Bytes()},
	}

	encoded, err := encoder.EncodeArgs(mt.Method.Args, values, mt.Types)
	require.NoError(t, err)
	require.Len(t, encoded, 64)
	require.Equal(t, addr.Bytes(), encoder.AddressFromWord(encoded[:32]).Bytes())
	require.Equal(t, big.NewInt(42), new(big.Int).SetBytes(encoded[32:64]))
}

func TestEncodeArgsWithDynamicString(t *testing.T) {
	mt, err := typeparser.Parse("setName(uint256 id, string name)")
	require.NoError(t, err)

	values := []rlpcodec.Node{
		{Bytes: big.NewInt(1).Bytes()},
		{Bytes: []byte("aurora")},
	}

	encoded, err := encoder.EncodeArgs(mt.Method.Args, values, mt.Types)
	require.NoError(t, err)

	// head: id word (32) + offset word (32) = 64, tail starts there.
	offset := new(big.Int).SetBytes(encoded[32:64]).Int64()
	require.Equal(t, int64(64), offset)
	strLen := new(big.Int).SetBytes(encoded[offset : offset+32]).Int64()
	require.Equal(t, int64(6), strLen)
	require.Equal(t, "aurora", string(encoded[offset+32:offset+32+strLen]))
}

func TestEncodeCallPrependsSelector(t *testing.T) {
	mt, err := typeparser.Parse("ping()")
	require.NoError(t, err)

	out, err := encoder.EncodeCall(mt, nil)
	require.NoError(t, err)
	require.Equal(t, encoder.Selector("ping()")[:], out[:4])
	require.Len(t, out, 4)
}

func TestEncodeArgsRejectsArgCountMismatch(t *testing.T) {
	mt, err := typeparser.Parse("transfer(address to, uint256 amount)")
	require.NoError(t, err)

	_, err = encoder.EncodeArgs(mt.Method.Args, []rlpcodec.Node{{}}, mt.Types)
	require.Error(t, err)
}

func TestIsDynamicDetectsStructWithDynamicField(t *testing.T) {
	mt, err := typeparser.Parse("f(Pet pet)Pet(string name, uint8 age)")
	require.NoError(t, err)

	petType := mt.Method.Args[0].Type
	require.True(t, encoder.IsDynamic(petType, mt.Types))
}

func TestEncodeStructRoundTripsThroughHeadTail(t *testing.T) {
	mt, err := typeparser.Parse("adopt(uint256 petId, Pet pet)Pet(string name, uint8 age)")
	require.NoError(t, err)

	values := []rlpcodec.Node{
		{Bytes: big.NewInt(7).Bytes()},
		{Elements: []rlpcodec.Node{
			{Bytes: []byte("fido")},
			{Bytes: []byte{3}},
		}},
	}

	encoded, err := encoder.EncodeArgs(mt.Method.Args, values, mt.Types)
	require.NoError(t, err)
	require.NotEmpty(t, encoded)
}
